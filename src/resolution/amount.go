package resolution

import (
	"banking_assistant/src/model"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount extracts a money amount from free text. It is a best-effort pattern matcher,
// not a numeric grammar: only digits and the words one to nine are understood.
//
// The currency must be named in the text, by symbol or by literal, and must be one of
// candidates. Cents phrases ("5 dollars and 20 cents", "$5 20 cents") are tried before plain
// amounts ("23.50 euros", "$23.50", "23.50$"). When several currencies are named, candidates
// order decides. Nil is returned when nothing matches.
func ParseAmount(literal string, candidates []model.Currency) *model.Amount {
	referenced := referencedCurrencies(literal, candidates)
	if len(referenced) == 0 {
		return nil
	}

	for _, c := range referenced {
		if v, ok := parseCents(literal, c); ok {
			return &model.Amount{Value: v.InexactFloat64(), Currency: c}
		}
	}
	for _, c := range referenced {
		if v, ok := parsePlain(literal, c); ok {
			return &model.Amount{Value: v.InexactFloat64(), Currency: c}
		}
	}
	return nil
}

var digitWords = map[string]int64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

const (
	wordDigit  = `\b(?:one|two|three|four|five|six|seven|eight|nine)\b`
	intPart    = `(\d+|` + wordDigit + `)`
	centsPart  = `(\d{1,2}|` + wordDigit + `)`
	plainNum   = `(\d+(?:[.,]\d+)*)`
	centsTail  = `\s*(?:and\s+)?` + centsPart + `\s*cents?\b`
	caseInsens = `(?i)`
)

// currencyPatterns holds the expressions compiled for one currency.
type currencyPatterns struct {
	words      []*regexp.Regexp
	substrings []string
	cents      []*regexp.Regexp
	plain      []*regexp.Regexp
}

// patternCache maps a currency fingerprint to its *currencyPatterns.
var patternCache sync.Map

func patternsFor(c model.Currency) *currencyPatterns {
	key := c.ID + "\x00" + strings.Join(c.Symbols, "\x01") + "\x00" + strings.Join(c.Literals, "\x01")
	if p, ok := patternCache.Load(key); ok {
		return p.(*currencyPatterns)
	}
	p, _ := patternCache.LoadOrStore(key, compilePatterns(c))
	return p.(*currencyPatterns)
}

func compilePatterns(c model.Currency) *currencyPatterns {
	p := &currencyPatterns{}

	// Alphabetic tokens are matched as whole words, everything else as a substring.
	for _, tok := range append(append([]string{}, c.Symbols...), c.Literals...) {
		switch {
		case tok == "":
		case isWord(tok):
			p.words = append(p.words, regexp.MustCompile(caseInsens+`\b`+regexp.QuoteMeta(tok)+`\b`))
		default:
			p.substrings = append(p.substrings, strings.ToLower(tok))
		}
	}

	lit := literalGroup(c)
	sym := alternation(c.Symbols)
	if lit != "" {
		p.cents = append(p.cents, compile(intPart+`\s*`+lit+centsTail))
		p.plain = append(p.plain, compile(`(\d+(?:[.,]\d+)*|`+wordDigit+`)\s*`+lit))
	}
	if sym != "" {
		p.cents = append(p.cents,
			compile(sym+`\s*`+intPart+centsTail),
			compile(intPart+`\s*`+sym+centsTail),
		)
		p.plain = append(p.plain,
			compile(sym+`\s*`+plainNum),
			compile(plainNum+`\s*`+sym),
		)
	}
	return p
}

func compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(caseInsens + pattern)
}

func referencedCurrencies(text string, candidates []model.Currency) []model.Currency {
	var out []model.Currency
	for _, c := range candidates {
		if patternsFor(c).mentionedIn(text) {
			out = append(out, c)
		}
	}
	return out
}

func (p *currencyPatterns) mentionedIn(text string) bool {
	for _, re := range p.words {
		if re.MatchString(text) {
			return true
		}
	}
	lower := strings.ToLower(text)
	for _, s := range p.substrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func isWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// alternation builds a non-capturing group matching any token, longest first so that
// "dollars" wins over "dollar".
func alternation(tokens []string) string {
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			quoted = append(quoted, regexp.QuoteMeta(t))
		}
	}
	if len(quoted) == 0 {
		return ""
	}
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	return "(?:" + strings.Join(quoted, "|") + ")"
}

func literalGroup(c model.Currency) string {
	alt := alternation(c.Literals)
	if alt == "" {
		return ""
	}
	return alt + `\b`
}

func parseCents(text string, c model.Currency) (decimal.Decimal, bool) {
	for _, re := range patternsFor(c).cents {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		units, ok := parseInt(m[1])
		if !ok {
			continue
		}
		cents, ok := parseInt(m[2])
		if !ok {
			continue
		}
		return units.Add(cents.Shift(-2)), true
	}
	return decimal.Zero, false
}

func parsePlain(text string, c model.Currency) (decimal.Decimal, bool) {
	for _, re := range patternsFor(c).plain {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := parseNumber(m[1]); ok {
			return v, true
		}
	}
	return decimal.Zero, false
}

func parseInt(s string) (decimal.Decimal, bool) {
	if n, ok := digitWords[strings.ToLower(s)]; ok {
		return decimal.NewFromInt(n), true
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseNumber reads "1,000.50", "12,50", "23.50" and "1.000,00". A final comma followed by
// one or two digits is a decimal comma, any other comma separates thousands. Without a comma,
// dots that each start a group of exactly three digits separate thousands, so "2.500" is 2500
// and "12.345" is 12345.
func parseNumber(s string) (decimal.Decimal, bool) {
	if n, ok := digitWords[strings.ToLower(s)]; ok {
		return decimal.NewFromInt(n), true
	}

	i := strings.LastIndexAny(s, ".,")
	switch {
	case i < 0:
	case s[i] == ',' && len(s)-i-1 <= 2:
		s = strings.ReplaceAll(s[:i], ".", "") + "." + s[i+1:]
	case s[i] == '.' && !strings.Contains(s, ",") && dotGrouped(s):
		s = strings.ReplaceAll(s, ".", "")
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// dotGrouped reports whether s looks like "1.000" or "12.500.000".
func dotGrouped(s string) bool {
	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return false
		}
	}
	return true
}

package resolution

import (
	"banking_assistant/src/model"
	"sort"
	"strings"
)

// MatchCurrency reports whether any symbol or literal of the currency is strictly more
// similar to literal than threshold.
func MatchCurrency(currency model.Currency, literal string, threshold float64) bool {
	return currencyScore(currency, literal) > threshold
}

func currencyScore(currency model.Currency, literal string) float64 {
	literal = strings.TrimSpace(literal)
	best := 0.0
	for _, s := range currency.Symbols {
		best = max(best, Similarity(s, literal))
	}
	for _, s := range currency.Literals {
		best = max(best, Similarity(s, literal))
	}
	return best
}

// MatchingCurrencies keeps the currencies matching literal, best match first.
func MatchingCurrencies(currencies []model.Currency, literal string, threshold float64) []model.Currency {
	var out []model.Currency
	for _, c := range currencies {
		if MatchCurrency(c, literal, threshold) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return currencyScore(out[i], literal) > currencyScore(out[j], literal)
	})
	return out
}

// MergeCurrencies returns the distinct currencies of all lists, first occurrence wins.
func MergeCurrencies(lists ...[]model.Currency) []model.Currency {
	seen := make(map[string]bool)
	var out []model.Currency
	for _, list := range lists {
		for _, c := range list {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

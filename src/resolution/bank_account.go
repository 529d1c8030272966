package resolution

import (
	"banking_assistant/src/model"
	"strings"
)

var accountFillers = map[string]bool{"my": true, "the": true, "account": true}

// stripAccountFillers drops "my", "the" and "account" so "my default account" reads "default".
func stripAccountFillers(literal string) string {
	var kept []string
	for _, w := range strings.Fields(strings.ToLower(literal)) {
		if !accountFillers[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// MatchBankAccount reports whether literal designates the account. "default" and "primary"
// match the default account only; anything else is compared to the account name, with and
// without the filler words.
func MatchBankAccount(account model.BankAccount, literal string, threshold float64) bool {
	stripped := stripAccountFillers(literal)
	if stripped == "default" || stripped == "primary" {
		return account.IsDefault
	}
	if strings.TrimSpace(literal) == "" {
		return false
	}
	score := Similarity(account.Name, literal)
	if stripped != "" {
		score = max(score, Similarity(account.Name, stripped))
	}
	return score >= threshold
}

// MatchingBankAccounts keeps the accounts matching literal, in their original order.
func MatchingBankAccounts(accounts []model.BankAccount, literal string, threshold float64) []model.BankAccount {
	var out []model.BankAccount
	for _, acc := range accounts {
		if MatchBankAccount(acc, literal, threshold) {
			out = append(out, acc)
		}
	}
	return out
}

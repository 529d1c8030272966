package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Contact is an entry of the user's address book.
type Contact struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
}

// FullName joins first and last name, skipping the empty one.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Currency describes a currency together with the spellings used to spot it in free text.
type Currency struct {
	ID       string   `json:"id" yaml:"id"`
	Symbols  []string `json:"symbols" yaml:"symbols"`
	Literals []string `json:"literals" yaml:"literals"`
}

// Same reports whether both values denote the same currency.
func (c Currency) Same(other Currency) bool {
	return c.ID == other.ID
}

// prefixSymbol returns the first symbol when it is a single non-letter rune ($, €, £).
func (c Currency) prefixSymbol() string {
	if len(c.Symbols) == 0 {
		return ""
	}
	runes := []rune(c.Symbols[0])
	if len(runes) != 1 || unicode.IsLetter(runes[0]) {
		return ""
	}
	return c.Symbols[0]
}

// BankAccount is one of the user's accounts.
type BankAccount struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	IsDefault bool     `json:"is_default" yaml:"is_default"`
	Currency  Currency `json:"currency" yaml:"-"`
}

// Amount is a signed money value. Sign and rounding are only applied when displaying it.
type Amount struct {
	Value    float64  `json:"value"`
	Currency Currency `json:"currency"`
}

// IsNegative reports whether the amount is below zero once rounded to cents.
func (a Amount) IsNegative() bool {
	return a.rounded().IsNegative()
}

func (a Amount) rounded() decimal.Decimal {
	return decimal.NewFromFloat(a.Value).Round(2)
}

// String renders the amount as "$23.50" or "23.50 AED".
func (a Amount) String() string {
	d := a.rounded()
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if sym := a.Currency.prefixSymbol(); sym != "" {
		return sign + sym + d.StringFixed(2)
	}
	return sign + d.StringFixed(2) + " " + a.Currency.ID
}

// Transaction is a past money movement reported by the operation delegate.
type Transaction struct {
	Amount      Amount      `json:"amount"`
	Contact     Contact     `json:"contact"`
	BankAccount BankAccount `json:"bank_account"`
	Date        time.Time   `json:"date"`
}

// AppContext is the read-only snapshot of the user's data for one conversation.
// It is never mutated after creation and may be shared between conversations.
type AppContext struct {
	Contacts     []Contact     `json:"contacts"`
	BankAccounts []BankAccount `json:"bank_accounts"`
}

// NewAppContext copies the given slices so later changes by the caller are not observed.
func NewAppContext(contacts []Contact, accounts []BankAccount) *AppContext {
	return &AppContext{
		Contacts:     append([]Contact(nil), contacts...),
		BankAccounts: append([]BankAccount(nil), accounts...),
	}
}

// Currencies lists the distinct currencies of the user's accounts, in account order.
func (c *AppContext) Currencies() []Currency {
	seen := make(map[string]bool)
	var out []Currency
	for _, acc := range c.BankAccounts {
		if seen[acc.Currency.ID] {
			continue
		}
		seen[acc.Currency.ID] = true
		out = append(out, acc.Currency)
	}
	return out
}

// Contact looks a contact up by id.
func (c *AppContext) Contact(id string) (Contact, bool) {
	for _, contact := range c.Contacts {
		if contact.ID == id {
			return contact, true
		}
	}
	return Contact{}, false
}

// BankAccount looks an account up by id.
func (c *AppContext) BankAccount(id string) (BankAccount, bool) {
	for _, acc := range c.BankAccounts {
		if acc.ID == id {
			return acc, true
		}
	}
	return BankAccount{}, false
}

// ----------------------------------------------------
// ================ Currencies ================

var (
	USD = Currency{ID: "USD", Symbols: []string{"$", "US$"}, Literals: []string{"dollar", "dollars", "usd", "bucks"}}
	EUR = Currency{ID: "EUR", Symbols: []string{"€"}, Literals: []string{"euro", "euros", "eur"}}
	GBP = Currency{ID: "GBP", Symbols: []string{"£"}, Literals: []string{"pound", "pounds", "gbp", "quid"}}
	AED = Currency{ID: "AED", Symbols: []string{"AED", "د.إ"}, Literals: []string{"dirham", "dirhams"}}
)

// DefaultCurrencies is the catalog used when none is configured.
func DefaultCurrencies() []Currency {
	return []Currency{USD, EUR, GBP, AED}
}

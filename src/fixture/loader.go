// Package fixture loads the user's bank snapshot (address book, accounts, balances and past
// transactions) from YAML.
package fixture

import (
	"banking_assistant/src/model"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// YAMLFixture represents the structure of the bank fixture file
type YAMLFixture struct {
	Currencies   []model.Currency `yaml:"currencies"`
	Contacts     []model.Contact  `yaml:"contacts"`
	Accounts     []yamlAccount    `yaml:"accounts"`
	Transactions []yamlTransfer   `yaml:"transactions"`
}

type yamlAccount struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	IsDefault bool   `yaml:"is_default"`
	Currency  string `yaml:"currency"`
	Balance   string `yaml:"balance"`
}

type yamlTransfer struct {
	Account string    `yaml:"account"`
	Contact string    `yaml:"contact"`
	Amount  string    `yaml:"amount"`
	Date    time.Time `yaml:"date"`
}

// Snapshot is the loaded fixture: the AppContext handed to the tracker plus the ledger seed.
type Snapshot struct {
	App          *model.AppContext
	Balances     map[string]decimal.Decimal
	Transactions []model.Transaction
}

// Load reads and validates the fixture at path
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading fixture file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture. Account currencies are resolved against the built-in catalog
// extended by the fixture's own currencies section.
func Parse(data []byte) (*Snapshot, error) {
	var raw YAMLFixture
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}

	catalog := make(map[string]model.Currency)
	for _, c := range append(model.DefaultCurrencies(), raw.Currencies...) {
		catalog[c.ID] = c
	}

	contacts := make(map[string]model.Contact, len(raw.Contacts))
	for _, c := range raw.Contacts {
		if c.ID == "" {
			return nil, fmt.Errorf("contact %q has no id", c.FullName())
		}
		if _, dup := contacts[c.ID]; dup {
			return nil, fmt.Errorf("duplicate contact id %s", c.ID)
		}
		contacts[c.ID] = c
	}

	snapshot := &Snapshot{Balances: make(map[string]decimal.Decimal, len(raw.Accounts))}
	accounts := make([]model.BankAccount, 0, len(raw.Accounts))
	byID := make(map[string]model.BankAccount, len(raw.Accounts))
	defaults := 0

	for _, a := range raw.Accounts {
		if a.ID == "" {
			return nil, fmt.Errorf("account %q has no id", a.Name)
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate account id %s", a.ID)
		}
		currency, ok := catalog[a.Currency]
		if !ok {
			return nil, fmt.Errorf("account %s: unknown currency %q", a.ID, a.Currency)
		}
		balance, err := parseDecimal(a.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %s: invalid balance: %w", a.ID, err)
		}
		if a.IsDefault {
			defaults++
		}

		account := model.BankAccount{ID: a.ID, Name: a.Name, IsDefault: a.IsDefault, Currency: currency}
		accounts = append(accounts, account)
		byID[a.ID] = account
		snapshot.Balances[a.ID] = balance
	}
	if defaults > 1 {
		return nil, fmt.Errorf("%d accounts are marked as default, at most one is allowed", defaults)
	}

	for i, t := range raw.Transactions {
		account, ok := byID[t.Account]
		if !ok {
			return nil, fmt.Errorf("transaction %d: unknown account %q", i, t.Account)
		}
		contact, ok := contacts[t.Contact]
		if !ok {
			return nil, fmt.Errorf("transaction %d: unknown contact %q", i, t.Contact)
		}
		value, err := parseDecimal(t.Amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: invalid amount: %w", i, err)
		}
		snapshot.Transactions = append(snapshot.Transactions, model.Transaction{
			Amount:      model.Amount{Value: value.InexactFloat64(), Currency: account.Currency},
			Contact:     contact,
			BankAccount: account,
			Date:        t.Date,
		})
	}

	snapshot.App = model.NewAppContext(raw.Contacts, accounts)
	return snapshot, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

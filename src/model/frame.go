package model

import "fmt"

// Placeholders filled by the operation delegate once the operation ran.
const (
	PlaceholderAmount       = "{amount}"
	PlaceholderTransactions = "{transactions}"
	PlaceholderError        = "{error}"
)

// UserIntentFrame is a fully resolved operation request. The set of variants is closed.
type UserIntentFrame interface {
	Intent() IntentType
	// Description is spoken while the operation runs.
	Description() string
	SuccessTemplate() string
	FailureTemplate() string
	isFrame()
}

// CheckBalanceFrame asks for the balance of one account, of every account in a
// currency, or of everything when both fields are nil.
type CheckBalanceFrame struct {
	BankAccount *BankAccount `json:"bank_account,omitempty"`
	Currency    *Currency    `json:"currency,omitempty"`
}

func (CheckBalanceFrame) Intent() IntentType { return IntentCheckBalance }
func (CheckBalanceFrame) isFrame()           {}

func (f CheckBalanceFrame) Description() string {
	switch {
	case f.BankAccount != nil:
		return fmt.Sprintf("Checking the balance of %s.", f.BankAccount.Name)
	case f.Currency != nil:
		return fmt.Sprintf("Checking your balance in %s.", f.Currency.ID)
	}
	return "Checking your balance."
}

func (f CheckBalanceFrame) SuccessTemplate() string {
	switch {
	case f.BankAccount != nil:
		return fmt.Sprintf("Your balance on %s is %s.", f.BankAccount.Name, PlaceholderAmount)
	case f.Currency != nil:
		return fmt.Sprintf("Your total balance in %s is %s.", f.Currency.ID, PlaceholderAmount)
	}
	return fmt.Sprintf("Your total balance is %s.", PlaceholderAmount)
}

func (CheckBalanceFrame) FailureTemplate() string {
	return "Sorry, I couldn't retrieve your balance: " + PlaceholderError
}

// CheckAccountTransactionsFrame lists the transactions of one account, or of all of them.
type CheckAccountTransactionsFrame struct {
	BankAccount *BankAccount `json:"bank_account,omitempty"`
}

func (CheckAccountTransactionsFrame) Intent() IntentType { return IntentCheckTransactions }
func (CheckAccountTransactionsFrame) isFrame()           {}

func (f CheckAccountTransactionsFrame) Description() string {
	if f.BankAccount != nil {
		return fmt.Sprintf("Looking up the transactions of %s.", f.BankAccount.Name)
	}
	return "Looking up your transactions."
}

func (f CheckAccountTransactionsFrame) SuccessTemplate() string {
	if f.BankAccount != nil {
		return fmt.Sprintf("Here are the transactions of %s:\n%s", f.BankAccount.Name, PlaceholderTransactions)
	}
	return "Here are your transactions:\n" + PlaceholderTransactions
}

func (CheckAccountTransactionsFrame) FailureTemplate() string {
	return "Sorry, I couldn't retrieve your transactions: " + PlaceholderError
}

// CheckContactTransactionsFrame lists the transactions dealing with one contact,
// optionally restricted to one account.
type CheckContactTransactionsFrame struct {
	Contact     Contact      `json:"contact"`
	BankAccount *BankAccount `json:"bank_account,omitempty"`
}

func (CheckContactTransactionsFrame) Intent() IntentType { return IntentCheckTransactions }
func (CheckContactTransactionsFrame) isFrame()           {}

func (f CheckContactTransactionsFrame) Description() string {
	if f.BankAccount != nil {
		return fmt.Sprintf("Looking up your transactions with %s on %s.", f.Contact.FullName(), f.BankAccount.Name)
	}
	return fmt.Sprintf("Looking up your transactions with %s.", f.Contact.FullName())
}

func (f CheckContactTransactionsFrame) SuccessTemplate() string {
	return fmt.Sprintf("Here are your transactions with %s:\n%s", f.Contact.FullName(), PlaceholderTransactions)
}

func (CheckContactTransactionsFrame) FailureTemplate() string {
	return "Sorry, I couldn't retrieve your transactions: " + PlaceholderError
}

// SendMoneyFrame moves Amount from Source to Recipient.
type SendMoneyFrame struct {
	Amount    Amount      `json:"amount"`
	Recipient Contact     `json:"recipient"`
	Source    BankAccount `json:"source"`
}

func (SendMoneyFrame) Intent() IntentType { return IntentSendMoney }
func (SendMoneyFrame) isFrame()           {}

func (f SendMoneyFrame) Description() string {
	return fmt.Sprintf("Sending %s to %s from %s.", f.Amount, f.Recipient.FullName(), f.Source.Name)
}

func (f SendMoneyFrame) SuccessTemplate() string {
	return fmt.Sprintf("Done! I sent %s to %s. Your balance on %s is now %s.",
		f.Amount, f.Recipient.FullName(), f.Source.Name, PlaceholderAmount)
}

func (SendMoneyFrame) FailureTemplate() string {
	return "Sorry, I couldn't send the money: " + PlaceholderError
}

// RequestMoneyFrame asks Sender to pay Amount into Destination.
type RequestMoneyFrame struct {
	Amount      Amount      `json:"amount"`
	Sender      Contact     `json:"sender"`
	Destination BankAccount `json:"destination"`
}

func (RequestMoneyFrame) Intent() IntentType { return IntentRequestMoney }
func (RequestMoneyFrame) isFrame()           {}

func (f RequestMoneyFrame) Description() string {
	return fmt.Sprintf("Requesting %s from %s into %s.", f.Amount, f.Sender.FullName(), f.Destination.Name)
}

func (f RequestMoneyFrame) SuccessTemplate() string {
	return fmt.Sprintf("Done! I asked %s to send you %s on %s.", f.Sender.FullName(), f.Amount, f.Destination.Name)
}

func (RequestMoneyFrame) FailureTemplate() string {
	return "Sorry, I couldn't request the money: " + PlaceholderError
}

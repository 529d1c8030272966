// Package operation executes the banking operations the dialogue resolves, against an
// in-memory ledger seeded from the bank fixture.
package operation

import (
	"banking_assistant/src/logger"
	"banking_assistant/src/metrics"
	"banking_assistant/src/model"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnknownAccount    = errors.New("unknown bank account")
	ErrCurrencyMismatch  = errors.New("amount currency does not match the account")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrUnsupportedFrame  = errors.New("unsupported operation")
)

// Result carries the values the success template refers to.
type Result struct {
	// Amounts fills {amount}; a total over several currencies has one entry per currency.
	Amounts      []model.Amount
	Transactions []model.Transaction
}

// Delegate runs a resolved frame. Its outcome is only shown to the user.
type Delegate interface {
	Perform(ctx context.Context, frame model.UserIntentFrame) (Result, error)
}

// MoneyRequest is a pending request sent to a contact.
type MoneyRequest struct {
	Amount      model.Amount
	Sender      model.Contact
	Destination model.BankAccount
	Date        time.Time
}

// LedgerDelegate keeps balances and history in memory. It is safe for concurrent use.
type LedgerDelegate struct {
	mu           sync.Mutex
	accounts     []model.BankAccount
	balances     map[string]decimal.Decimal
	transactions []model.Transaction
	requests     []MoneyRequest
	now          func() time.Time
}

func NewLedgerDelegate(accounts []model.BankAccount, balances map[string]decimal.Decimal, transactions []model.Transaction) *LedgerDelegate {
	l := &LedgerDelegate{
		accounts:     append([]model.BankAccount(nil), accounts...),
		balances:     make(map[string]decimal.Decimal, len(accounts)),
		transactions: append([]model.Transaction(nil), transactions...),
		now:          time.Now,
	}
	for _, acc := range accounts {
		l.balances[acc.ID] = balances[acc.ID]
	}
	return l
}

// Perform dispatches on the frame variant and counts the outcome.
func (l *LedgerDelegate) Perform(ctx context.Context, frame model.UserIntentFrame) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		result Result
		err    error
	)
	switch f := frame.(type) {
	case model.CheckBalanceFrame:
		result, err = l.balance(f)
	case model.CheckAccountTransactionsFrame:
		result, err = l.history(f.BankAccount, nil)
	case model.CheckContactTransactionsFrame:
		result, err = l.history(f.BankAccount, &f.Contact)
	case model.SendMoneyFrame:
		result, err = l.send(f)
	case model.RequestMoneyFrame:
		result, err = l.request(f)
	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedFrame, frame)
	}

	log := logger.FromContext(ctx)
	intent := "unknown"
	if frame != nil {
		intent = string(frame.Intent())
	}
	if err != nil {
		metrics.OperationsTotal.WithLabelValues(intent, "error").Inc()
		log.Warn().Err(err).Str("intent", intent).Msg("Operation failed")
		return Result{}, err
	}
	metrics.OperationsTotal.WithLabelValues(intent, "ok").Inc()
	log.Info().Str("intent", intent).Msg("Operation performed")
	return result, nil
}

func (l *LedgerDelegate) balance(f model.CheckBalanceFrame) (Result, error) {
	if f.BankAccount != nil {
		b, ok := l.balances[f.BankAccount.ID]
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownAccount, f.BankAccount.Name)
		}
		return Result{Amounts: []model.Amount{toAmount(b, f.BankAccount.Currency)}}, nil
	}

	totals := make(map[string]decimal.Decimal)
	var currencies []model.Currency
	for _, acc := range l.accounts {
		if f.Currency != nil && !acc.Currency.Same(*f.Currency) {
			continue
		}
		if _, seen := totals[acc.Currency.ID]; !seen {
			currencies = append(currencies, acc.Currency)
		}
		totals[acc.Currency.ID] = totals[acc.Currency.ID].Add(l.balances[acc.ID])
	}

	if f.Currency != nil && len(currencies) == 0 {
		return Result{Amounts: []model.Amount{toAmount(decimal.Zero, *f.Currency)}}, nil
	}

	result := Result{}
	for _, c := range currencies {
		result.Amounts = append(result.Amounts, toAmount(totals[c.ID], c))
	}
	return result, nil
}

// history lists matching transactions, most recent first.
func (l *LedgerDelegate) history(account *model.BankAccount, contact *model.Contact) (Result, error) {
	if account != nil {
		if _, ok := l.balances[account.ID]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrUnknownAccount, account.Name)
		}
	}

	var out []model.Transaction
	for _, t := range l.transactions {
		if account != nil && t.BankAccount.ID != account.ID {
			continue
		}
		if contact != nil && t.Contact.ID != contact.ID {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return Result{Transactions: out}, nil
}

func (l *LedgerDelegate) send(f model.SendMoneyFrame) (Result, error) {
	balance, ok := l.balances[f.Source.ID]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAccount, f.Source.Name)
	}
	value, err := checkAmount(f.Amount, f.Source)
	if err != nil {
		return Result{}, err
	}
	if balance.LessThan(value) {
		return Result{}, fmt.Errorf("%w on %s", ErrInsufficientFunds, f.Source.Name)
	}

	balance = balance.Sub(value)
	l.balances[f.Source.ID] = balance
	l.transactions = append(l.transactions, model.Transaction{
		Amount:      toAmount(value.Neg(), f.Source.Currency),
		Contact:     f.Recipient,
		BankAccount: f.Source,
		Date:        l.now(),
	})
	return Result{Amounts: []model.Amount{toAmount(balance, f.Source.Currency)}}, nil
}

func (l *LedgerDelegate) request(f model.RequestMoneyFrame) (Result, error) {
	if _, ok := l.balances[f.Destination.ID]; !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownAccount, f.Destination.Name)
	}
	if _, err := checkAmount(f.Amount, f.Destination); err != nil {
		return Result{}, err
	}

	l.requests = append(l.requests, MoneyRequest{
		Amount:      f.Amount,
		Sender:      f.Sender,
		Destination: f.Destination,
		Date:        l.now(),
	})
	return Result{Amounts: []model.Amount{f.Amount}}, nil
}

// Requests returns the pending money requests in the order they were made.
func (l *LedgerDelegate) Requests() []MoneyRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]MoneyRequest(nil), l.requests...)
}

func checkAmount(amount model.Amount, account model.BankAccount) (decimal.Decimal, error) {
	if !amount.Currency.Same(account.Currency) {
		return decimal.Zero, fmt.Errorf("%w: %s is in %s", ErrCurrencyMismatch, account.Name, account.Currency.ID)
	}
	value := decimal.NewFromFloat(amount.Value).Round(2)
	if !value.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return value, nil
}

func toAmount(d decimal.Decimal, c model.Currency) model.Amount {
	return model.Amount{Value: d.InexactFloat64(), Currency: c}
}

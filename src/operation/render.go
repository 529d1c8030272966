package operation

import (
	"banking_assistant/src/model"
	"fmt"
	"strings"
)

const noTransactionsText = "No transactions found."

// Render turns the outcome of a performInAppOperation response into the text shown to the
// user, filling the placeholders of its success or failure template.
func Render(response model.DialogueResponse, result Result, err error) string {
	if err != nil {
		return strings.ReplaceAll(response.FailureMessage, model.PlaceholderError, err.Error())
	}

	return strings.NewReplacer(
		model.PlaceholderAmount, formatAmounts(result.Amounts),
		model.PlaceholderTransactions, formatTransactions(result.Transactions),
	).Replace(response.SuccessMessage)
}

func formatAmounts(amounts []model.Amount) string {
	parts := make([]string, len(amounts))
	for i, a := range amounts {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

func formatTransactions(transactions []model.Transaction) string {
	if len(transactions) == 0 {
		return noTransactionsText
	}
	lines := make([]string, len(transactions))
	for i, t := range transactions {
		direction := "from"
		if t.Amount.IsNegative() {
			direction = "to"
		}
		lines[i] = fmt.Sprintf("- %s  %s %s %s (%s)",
			t.Date.Format("2006-01-02"), t.Amount, direction, t.Contact.FullName(), t.BankAccount.Name)
	}
	return strings.Join(lines, "\n")
}

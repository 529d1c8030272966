package dst

import (
	"banking_assistant/src/model"
	"fmt"
	"strings"
)

const (
	greetingText     = "Hi! I can check your balance, show your transactions, send money or request money. How can I help you?"
	anythingElseText = "Is there anything else I can do for you?"
	cantHelpText     = "Sorry, I can't help with that. I can check your balance, show your transactions, send money or request money."
	didntCatchText   = "Sorry, I didn't catch that."
	cancelledText    = "Okay, I cancelled it."
	notAnOptionText  = "That isn't one of the options."
	yesOrNoText      = "Please answer yes or no."
	notSureText      = "Sorry, I'm not sure I understood."
	finishFirstText  = "Let's finish this first."
	extractorText    = "Sorry, something went wrong while I was listening."
)

func slotNoun(t model.EntityType) string {
	switch t {
	case model.EntityAmount:
		return "amount"
	case model.EntityUser:
		return "contact"
	case model.EntityBank:
		return "bank account"
	case model.EntityCurrency:
		return "currency"
	}
	return string(t)
}

// overspecifiedText reads "Please specify just one contact." or, for several slots,
// "Please specify just one amount, one contact and one bank account."
func overspecifiedText(types []model.EntityType) string {
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, "one "+slotNoun(t))
	}
	return "Please specify just " + joinAnd(parts) + "."
}

func joinAnd(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

func question(intent model.IntentType, slot model.EntityType) string {
	switch slot {
	case model.EntityAmount:
		if intent == model.IntentRequestMoney {
			return "How much do you want to request?"
		}
		return "How much do you want to send?"
	case model.EntityUser:
		switch intent {
		case model.IntentRequestMoney:
			return "Who do you want to request money from?"
		case model.IntentCheckTransactions:
			return "Which contact are you interested in?"
		}
		return "Who do you want to send money to?"
	case model.EntityBank:
		switch intent {
		case model.IntentSendMoney:
			return "Which bank account do you want to send from?"
		case model.IntentRequestMoney:
			return "Which bank account should receive the money?"
		}
		return "Which bank account are you interested in?"
	case model.EntityCurrency:
		return "Which currency are you interested in?"
	}
	return "Could you tell me more?"
}

func notFoundText(slot model.EntityType, raw string) string {
	switch slot {
	case model.EntityAmount:
		return fmt.Sprintf("Sorry, I couldn't understand the amount %q.", raw)
	case model.EntityUser:
		return fmt.Sprintf("Sorry, I couldn't find a contact matching %q.", raw)
	case model.EntityBank:
		return fmt.Sprintf("Sorry, I couldn't find a bank account matching %q.", raw)
	case model.EntityCurrency:
		return fmt.Sprintf("Sorry, I don't know the currency %q.", raw)
	}
	return fmt.Sprintf("Sorry, I couldn't understand %q.", raw)
}

func chooseText(slot model.EntityType, raw string) string {
	return fmt.Sprintf("I found several %ss matching %q. Which one do you mean?", slotNoun(slot), raw)
}

func mismatchText(amount model.Amount, account model.BankAccount) string {
	return fmt.Sprintf("%s is in %s, but %s holds %s.", amount, amount.Currency.ID, account.Name, account.Currency.ID)
}

// describe phrases the operation with whatever values are known, e.g.
// "send $50.00 to Antonio Rossi from Top Bank".
func describe(intent model.IntentType, values map[model.EntityType]string) string {
	var b strings.Builder
	add := func(prefix string, t model.EntityType) {
		if v := values[t]; v != "" {
			b.WriteString(prefix + v)
		}
	}

	switch intent {
	case model.IntentCheckBalance:
		b.WriteString("check the balance")
		add(" of ", model.EntityBank)
		add(" in ", model.EntityCurrency)
	case model.IntentCheckTransactions:
		b.WriteString("see the transactions")
		add(" of ", model.EntityBank)
		add(" with ", model.EntityUser)
	case model.IntentSendMoney, model.IntentRequestMoney:
		verb, counterpart, account := "send", " to ", " from "
		if intent == model.IntentRequestMoney {
			verb, counterpart, account = "request", " from ", " into "
		}
		b.WriteString(verb)
		if values[model.EntityAmount] == "" {
			b.WriteString(" money")
		}
		add(" ", model.EntityAmount)
		add(counterpart, model.EntityUser)
		add(account, model.EntityBank)
	default:
		b.WriteString("do that")
	}
	return b.String()
}

func unsureText(intent model.IntentType, values map[model.EntityType]string) string {
	return fmt.Sprintf("Did I get it right that you want to %s?", describe(intent, values))
}

func confirmText(intent model.IntentType, known Slots) string {
	return fmt.Sprintf("Do you confirm that you want to %s?", describe(intent, displayValues(known)))
}

func displayValues(known Slots) map[model.EntityType]string {
	values := make(map[model.EntityType]string)
	for _, t := range []model.EntityType{model.EntityAmount, model.EntityUser, model.EntityBank, model.EntityCurrency} {
		if v := known.display(t); v != "" {
			values[t] = v
		}
	}
	return values
}

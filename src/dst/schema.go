package dst

import "banking_assistant/src/model"

// schema lists the slots of an intent in resolution priority order.
type schema struct {
	slots []model.EntityType
	// mandatory intents need every slot bound and an explicit confirmation before running.
	mandatory bool
}

var schemas = map[model.IntentType]schema{
	model.IntentCheckBalance: {
		slots: []model.EntityType{model.EntityBank, model.EntityCurrency},
	},
	model.IntentCheckTransactions: {
		slots: []model.EntityType{model.EntityBank, model.EntityUser},
	},
	model.IntentSendMoney: {
		slots:     []model.EntityType{model.EntityAmount, model.EntityUser, model.EntityBank},
		mandatory: true,
	},
	model.IntentRequestMoney: {
		slots:     []model.EntityType{model.EntityAmount, model.EntityUser, model.EntityBank},
		mandatory: true,
	},
}

func (s schema) includes(t model.EntityType) bool {
	for _, slot := range s.slots {
		if slot == t {
			return true
		}
	}
	return false
}

// missing returns the first unbound slot.
func (s schema) missing(known Slots) (model.EntityType, bool) {
	for _, slot := range s.slots {
		if !known.has(slot) {
			return slot, true
		}
	}
	return "", false
}

// frame builds the operation request from the bound slots. Mandatory intents must have
// every slot bound.
func frame(intent model.IntentType, known Slots) model.UserIntentFrame {
	switch intent {
	case model.IntentCheckBalance:
		return model.CheckBalanceFrame{BankAccount: known.BankAccount, Currency: known.Currency}
	case model.IntentCheckTransactions:
		if known.Contact != nil {
			return model.CheckContactTransactionsFrame{Contact: *known.Contact, BankAccount: known.BankAccount}
		}
		return model.CheckAccountTransactionsFrame{BankAccount: known.BankAccount}
	case model.IntentSendMoney:
		return model.SendMoneyFrame{Amount: *known.Amount, Recipient: *known.Contact, Source: *known.BankAccount}
	case model.IntentRequestMoney:
		return model.RequestMoneyFrame{Amount: *known.Amount, Sender: *known.Contact, Destination: *known.BankAccount}
	}
	return nil
}

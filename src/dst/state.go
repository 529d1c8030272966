package dst

import (
	"banking_assistant/src/model"
)

// Phase names the sub-phase a conversation is in.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseSure         Phase = "sure"
	PhaseUnsure       Phase = "unsure"
	PhaseWait         Phase = "wait"
	PhaseConfirmation Phase = "confirmation"
)

// State is where the conversation is. The variants are Idle, Sure, Unsure, Wait and
// Confirmation; a State is replaced on every transition and never modified.
type State interface {
	Phase() Phase
	// LastResponse is what the assistant said when entering the state. It is replayed
	// when the user has to be asked again.
	LastResponse() model.DialogueResponse
	isState()
}

// Slots holds the values already bound to domain objects for the current intent.
type Slots struct {
	Amount      *model.Amount      `json:"amount,omitempty"`
	Contact     *model.Contact     `json:"contact,omitempty"`
	BankAccount *model.BankAccount `json:"bank_account,omitempty"`
	Currency    *model.Currency    `json:"currency,omitempty"`
}

func (s Slots) has(t model.EntityType) bool {
	switch t {
	case model.EntityAmount:
		return s.Amount != nil
	case model.EntityUser:
		return s.Contact != nil
	case model.EntityBank:
		return s.BankAccount != nil
	case model.EntityCurrency:
		return s.Currency != nil
	}
	return false
}

func (s Slots) without(t model.EntityType) Slots {
	switch t {
	case model.EntityAmount:
		s.Amount = nil
	case model.EntityUser:
		s.Contact = nil
	case model.EntityBank:
		s.BankAccount = nil
	case model.EntityCurrency:
		s.Currency = nil
	}
	return s
}

// display renders a bound value the way it is spoken back to the user.
func (s Slots) display(t model.EntityType) string {
	switch {
	case t == model.EntityAmount && s.Amount != nil:
		return s.Amount.String()
	case t == model.EntityUser && s.Contact != nil:
		return s.Contact.FullName()
	case t == model.EntityBank && s.BankAccount != nil:
		return s.BankAccount.Name
	case t == model.EntityCurrency && s.Currency != nil:
		return s.Currency.ID
	}
	return ""
}

// Idle has no pending intent.
type Idle struct {
	Response model.DialogueResponse
}

// Sure holds confident slots and, when Pending is set, the candidates the user must choose from.
type Sure struct {
	Intent       model.IntentType
	Known        Slots
	Pending      model.EntityType
	Contacts     []model.Contact
	BankAccounts []model.BankAccount
	Response     model.DialogueResponse
}

// Unsure waits for a yes or no before the tentative values are resolved.
type Unsure struct {
	Intent    model.IntentType
	Previous  State
	Known     Slots
	Tentative map[model.EntityType]string
	Response  model.DialogueResponse
}

// Wait is blocked on one missing or unmatched slot.
type Wait struct {
	Intent   model.IntentType
	Slot     model.EntityType
	Known    Slots
	Response model.DialogueResponse
}

// Confirmation holds a fully resolved frame until the user says yes or no.
type Confirmation struct {
	Intent   model.IntentType
	Frame    model.UserIntentFrame
	Response model.DialogueResponse
}

func (Idle) Phase() Phase         { return PhaseIdle }
func (Sure) Phase() Phase         { return PhaseSure }
func (Unsure) Phase() Phase       { return PhaseUnsure }
func (Wait) Phase() Phase         { return PhaseWait }
func (Confirmation) Phase() Phase { return PhaseConfirmation }

func (s Idle) LastResponse() model.DialogueResponse         { return s.Response }
func (s Sure) LastResponse() model.DialogueResponse         { return s.Response }
func (s Unsure) LastResponse() model.DialogueResponse       { return s.Response }
func (s Wait) LastResponse() model.DialogueResponse         { return s.Response }
func (s Confirmation) LastResponse() model.DialogueResponse { return s.Response }

func (Idle) isState()         {}
func (Sure) isState()         {}
func (Unsure) isState()       {}
func (Wait) isState()         {}
func (Confirmation) isState() {}

package dst

import (
	"banking_assistant/src/model"
)

// Machine is the pure transition function of the conversation. It holds no conversation
// state and may be shared by several trackers using the same AppContext.
type Machine struct {
	app    *model.AppContext
	engine *engine
}

func NewMachine(app *model.AppContext, cfg Config) *Machine {
	return &Machine{app: app, engine: newEngine(app, cfg)}
}

// Initial is the state a new conversation starts in.
func (m *Machine) Initial() State {
	return Idle{Response: model.FollowUp(greetingText)}
}

// Step handles one recognized user turn.
func (m *Machine) Step(state State, p model.IntentPrediction) Outcome {
	switch s := state.(type) {
	case Idle:
		return m.stepIdle(s, p)
	case Sure:
		return m.stepPending(s, s.Intent, s.Known, p)
	case Wait:
		return m.stepPending(s, s.Intent, s.Known, p)
	case Unsure:
		return m.stepUnsure(s, p)
	case Confirmation:
		return m.stepConfirmation(s, p)
	}
	return Outcome{Response: model.AppError(cantHelpText)}
}

// ExtractorFailed is the outcome of a turn the extractor could not analyze.
func (m *Machine) ExtractorFailed(state State) Outcome {
	return Outcome{Response: model.AppError(extractorText + " " + state.LastResponse().Text)}
}

func (m *Machine) stepIdle(s Idle, p model.IntentPrediction) Outcome {
	if !p.Intent.IsTask() {
		return Outcome{Response: model.FollowUp(cantHelpText)}
	}
	return m.engine.resolve(turn{
		intent:      p.Intent,
		probability: p.Probability,
		entities:    p.Entities,
		current:     s,
		previous:    s,
	})
}

// stepPending handles Sure and Wait, which only differ in what they asked the user.
func (m *Machine) stepPending(s State, intent model.IntentType, known Slots, p model.IntentPrediction) Outcome {
	switch {
	case p.Intent.IsTask():
		if p.Intent != intent {
			known = Slots{}
		}
		return m.engine.resolve(turn{
			intent:      p.Intent,
			probability: p.Probability,
			entities:    p.Entities,
			known:       known,
			current:     s,
			previous:    s,
		})
	case p.Intent == model.IntentNone && len(p.Entities) > 0:
		return m.engine.resolve(turn{
			intent:      intent,
			probability: p.Probability,
			entities:    p.Entities,
			known:       known,
			current:     s,
			previous:    s,
		})
	case p.Intent == model.IntentNone:
		return Outcome{Response: s.LastResponse().Prefixed(didntCatchText)}
	case p.Intent == model.IntentNo && m.engine.confident(p.Probability):
		return cancel()
	}
	return Outcome{Response: s.LastResponse()}
}

func (m *Machine) stepUnsure(s Unsure, p model.IntentPrediction) Outcome {
	switch {
	case p.Intent == model.IntentYes || p.Intent == model.IntentNo:
		if !m.engine.confident(p.Probability) {
			return Outcome{Response: s.Response.Prefixed(notSureText)}
		}
		if p.Intent == model.IntentNo {
			return Outcome{Next: s.Previous, Response: s.Previous.LastResponse()}
		}
		return m.engine.bind(s.Intent, s.Known, s.Tentative)
	case p.Intent.IsTask():
		known := s.Known
		if p.Intent != s.Intent {
			known = Slots{}
		}
		return m.engine.resolve(turn{
			intent:      p.Intent,
			probability: p.Probability,
			entities:    p.Entities,
			known:       known,
			current:     s,
			previous:    s.Previous,
		})
	}
	return Outcome{Response: s.Response.Prefixed(yesOrNoText)}
}

func (m *Machine) stepConfirmation(s Confirmation, p model.IntentPrediction) Outcome {
	confident := m.engine.confident(p.Probability)
	switch {
	case p.Intent == model.IntentYes && confident:
		return Outcome{Next: idleAfterOperation(), Response: model.PerformOperation(s.Frame)}
	case p.Intent == model.IntentNo && confident:
		return cancel()
	case p.Intent == model.IntentYes || p.Intent == model.IntentNo:
		return Outcome{Response: s.Response.Prefixed(notSureText)}
	case p.Intent.IsTask():
		return Outcome{Response: s.Response.Prefixed(finishFirstText)}
	}
	return Outcome{Response: s.Response.Prefixed(yesOrNoText)}
}

func cancel() Outcome {
	resp := model.FollowUp(cancelledText + " " + anythingElseText)
	return Outcome{Next: Idle{Response: resp}, Response: resp}
}

// ----------------------------------------------------
// ================ Choices ================

// ChooseContact binds a contact picked from a disambiguation list. A Wait state for a
// contact also accepts any contact of the address book.
func (m *Machine) ChooseContact(state State, contact model.Contact) Outcome {
	switch s := state.(type) {
	case Sure:
		if c, ok := findContact(s.Contacts, contact.ID); ok && s.Pending == model.EntityUser {
			known := s.Known
			known.Contact = &c
			return m.engine.bind(s.Intent, known, nil)
		}
	case Wait:
		if c, ok := m.app.Contact(contact.ID); ok && s.Slot == model.EntityUser {
			known := s.Known
			known.Contact = &c
			return m.engine.bind(s.Intent, known, nil)
		}
	}
	return Outcome{Response: state.LastResponse().Prefixed(notAnOptionText)}
}

// ChooseBankAccount binds an account picked from a disambiguation list. A Wait state for
// an account also accepts any of the user's accounts.
func (m *Machine) ChooseBankAccount(state State, account model.BankAccount) Outcome {
	switch s := state.(type) {
	case Sure:
		if acc, ok := findAccount(s.BankAccounts, account.ID); ok && s.Pending == model.EntityBank {
			known := s.Known
			known.BankAccount = &acc
			return m.engine.bind(s.Intent, known, nil)
		}
	case Wait:
		if acc, ok := m.app.BankAccount(account.ID); ok && s.Slot == model.EntityBank {
			known := s.Known
			known.BankAccount = &acc
			return m.engine.bind(s.Intent, known, nil)
		}
	}
	return Outcome{Response: state.LastResponse().Prefixed(notAnOptionText)}
}

func findContact(contacts []model.Contact, id string) (model.Contact, bool) {
	for _, c := range contacts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contact{}, false
}

func findAccount(accounts []model.BankAccount, id string) (model.BankAccount, bool) {
	for _, a := range accounts {
		if a.ID == id {
			return a, true
		}
	}
	return model.BankAccount{}, false
}

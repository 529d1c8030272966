package dst

import (
	"banking_assistant/src/model"
	"banking_assistant/src/resolution"
)

// ----------------------------------------------------
// ================ Config ================

// Config holds the thresholds used by the tracker.
type Config struct {
	// ConfidenceThreshold is the probability at or above which an intent or entity is trusted.
	ConfidenceThreshold float32
	// SimilarityThreshold is the minimum similarity for contact, account and currency matching.
	SimilarityThreshold float64
	// Currencies the amount parser recognizes besides the currencies of the user's accounts.
	Currencies []model.Currency
}

func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.8,
		SimilarityThreshold: resolution.DefaultThreshold,
		Currencies:          model.DefaultCurrencies(),
	}
}

// ConfigFrom builds a Config from environment configuration, keeping the default catalog.
func ConfigFrom(c model.DSTConfig) Config {
	cfg := DefaultConfig()
	if c.ConfidenceThreshold > 0 {
		cfg.ConfidenceThreshold = c.ConfidenceThreshold
	}
	if c.SimilarityThreshold > 0 {
		cfg.SimilarityThreshold = c.SimilarityThreshold
	}
	return cfg
}

// Outcome is the result of one transition.
type Outcome struct {
	// Next is nil when the conversation stays in its current state.
	Next     State
	Response model.DialogueResponse
}

// ----------------------------------------------------
// ================ Slot resolution ================

type engine struct {
	app        *model.AppContext
	cfg        Config
	currencies []model.Currency
}

func newEngine(app *model.AppContext, cfg Config) *engine {
	return &engine{
		app:        app,
		cfg:        cfg,
		currencies: resolution.MergeCurrencies(app.Currencies(), cfg.Currencies),
	}
}

// turn is one resolution request.
type turn struct {
	intent      model.IntentType
	probability float32
	entities    []model.ExtractedEntity
	known       Slots
	// current is replayed when the turn is too uncertain to act on.
	current State
	// previous is restored when the user rejects a tentative reading.
	previous State
}

func (e *engine) confident(p float32) bool {
	return p >= e.cfg.ConfidenceThreshold
}

// resolve runs the overspecification check, the slot selection and the confidence gate,
// then binds the selected slots.
func (e *engine) resolve(t turn) Outcome {
	sc, ok := schemas[t.intent]
	if !ok {
		return Outcome{Response: t.current.LastResponse()}
	}
	intentSure := e.confident(t.probability)

	var over []model.EntityType
	for _, slot := range sc.slots {
		n := 0
		for _, ent := range t.entities {
			if ent.Type == slot && e.confident(ent.Probability) {
				n++
			}
		}
		if n > 1 {
			over = append(over, slot)
		}
	}
	if len(over) > 0 {
		text := overspecifiedText(over)
		if !intentSure {
			return Outcome{Response: t.current.LastResponse().Prefixed(text)}
		}
		return e.rebind(t, sc, over, text)
	}

	selected := make(map[model.EntityType]string)
	tentative := false
	for _, slot := range sc.slots {
		ent, found := e.pick(t.entities, slot)
		if !found {
			continue
		}
		selected[slot] = ent.RawText
		if !e.confident(ent.Probability) {
			tentative = true
		}
	}

	if !intentSure || tentative {
		values := displayValues(t.known)
		for slot, raw := range selected {
			values[slot] = raw
		}
		resp := model.FollowUp(unsureText(t.intent, values))
		return Outcome{
			Next: Unsure{
				Intent:    t.intent,
				Previous:  t.previous,
				Known:     t.known,
				Tentative: selected,
				Response:  resp,
			},
			Response: resp,
		}
	}

	return e.bind(t.intent, t.known, selected)
}

// pick returns the confident entity of the given type, or else the most probable one.
func (e *engine) pick(entities []model.ExtractedEntity, slot model.EntityType) (model.ExtractedEntity, bool) {
	var best model.ExtractedEntity
	found := false
	for _, ent := range entities {
		if ent.Type != slot || ent.RawText == "" {
			continue
		}
		if e.confident(ent.Probability) {
			return ent, true
		}
		if !found || ent.Probability > best.Probability {
			best, found = ent, true
		}
	}
	return best, found
}

// rebind drops the overspecified slots, binds the other confident entities of the turn and
// asks for the first slot still unbound.
func (e *engine) rebind(t turn, sc schema, over []model.EntityType, text string) Outcome {
	known := t.known
	skip := make(map[model.EntityType]bool, len(over))
	for _, slot := range over {
		known = known.without(slot)
		skip[slot] = true
	}

	selected := make(map[model.EntityType]string)
	for _, slot := range sc.slots {
		if skip[slot] {
			continue
		}
		if ent, found := e.pick(t.entities, slot); found && e.confident(ent.Probability) {
			selected[slot] = ent.RawText
		}
	}

	known, failure := e.bindSlots(t.intent, known, selected)
	if failure != nil {
		return e.failed(t.intent, known, failure, text)
	}
	slot, _ := sc.missing(known)
	return e.wait(t.intent, slot, known, text)
}

type slotFailure struct {
	slot     model.EntityType
	raw      string
	contacts []model.Contact
	accounts []model.BankAccount
}

// bind resolves every selected slot in priority order. The first slot that matches nothing
// or several objects decides the response; every unique match is kept.
func (e *engine) bind(intent model.IntentType, known Slots, selected map[model.EntityType]string) Outcome {
	known, failure := e.bindSlots(intent, known, selected)
	if failure == nil {
		return e.complete(intent, known)
	}
	return e.failed(intent, known, failure, "")
}

func (e *engine) bindSlots(intent model.IntentType, known Slots, selected map[model.EntityType]string) (Slots, *slotFailure) {
	sc := schemas[intent]
	var failure *slotFailure
	fail := func(f slotFailure) {
		if failure == nil {
			failure = &f
		}
	}

	for _, slot := range sc.slots {
		raw, ok := selected[slot]
		if !ok {
			continue
		}
		known = known.without(slot)

		switch slot {
		case model.EntityAmount:
			if amount := resolution.ParseAmount(raw, e.currencies); amount != nil {
				known.Amount = amount
			} else {
				fail(slotFailure{slot: slot, raw: raw})
			}
		case model.EntityUser:
			contacts := resolution.KeepAndOrderSimilar(e.app.Contacts, raw, e.cfg.SimilarityThreshold)
			switch len(contacts) {
			case 0:
				fail(slotFailure{slot: slot, raw: raw})
			case 1:
				known.Contact = &contacts[0]
			default:
				fail(slotFailure{slot: slot, raw: raw, contacts: contacts})
			}
		case model.EntityBank:
			accounts := resolution.MatchingBankAccounts(e.app.BankAccounts, raw, e.cfg.SimilarityThreshold)
			switch len(accounts) {
			case 0:
				fail(slotFailure{slot: slot, raw: raw})
			case 1:
				known.BankAccount = &accounts[0]
			default:
				fail(slotFailure{slot: slot, raw: raw, accounts: accounts})
			}
		case model.EntityCurrency:
			if currencies := resolution.MatchingCurrencies(e.currencies, raw, e.cfg.SimilarityThreshold); len(currencies) > 0 {
				known.Currency = &currencies[0]
			} else {
				fail(slotFailure{slot: slot, raw: raw})
			}
		}
	}

	return known, failure
}

// failed asks the user to pick among several matches or to restate an unmatched slot.
func (e *engine) failed(intent model.IntentType, known Slots, failure *slotFailure, prefix string) Outcome {
	switch {
	case len(failure.contacts) > 0:
		resp := model.ChooseContact(chooseText(failure.slot, failure.raw), failure.contacts).Prefixed(prefix)
		return Outcome{
			Next:     Sure{Intent: intent, Known: known, Pending: failure.slot, Contacts: failure.contacts, Response: resp},
			Response: resp,
		}
	case len(failure.accounts) > 0:
		resp := model.ChooseBankAccount(chooseText(failure.slot, failure.raw), failure.accounts).Prefixed(prefix)
		return Outcome{
			Next:     Sure{Intent: intent, Known: known, Pending: failure.slot, BankAccounts: failure.accounts, Response: resp},
			Response: resp,
		}
	}
	text := notFoundText(failure.slot, failure.raw)
	if prefix != "" {
		text = prefix + " " + text
	}
	return e.wait(intent, failure.slot, known, text)
}

// complete runs once every selected slot is bound.
func (e *engine) complete(intent model.IntentType, known Slots) Outcome {
	sc := schemas[intent]

	if sc.includes(model.EntityBank) && known.BankAccount == nil && known.Currency == nil && len(e.app.BankAccounts) == 1 {
		account := e.app.BankAccounts[0]
		known.BankAccount = &account
	}

	if sc.mandatory && known.Amount != nil && known.BankAccount != nil &&
		!known.Amount.Currency.Same(known.BankAccount.Currency) {
		text := mismatchText(*known.Amount, *known.BankAccount)
		known = known.without(model.EntityAmount).without(model.EntityBank)
		return e.wait(intent, model.EntityAmount, known, text)
	}

	if !sc.mandatory {
		return Outcome{Next: idleAfterOperation(), Response: model.PerformOperation(frame(intent, known))}
	}

	if slot, ok := sc.missing(known); ok {
		return e.wait(intent, slot, known, "")
	}

	resp := model.FollowUp(confirmText(intent, known))
	return Outcome{
		Next:     Confirmation{Intent: intent, Frame: frame(intent, known), Response: resp},
		Response: resp,
	}
}

func (e *engine) wait(intent model.IntentType, slot model.EntityType, known Slots, prefix string) Outcome {
	resp := model.FollowUp(question(intent, slot)).Prefixed(prefix)
	return Outcome{
		Next:     Wait{Intent: intent, Slot: slot, Known: known, Response: resp},
		Response: resp,
	}
}

// idleAfterOperation replays a follow-up question, never the operation itself.
func idleAfterOperation() Idle {
	return Idle{Response: model.FollowUp(anythingElseText)}
}

package dst

import (
	"banking_assistant/src/model"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	antonio     = model.Contact{ID: "c1", FirstName: "Antonio", LastName: "Rossi"}
	pier        = model.Contact{ID: "c2", FirstName: "Pier", LastName: "Bianchi"}
	maria       = model.Contact{ID: "c3", FirstName: "Maria", LastName: "Verdi"}
	giuliaConti = model.Contact{ID: "c4", FirstName: "Giulia", LastName: "Conti"}
	giuliaBruno = model.Contact{ID: "c5", FirstName: "Giulia", LastName: "Bruno"}

	topBank   = model.BankAccount{ID: "a1", Name: "Top Bank", IsDefault: true, Currency: model.USD}
	dubaiBank = model.BankAccount{ID: "a2", Name: "Dubai Savings", Currency: model.AED}
	cityBank  = model.BankAccount{ID: "a3", Name: "City Bank", Currency: model.EUR}
	cityBank2 = model.BankAccount{ID: "a4", Name: "City Bank 2", Currency: model.EUR}
)

func testApp() *model.AppContext {
	return model.NewAppContext(
		[]model.Contact{antonio, pier, maria, giuliaConti, giuliaBruno},
		[]model.BankAccount{topBank, dubaiBank, cityBank, cityBank2},
	)
}

func ent(t model.EntityType, raw string, p float32) model.ExtractedEntity {
	return model.ExtractedEntity{Type: t, RawText: raw, Probability: p}
}

func pred(intent model.IntentType, p float32, entities ...model.ExtractedEntity) model.IntentPrediction {
	return model.IntentPrediction{Intent: intent, Probability: p, Entities: entities}
}

type fakeRecognizer struct {
	prediction model.IntentPrediction
	err        error
	calls      []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, transcript string) (model.IntentPrediction, error) {
	f.calls = append(f.calls, transcript)
	return f.prediction, f.err
}

// ----------------------------------------------------
// ================ Scenarios ================

func TestSendMoneyEndToEnd(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.95,
		ent(model.EntityAmount, "$50", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
		ent(model.EntityBank, "Top Bank", 0.9),
	))

	assert.Equal(t, model.ResponseFollowUp, resp.Kind)
	assert.Equal(t, "Do you confirm that you want to send $50.00 to Antonio Rossi from Top Bank?", resp.Text)

	state, ok := tracker.State().(Confirmation)
	require.True(t, ok, "expected confirmation, got %s", tracker.State().Phase())
	want := model.SendMoneyFrame{
		Amount:    model.Amount{Value: 50, Currency: model.USD},
		Recipient: antonio,
		Source:    topBank,
	}
	assert.Equal(t, want, state.Frame)

	resp = tracker.SubmitPrediction(pred(model.IntentYes, 0.97))

	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
	assert.Equal(t, want, resp.Frame)
	assert.Equal(t, want.SuccessTemplate(), resp.SuccessMessage)
	assert.Equal(t, want.FailureTemplate(), resp.FailureMessage)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
	assert.Equal(t, model.ResponseFollowUp, tracker.State().LastResponse().Kind)
}

func TestConfidentTurnCompletesInOneStep(t *testing.T) {
	tests := []struct {
		name      string
		p         model.IntentPrediction
		wantPhase Phase
		wantKind  model.ResponseKind
		wantFrame model.UserIntentFrame
	}{
		{
			name:      "check balance",
			p:         pred(model.IntentCheckBalance, 0.9, ent(model.EntityBank, "Top Bank", 0.9)),
			wantPhase: PhaseIdle,
			wantKind:  model.ResponsePerformOperation,
			wantFrame: model.CheckBalanceFrame{BankAccount: &topBank},
		},
		{
			name:      "check balance by currency",
			p:         pred(model.IntentCheckBalance, 0.9, ent(model.EntityCurrency, "euros", 0.9)),
			wantPhase: PhaseIdle,
			wantKind:  model.ResponsePerformOperation,
			wantFrame: model.CheckBalanceFrame{Currency: &model.EUR},
		},
		{
			name: "check transactions with contact",
			p: pred(model.IntentCheckTransactions, 0.9,
				ent(model.EntityBank, "Top Bank", 0.9),
				ent(model.EntityUser, "Antonio", 0.9)),
			wantPhase: PhaseIdle,
			wantKind:  model.ResponsePerformOperation,
			wantFrame: model.CheckContactTransactionsFrame{Contact: antonio, BankAccount: &topBank},
		},
		{
			name:      "check transactions without slots",
			p:         pred(model.IntentCheckTransactions, 0.9),
			wantPhase: PhaseIdle,
			wantKind:  model.ResponsePerformOperation,
			wantFrame: model.CheckAccountTransactionsFrame{},
		},
		{
			name: "request money",
			p: pred(model.IntentRequestMoney, 0.9,
				ent(model.EntityAmount, "100 AED", 0.85),
				ent(model.EntityUser, "Pier", 0.9),
				ent(model.EntityBank, "Dubai Savings", 0.9)),
			wantPhase: PhaseConfirmation,
			wantKind:  model.ResponseFollowUp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := Start(testApp(), nil)
			resp := tracker.SubmitPrediction(tt.p)

			assert.Equal(t, tt.wantKind, resp.Kind)
			assert.Equal(t, tt.wantPhase, tracker.State().Phase())
			if tt.wantFrame != nil {
				assert.Equal(t, tt.wantFrame, resp.Frame)
			}
		})
	}
}

func TestLowIntentProbabilityNeverPerforms(t *testing.T) {
	tests := []model.IntentPrediction{
		pred(model.IntentCheckBalance, 0.5, ent(model.EntityBank, "Top Bank", 0.9)),
		pred(model.IntentCheckTransactions, 0.5, ent(model.EntityBank, "Top Bank", 0.9)),
		pred(model.IntentCheckTransactions, 0.79),
		pred(model.IntentSendMoney, 0.5,
			ent(model.EntityAmount, "$5", 0.9),
			ent(model.EntityUser, "Antonio", 0.9),
			ent(model.EntityBank, "Top Bank", 0.9)),
		pred(model.IntentRequestMoney, 0.3,
			ent(model.EntityAmount, "$5", 0.9),
			ent(model.EntityUser, "Antonio", 0.9),
			ent(model.EntityBank, "Top Bank", 0.9)),
	}

	for _, p := range tests {
		t.Run(string(p.Intent), func(t *testing.T) {
			tracker := Start(testApp(), nil)
			resp := tracker.SubmitPrediction(p)

			assert.NotEqual(t, model.ResponsePerformOperation, resp.Kind)
			assert.Equal(t, PhaseUnsure, tracker.State().Phase())
			assert.Contains(t, resp.Text, "Did I get it right")
		})
	}
}

func TestUnsureYesResolvesTentativeValues(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.6, ent(model.EntityBank, "Top Bank", 0.9)))
	assert.Equal(t, "Did I get it right that you want to check the balance of Top Bank?", resp.Text)

	resp = tracker.SubmitPrediction(pred(model.IntentYes, 0.9))
	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
	assert.Equal(t, model.CheckBalanceFrame{BankAccount: &topBank}, resp.Frame)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
}

func TestUnsureNoRestoresPreviousState(t *testing.T) {
	tracker := Start(testApp(), nil)

	tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.95, ent(model.EntityUser, "Antonio", 0.9)))
	previous, ok := tracker.State().(Wait)
	require.True(t, ok)
	assert.Equal(t, model.EntityAmount, previous.Slot)
	assert.Equal(t, "How much do you want to send?", previous.Response.Text)

	tracker.SubmitPrediction(pred(model.IntentNone, 0.9, ent(model.EntityAmount, "$20", 0.5)))
	unsure, ok := tracker.State().(Unsure)
	require.True(t, ok)
	assert.Equal(t, previous, unsure.Previous)
	assert.Equal(t, "$20", unsure.Tentative[model.EntityAmount])

	resp := tracker.SubmitPrediction(pred(model.IntentNo, 0.9))
	assert.Equal(t, previous.LastResponse(), resp)
	assert.Equal(t, previous, tracker.State())
}

func TestUnsureLowConfidenceAnswerIsAskedAgain(t *testing.T) {
	tracker := Start(testApp(), nil)
	tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.5))
	unsure := tracker.State()
	require.Equal(t, PhaseUnsure, unsure.Phase())

	resp := tracker.SubmitPrediction(pred(model.IntentYes, 0.4))
	assert.Contains(t, resp.Text, "not sure I understood")
	assert.Equal(t, unsure, tracker.State())

	resp = tracker.SubmitPrediction(pred(model.IntentNone, 0.9))
	assert.Contains(t, resp.Text, "Please answer yes or no.")
	assert.Equal(t, unsure, tracker.State())

	resp = tracker.SubmitPrediction(pred(model.IntentYes, 0.9))
	assert.Equal(t, "How much do you want to send?", resp.Text)
	assert.Equal(t, PhaseWait, tracker.State().Phase())
}

func TestOverspecifiedCheckBalance(t *testing.T) {
	banks := []model.ExtractedEntity{
		ent(model.EntityBank, "Top Bank", 0.9),
		ent(model.EntityBank, "Dubai Savings", 0.85),
	}

	t.Run("uncertain intent stays", func(t *testing.T) {
		tracker := Start(testApp(), nil)
		resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.5, banks...))

		assert.Contains(t, resp.Text, "bank account")
		assert.Contains(t, resp.Text, "Please specify just one bank account.")
		assert.Equal(t, PhaseIdle, tracker.State().Phase())
	})

	t.Run("confident intent waits for the slot", func(t *testing.T) {
		tracker := Start(testApp(), nil)
		resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.9, banks...))

		assert.Equal(t, "Please specify just one bank account. Which bank account are you interested in?", resp.Text)
		wait, ok := tracker.State().(Wait)
		require.True(t, ok)
		assert.Equal(t, model.EntityBank, wait.Slot)
	})
}

func TestOverspecifiedSeveralSlots(t *testing.T) {
	tracker := Start(testApp(), nil)
	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$5", 0.9),
		ent(model.EntityAmount, "$10", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
		ent(model.EntityUser, "Pier", 0.95),
		ent(model.EntityBank, "Top Bank", 0.9),
	))

	assert.Equal(t, "Please specify just one amount and one contact. How much do you want to send?", resp.Text)
	wait, ok := tracker.State().(Wait)
	require.True(t, ok)
	assert.Equal(t, model.EntityAmount, wait.Slot)
	assert.Equal(t, &topBank, wait.Known.BankAccount)
}

func TestOverspecifiedKeepsOtherSlots(t *testing.T) {
	tracker := Start(testApp(), nil)
	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$5", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
		ent(model.EntityUser, "Pier", 0.9),
		ent(model.EntityBank, "Top Bank", 0.9),
	))

	assert.Equal(t, "Please specify just one contact. Who do you want to send money to?", resp.Text)
	wait, ok := tracker.State().(Wait)
	require.True(t, ok)
	assert.Equal(t, model.EntityUser, wait.Slot)
	require.NotNil(t, wait.Known.Amount)
	assert.Equal(t, "$5.00", wait.Known.Amount.String())
	assert.Equal(t, &topBank, wait.Known.BankAccount)
	assert.Nil(t, wait.Known.Contact)

	tracker.SubmitPrediction(pred(model.IntentNone, 0.9, ent(model.EntityUser, "Antonio", 0.9)))
	confirmation, ok := tracker.State().(Confirmation)
	require.True(t, ok)
	assert.Equal(t, model.SendMoneyFrame{
		Amount:    model.Amount{Value: 5, Currency: model.USD},
		Recipient: antonio,
		Source:    topBank,
	}, confirmation.Frame)
}

func TestOverspecifiedWithAmbiguousContact(t *testing.T) {
	tracker := Start(testApp(), nil)
	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$5", 0.9),
		ent(model.EntityAmount, "$10", 0.9),
		ent(model.EntityUser, "Giulia", 0.9),
		ent(model.EntityBank, "Top Bank", 0.9),
	))

	assert.Equal(t, model.ResponseChooseContact, resp.Kind)
	assert.True(t, strings.HasPrefix(resp.Text, "Please specify just one amount. "))
	sure, ok := tracker.State().(Sure)
	require.True(t, ok)
	assert.Equal(t, []model.Contact{giuliaConti, giuliaBruno}, sure.Contacts)
	assert.Nil(t, sure.Known.Amount)
	assert.Equal(t, &topBank, sure.Known.BankAccount)
}

func TestCurrencyCoherence(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$20", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
		ent(model.EntityBank, "Dubai Savings", 0.9),
	))

	assert.Contains(t, resp.Text, "Dubai Savings holds AED")
	wait, ok := tracker.State().(Wait)
	require.True(t, ok)
	assert.Equal(t, model.EntityAmount, wait.Slot)
	assert.Nil(t, wait.Known.BankAccount)
	assert.Nil(t, wait.Known.Amount)
	require.NotNil(t, wait.Known.Contact)
	assert.Equal(t, antonio, *wait.Known.Contact)

	resp = tracker.SubmitPrediction(pred(model.IntentNone, 0.9, ent(model.EntityAmount, "100 AED", 0.9)))
	assert.Equal(t, "Which bank account do you want to send from?", resp.Text)

	tracker.SubmitPrediction(pred(model.IntentNone, 0.9, ent(model.EntityBank, "Dubai Savings", 0.9)))
	state, ok := tracker.State().(Confirmation)
	require.True(t, ok)
	assert.Equal(t, model.SendMoneyFrame{
		Amount:    model.Amount{Value: 100, Currency: model.AED},
		Recipient: antonio,
		Source:    dubaiBank,
	}, state.Frame)
}

func TestContactDisambiguation(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$10", 0.9),
		ent(model.EntityUser, "Giulia", 0.9),
	))
	assert.Equal(t, model.ResponseChooseContact, resp.Kind)
	assert.Equal(t, []model.Contact{giuliaConti, giuliaBruno}, resp.Contacts)

	sure, ok := tracker.State().(Sure)
	require.True(t, ok)
	assert.Equal(t, model.EntityUser, sure.Pending)
	require.NotNil(t, sure.Known.Amount)

	resp = tracker.SelectContact(antonio)
	assert.Contains(t, resp.Text, "isn't one of the options")
	assert.Equal(t, sure, tracker.State())

	resp = tracker.SelectContact(giuliaBruno)
	assert.Equal(t, "Which bank account do you want to send from?", resp.Text)
	require.Equal(t, PhaseWait, tracker.State().Phase())

	tracker.SelectBankAccount(topBank)
	state, ok := tracker.State().(Confirmation)
	require.True(t, ok)
	assert.Equal(t, model.SendMoneyFrame{
		Amount:    model.Amount{Value: 10, Currency: model.USD},
		Recipient: giuliaBruno,
		Source:    topBank,
	}, state.Frame)
}

func TestBankAccountDisambiguation(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.9, ent(model.EntityBank, "City Bank", 0.9)))
	assert.Equal(t, model.ResponseChooseBankAccount, resp.Kind)
	assert.Equal(t, []model.BankAccount{cityBank, cityBank2}, resp.BankAccounts)

	resp = tracker.SelectBankAccount(cityBank2)
	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
	assert.Equal(t, model.CheckBalanceFrame{BankAccount: &cityBank2}, resp.Frame)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
}

func TestDefaultAccountShortcut(t *testing.T) {
	app := model.NewAppContext([]model.Contact{antonio, pier}, []model.BankAccount{topBank})
	tracker := Start(app, nil)

	tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$5", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
	))

	state, ok := tracker.State().(Confirmation)
	require.True(t, ok)
	assert.Equal(t, topBank, state.Frame.(model.SendMoneyFrame).Source)
}

func TestUnmatchedSlotIsAskedAgain(t *testing.T) {
	tracker := Start(testApp(), nil)

	resp := tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$5", 0.9),
		ent(model.EntityUser, "Zzz", 0.9),
	))
	assert.Equal(t, `Sorry, I couldn't find a contact matching "Zzz". Who do you want to send money to?`, resp.Text)

	wait, ok := tracker.State().(Wait)
	require.True(t, ok)
	assert.Equal(t, model.EntityUser, wait.Slot)
	require.NotNil(t, wait.Known.Amount)
	assert.Nil(t, wait.Known.Contact)

	resp = tracker.SubmitPrediction(pred(model.IntentNone, 0.9, ent(model.EntityAmount, "a lot", 0.9)))
	assert.Contains(t, resp.Text, `couldn't understand the amount "a lot"`)
	assert.Equal(t, model.EntityAmount, tracker.State().(Wait).Slot)
}

func TestTopicSwitch(t *testing.T) {
	tracker := Start(testApp(), nil)
	tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9, ent(model.EntityUser, "Antonio", 0.9)))
	require.Equal(t, PhaseWait, tracker.State().Phase())

	resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.9, ent(model.EntityBank, "Top Bank", 0.9)))
	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
}

func TestConfirmationRefusesTopicChange(t *testing.T) {
	tracker := Start(testApp(), nil)
	tracker.SubmitPrediction(pred(model.IntentSendMoney, 0.9,
		ent(model.EntityAmount, "$50", 0.9),
		ent(model.EntityUser, "Antonio", 0.9),
		ent(model.EntityBank, "Top Bank", 0.9),
	))
	confirmation := tracker.State()
	require.Equal(t, PhaseConfirmation, confirmation.Phase())

	resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.95))
	assert.Contains(t, resp.Text, "Let's finish this first.")
	assert.Equal(t, confirmation, tracker.State())

	resp = tracker.SubmitPrediction(pred(model.IntentYes, 0.5))
	assert.NotEqual(t, model.ResponsePerformOperation, resp.Kind)
	assert.Equal(t, confirmation, tracker.State())

	resp = tracker.SubmitPrediction(pred(model.IntentNo, 0.9))
	assert.Equal(t, "Okay, I cancelled it. Is there anything else I can do for you?", resp.Text)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
}

func TestIdleAndWaitDefaults(t *testing.T) {
	tracker := Start(testApp(), nil)
	assert.Equal(t, greetingText, tracker.Greeting().Text)

	resp := tracker.SubmitPrediction(pred(model.IntentYes, 0.9))
	assert.Equal(t, cantHelpText, resp.Text)
	assert.Equal(t, PhaseIdle, tracker.State().Phase())

	tracker.SubmitPrediction(pred(model.IntentRequestMoney, 0.9))
	wait := tracker.State()
	require.Equal(t, PhaseWait, wait.Phase())

	resp = tracker.SubmitPrediction(pred(model.IntentNone, 0.9))
	assert.Equal(t, "Sorry, I didn't catch that. How much do you want to request?", resp.Text)
	assert.Equal(t, wait, tracker.State())

	resp = tracker.SubmitPrediction(pred(model.IntentNo, 0.9))
	assert.Contains(t, resp.Text, "cancelled")
	assert.Equal(t, PhaseIdle, tracker.State().Phase())
}

func TestSubmitUsesRecognizer(t *testing.T) {
	recognizer := &fakeRecognizer{
		prediction: pred(model.IntentCheckBalance, 0.9, ent(model.EntityBank, "Top Bank", 0.9)),
	}
	tracker := Start(testApp(), recognizer)

	resp := tracker.Submit(context.Background(), "what's the balance of Top Bank")

	assert.Equal(t, []string{"what's the balance of Top Bank"}, recognizer.calls)
	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
}

func TestExtractorFailureKeepsState(t *testing.T) {
	recognizer := &fakeRecognizer{prediction: pred(model.IntentSendMoney, 0.9)}
	tracker := Start(testApp(), recognizer)
	tracker.Submit(context.Background(), "send money")
	wait := tracker.State()
	require.Equal(t, PhaseWait, wait.Phase())

	recognizer.err = errors.New("model unavailable")
	resp := tracker.Submit(context.Background(), "fifty bucks")

	assert.Equal(t, model.ResponseAppError, resp.Kind)
	assert.Contains(t, resp.Text, "How much do you want to send?")
	assert.Equal(t, wait, tracker.State())

	resp = Start(testApp(), nil).Submit(context.Background(), "hello")
	assert.Equal(t, model.ResponseAppError, resp.Kind)
}

func TestWithConfigThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConfidenceThreshold = 0.4
	tracker := Start(testApp(), nil, WithConfig(cfg))

	resp := tracker.SubmitPrediction(pred(model.IntentCheckBalance, 0.5, ent(model.EntityBank, "Top Bank", 0.5)))
	assert.Equal(t, model.ResponsePerformOperation, resp.Kind)
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(model.DSTConfig{ConfidenceThreshold: 0.9})
	assert.Equal(t, float32(0.9), cfg.ConfidenceThreshold)
	assert.Equal(t, 0.75, cfg.SimilarityThreshold)
	assert.NotEmpty(t, cfg.Currencies)
}

func TestOverspecifiedText(t *testing.T) {
	assert.Equal(t, "Please specify just one bank account.", overspecifiedText([]model.EntityType{model.EntityBank}))
	assert.Equal(t, "Please specify just one amount, one contact and one bank account.",
		overspecifiedText([]model.EntityType{model.EntityAmount, model.EntityUser, model.EntityBank}))
}

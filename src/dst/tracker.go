// Package dst tracks the state of a banking conversation and decides, turn by turn, what
// the assistant answers and which operation it asks the host to run.
package dst

import (
	"banking_assistant/src/metrics"
	"banking_assistant/src/model"
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNoRecognizer is reported when Submit is called on a tracker built without a recognizer.
var ErrNoRecognizer = errors.New("no recognizer configured")

// Recognizer turns an utterance into an intent prediction.
type Recognizer interface {
	Recognize(ctx context.Context, transcript string) (model.IntentPrediction, error)
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithConfig(cfg Config) Option {
	return func(t *Tracker) { t.cfg = cfg }
}

func WithLogger(log zerolog.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// Tracker owns the state of one conversation. It is not safe for concurrent use.
type Tracker struct {
	machine    *Machine
	recognizer Recognizer
	cfg        Config
	log        zerolog.Logger
	state      State
}

// Start creates a conversation over app. The recognizer may be nil when turns are only
// submitted as predictions.
func Start(app *model.AppContext, recognizer Recognizer, opts ...Option) *Tracker {
	t := &Tracker{
		recognizer: recognizer,
		cfg:        DefaultConfig(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.machine = NewMachine(app, t.cfg)
	t.state = t.machine.Initial()
	return t
}

// Greeting is the first message of the conversation.
func (t *Tracker) Greeting() model.DialogueResponse {
	return t.machine.Initial().LastResponse()
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Submit recognizes one utterance and handles it. An extractor failure is answered with an
// appError and leaves the state unchanged.
func (t *Tracker) Submit(ctx context.Context, transcript string) model.DialogueResponse {
	if t.recognizer == nil {
		return t.extractorFailed(ErrNoRecognizer)
	}
	prediction, err := t.recognizer.Recognize(ctx, transcript)
	if err != nil {
		return t.extractorFailed(err)
	}
	return t.SubmitPrediction(prediction)
}

// SubmitPrediction handles a turn already analyzed by the extractor.
func (t *Tracker) SubmitPrediction(p model.IntentPrediction) model.DialogueResponse {
	metrics.DialogueTurnsTotal.WithLabelValues(string(p.Intent), string(t.state.Phase())).Inc()
	t.log.Debug().
		Str("intent", string(p.Intent)).
		Float32("probability", p.Probability).
		Int("entities", len(p.Entities)).
		Str("phase", string(t.state.Phase())).
		Msg("Turn received")
	return t.commit(t.machine.Step(t.state, p))
}

// SelectContact answers an askToChooseContact response.
func (t *Tracker) SelectContact(contact model.Contact) model.DialogueResponse {
	return t.commit(t.machine.ChooseContact(t.state, contact))
}

// SelectBankAccount answers an askToChooseBankAccount response.
func (t *Tracker) SelectBankAccount(account model.BankAccount) model.DialogueResponse {
	return t.commit(t.machine.ChooseBankAccount(t.state, account))
}

func (t *Tracker) extractorFailed(err error) model.DialogueResponse {
	metrics.ExtractorFailuresTotal.Inc()
	t.log.Warn().Err(err).Str("phase", string(t.state.Phase())).Msg("Extractor failed")
	return t.commit(t.machine.ExtractorFailed(t.state))
}

func (t *Tracker) commit(out Outcome) model.DialogueResponse {
	if out.Next != nil {
		from, to := t.state.Phase(), out.Next.Phase()
		metrics.StateTransitionsTotal.WithLabelValues(string(from), string(to)).Inc()
		t.log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("State transition")
		t.state = out.Next
	}
	metrics.DialogueResponsesTotal.WithLabelValues(string(out.Response.Kind)).Inc()
	return out.Response
}

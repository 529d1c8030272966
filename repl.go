package main

import (
	"banking_assistant/src/dst"
	"banking_assistant/src/logger"
	"banking_assistant/src/model"
	"banking_assistant/src/operation"
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// transcriptWriter records what the assistant said. conversation.Service satisfies it.
type transcriptWriter interface {
	SaveResponse(ctx context.Context, sessionID, response string) error
}

// repl drives one conversation from a line-oriented terminal.
type repl struct {
	tracker    *dst.Tracker
	delegate   operation.Delegate
	transcript transcriptWriter
	sessionID  string
	in         *bufio.Scanner
	out        io.Writer
}

func newREPL(tracker *dst.Tracker, delegate operation.Delegate, transcript transcriptWriter, sessionID string, in io.Reader, out io.Writer) *repl {
	return &repl{
		tracker:    tracker,
		delegate:   delegate,
		transcript: transcript,
		sessionID:  sessionID,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run greets the user and handles utterances until EOF, "quit" or ctx is done.
func (r *repl) Run(ctx context.Context) error {
	r.say(ctx, r.tracker.Greeting().Text)

	for {
		line, ok := r.readLine(ctx)
		if !ok {
			return r.in.Err()
		}
		if line == "" {
			continue
		}
		if isQuit(line) {
			r.say(ctx, "Goodbye!")
			return nil
		}
		if !r.respond(ctx, r.tracker.Submit(ctx, line)) {
			return r.in.Err()
		}
	}
}

// respond shows resp and follows it up until the assistant waits for a free utterance.
// It returns false when the input ended in the middle of a choice.
func (r *repl) respond(ctx context.Context, resp model.DialogueResponse) bool {
	for {
		r.say(ctx, resp.Text)

		switch resp.Kind {
		case model.ResponseChooseContact:
			for i, c := range resp.Contacts {
				fmt.Fprintf(r.out, "  %d. %s\n", i+1, c.FullName())
			}
			line, ok := r.readLine(ctx)
			if !ok {
				return false
			}
			if i, picked := pick(line, len(resp.Contacts)); picked {
				resp = r.tracker.SelectContact(resp.Contacts[i])
			} else {
				resp = r.tracker.Submit(ctx, line)
			}

		case model.ResponseChooseBankAccount:
			for i, acc := range resp.BankAccounts {
				fmt.Fprintf(r.out, "  %d. %s (%s)\n", i+1, acc.Name, acc.Currency.ID)
			}
			line, ok := r.readLine(ctx)
			if !ok {
				return false
			}
			if i, picked := pick(line, len(resp.BankAccounts)); picked {
				resp = r.tracker.SelectBankAccount(resp.BankAccounts[i])
			} else {
				resp = r.tracker.Submit(ctx, line)
			}

		case model.ResponsePerformOperation:
			result, err := r.delegate.Perform(ctx, resp.Frame)
			r.say(ctx, operation.Render(resp, result, err))
			r.say(ctx, r.tracker.State().LastResponse().Text)
			return true

		default:
			return true
		}
	}
}

func (r *repl) readLine(ctx context.Context) (string, bool) {
	if ctx.Err() != nil {
		return "", false
	}
	fmt.Fprint(r.out, "> ")
	if !r.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *repl) say(ctx context.Context, text string) {
	fmt.Fprintf(r.out, "Assistant: %s\n", text)
	if r.transcript == nil {
		return
	}
	if err := r.transcript.SaveResponse(ctx, r.sessionID, text); err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("session_id", r.sessionID).Msg("Failed to record assistant message")
	}
}

// pick reads a 1-based option number.
func pick(line string, n int) (int, bool) {
	choice, err := strconv.Atoi(strings.TrimSuffix(line, "."))
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice - 1, true
}

func isQuit(line string) bool {
	switch strings.ToLower(line) {
	case "quit", "exit", "bye":
		return true
	}
	return false
}

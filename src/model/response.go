package model

// ResponseKind tags the DialogueResponse variants
type ResponseKind string

const (
	ResponseAppError          ResponseKind = "appError"
	ResponseFollowUp          ResponseKind = "followUpQuestion"
	ResponseChooseContact     ResponseKind = "askToChooseContact"
	ResponseChooseBankAccount ResponseKind = "askToChooseBankAccount"
	ResponsePerformOperation  ResponseKind = "performInAppOperation"
)

// DialogueResponse is what the assistant says (and asks the host to do) at the end of a turn.
// Contacts and BankAccounts are only set for the choose variants, Frame and the two
// messages only for performInAppOperation.
type DialogueResponse struct {
	Kind           ResponseKind    `json:"kind"`
	Text           string          `json:"text"`
	Contacts       []Contact       `json:"contacts,omitempty"`
	BankAccounts   []BankAccount   `json:"bank_accounts,omitempty"`
	Frame          UserIntentFrame `json:"frame,omitempty"`
	SuccessMessage string          `json:"success_message,omitempty"`
	FailureMessage string          `json:"failure_message,omitempty"`
}

func AppError(text string) DialogueResponse {
	return DialogueResponse{Kind: ResponseAppError, Text: text}
}

func FollowUp(text string) DialogueResponse {
	return DialogueResponse{Kind: ResponseFollowUp, Text: text}
}

func ChooseContact(text string, candidates []Contact) DialogueResponse {
	return DialogueResponse{Kind: ResponseChooseContact, Text: text, Contacts: candidates}
}

func ChooseBankAccount(text string, candidates []BankAccount) DialogueResponse {
	return DialogueResponse{Kind: ResponseChooseBankAccount, Text: text, BankAccounts: candidates}
}

// PerformOperation hands a resolved frame to the host.
func PerformOperation(frame UserIntentFrame) DialogueResponse {
	return DialogueResponse{
		Kind:           ResponsePerformOperation,
		Text:           frame.Description(),
		Frame:          frame,
		SuccessMessage: frame.SuccessTemplate(),
		FailureMessage: frame.FailureTemplate(),
	}
}

// Prefixed returns a copy whose text starts with prefix.
func (r DialogueResponse) Prefixed(prefix string) DialogueResponse {
	if prefix == "" {
		return r
	}
	r.Text = prefix + " " + r.Text
	return r
}

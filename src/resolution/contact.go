package resolution

import (
	"banking_assistant/src/model"
	"sort"
	"strings"
)

// MatchContact scores literal against the contact's full name and against its first and
// last name separately, keeping the best of the two.
//
// A one-word literal is scored against whichever name part fits it best, so "Antonio"
// fully matches Antonio Rossi. A literal of several words scores the average of both
// parts when both match, and half the score of the one part that matches otherwise.
//
// ok is false when the best score is below threshold.
func MatchContact(contact model.Contact, literal string, threshold float64) (score float64, ok bool) {
	literal = strings.TrimSpace(literal)
	if literal == "" {
		return 0, false
	}

	best := max(Similarity(contact.FullName(), literal), partScore(contact, literal, threshold))
	if best < threshold {
		return 0, false
	}
	return best, true
}

func partScore(contact model.Contact, literal string, threshold float64) float64 {
	words := strings.Fields(literal)

	first, last := 0.0, 0.0
	for _, w := range words {
		first = max(first, Similarity(contact.FirstName, w))
		last = max(last, Similarity(contact.LastName, w))
	}

	if len(words) == 1 {
		return max(first, last)
	}

	switch {
	case first >= threshold && last >= threshold:
		return (first + last) / 2
	case first >= threshold:
		return first / 2
	case last >= threshold:
		return last / 2
	}
	return 0
}

// KeepAndOrderSimilar keeps the contacts matching literal, best match first.
// Contacts with equal scores keep their address book order.
func KeepAndOrderSimilar(contacts []model.Contact, literal string, threshold float64) []model.Contact {
	type scored struct {
		contact model.Contact
		score   float64
	}

	var matches []scored
	for _, c := range contacts {
		if score, ok := MatchContact(c, literal, threshold); ok {
			matches = append(matches, scored{contact: c, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]model.Contact, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.contact)
	}
	return out
}

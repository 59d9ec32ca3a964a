package character

import (
	"fmt"
	"strings"
)

// CharToken is the fixed role marker Character.AI substitutes with the
// character's own name. The target user's lines are always keyed to it.
const CharToken = "{{char}}"

// deletedIdentity is the shared pseudo-identity for deleted, removed, and
// unknown authors. Every such author collapses to one label per run: labels
// exist to tell speakers apart, and indistinguishable authors are one
// indistinct speaker.
const deletedIdentity = "[deleted]"

// Labeler assigns stable pseudonymous labels to conversation participants.
// The target user always maps to CharToken; every other distinct author gets
// a {{random_user_N}} label, with N assigned in first-seen order starting at
// 1 and memoized for the rest of the run.
type Labeler struct {
	target string
	labels map[string]string
	next   int
}

// NewLabeler creates a Labeler for one generation run.
func NewLabeler(target string) *Labeler {
	return &Labeler{
		target: strings.ToLower(strings.TrimSpace(target)),
		labels: make(map[string]string),
		next:   1,
	}
}

// Label returns the label for the given author, assigning one on first sight.
// Any input is acceptable, including the empty string.
func (l *Labeler) Label(author string) string {
	id := normalizeIdentity(author)
	if id == l.target {
		return CharToken
	}
	if label, ok := l.labels[id]; ok {
		return label
	}
	label := fmt.Sprintf("{{random_user_%d}}", l.next)
	l.labels[id] = label
	l.next++
	return label
}

// Participants returns the number of distinct non-target identities seen.
func (l *Labeler) Participants() int {
	return len(l.labels)
}

// normalizeIdentity maps an author name to its identity key. Reddit usernames
// are case-insensitive; deleted/removed/blank authors share one identity.
func normalizeIdentity(author string) string {
	a := strings.ToLower(strings.TrimSpace(author))
	if a == "" || a == "[deleted]" || a == "[removed]" {
		return deletedIdentity
	}
	return a
}

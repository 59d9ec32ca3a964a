package character

// WarningKind classifies the non-fatal conditions the pipeline can report.
type WarningKind string

const (
	// WarnSelfReply: a comment replied to the target user's own content.
	WarnSelfReply WarningKind = "self_reply_skipped"
	// WarnParentUnavailable: the parent was missing or deleted; the exchange
	// was kept with the sentinel parent body.
	WarnParentUnavailable WarningKind = "parent_unavailable"
	// WarnParentError: parent resolution failed; the comment was skipped.
	WarnParentError WarningKind = "parent_error"
	// WarnTruncated: the budget filled before all exchanges were included.
	WarnTruncated WarningKind = "truncated"
	// WarnNoExchanges: the definition contains only the static header.
	WarnNoExchanges WarningKind = "no_exchanges"
)

// Warning is a non-fatal condition surfaced to the caller. Nothing in the
// engine is fatal except a ceiling too small for the header.
type Warning struct {
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

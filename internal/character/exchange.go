package character

import (
	"context"
	"errors"
	"sort"
	"strings"
)

// Kind distinguishes the two Reddit item types the pipeline handles.
type Kind string

const (
	KindComment Kind = "comment"
	KindPost    Kind = "post"
)

// RawItem is one fetched Reddit item, comment or post, as the engine consumes
// it. Immutable once fetched.
type RawItem struct {
	Fullname   string // e.g. t1_abc123, t3_xyz789
	Kind       Kind
	Author     string
	Body       string // comment body, or post selftext
	Title      string // posts only
	ParentID   string // fullname of the parent item; empty for posts
	CreatedUTC int64
	Score      int
}

// ErrParentNotFound is returned by a ParentResolver when the referenced
// parent does not exist or is not retrievable.
var ErrParentNotFound = errors.New("parent not found")

// ParentResolver resolves a parent reference to the parent item.
type ParentResolver interface {
	Resolve(ctx context.Context, fullname string) (*RawItem, error)
}

// Exchange pairs one target-user comment with the content it replied to.
// Bodies are stored already normalized (see CleanBody); an Exchange is never
// mutated after creation.
type Exchange struct {
	ParentLabel string
	ParentBody  string
	ReplyBody   string
	Score       int
}

// combinedLen is the ordering tiebreaker: shorter exchanges pack more
// variety into the budget.
func (e Exchange) combinedLen() int {
	return len(e.ParentBody) + len(e.ReplyBody)
}

// ParentUnavailable is the sentinel parent body used when a comment's parent
// cannot be retrieved.
const ParentUnavailable = "[content unavailable]"

// BuildExchanges pairs each of the target user's comments with its resolved
// parent and returns the exchanges ordered for assembly.
//
// Policies, all deterministic:
//   - comments with deleted/removed/empty bodies, or bodies outside the
//     [MinCommentLen, MaxCommentLen] filter, are dropped
//   - a parent authored by the target user is a self-reply: the exchange is
//     skipped with a warning, never walked further up the chain
//   - a missing or deleted parent yields an exchange with the
//     ParentUnavailable sentinel rather than dropping the comment
//   - a resolver failure other than ErrParentNotFound skips the comment with
//     a warning; nothing in the builder is fatal
//   - ordering is score descending, ties broken by shorter combined length,
//     remaining ties by input order (stable sort)
func BuildExchanges(ctx context.Context, target string, comments []RawItem, resolver ParentResolver, labeler *Labeler, opts Options) ([]Exchange, []Warning) {
	var exchanges []Exchange
	var warnings []Warning

	for _, c := range comments {
		body := CleanBody(c.Body)
		if !bodyUsable(c.Body) || len(body) < opts.MinCommentLen || len(body) > opts.MaxCommentLen {
			continue
		}

		ex, warn, ok := buildOne(ctx, target, c, body, resolver, labeler, opts)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		if ok {
			exchanges = append(exchanges, ex)
		}
	}

	sort.SliceStable(exchanges, func(i, j int) bool {
		if exchanges[i].Score != exchanges[j].Score {
			return exchanges[i].Score > exchanges[j].Score
		}
		return exchanges[i].combinedLen() < exchanges[j].combinedLen()
	})

	return exchanges, warnings
}

func buildOne(ctx context.Context, target string, c RawItem, body string, resolver ParentResolver, labeler *Labeler, opts Options) (Exchange, *Warning, bool) {
	parent, err := resolveParent(ctx, c, resolver)
	switch {
	case errors.Is(err, ErrParentNotFound):
		return Exchange{
			ParentLabel: labeler.Label(deletedIdentity),
			ParentBody:  ParentUnavailable,
			ReplyBody:   body,
			Score:       c.Score,
		}, &Warning{Kind: WarnParentUnavailable, Detail: c.Fullname}, true
	case err != nil:
		return Exchange{}, &Warning{Kind: WarnParentError, Detail: c.Fullname + ": " + err.Error()}, false
	}

	if strings.EqualFold(strings.TrimSpace(parent.Author), strings.TrimSpace(target)) {
		return Exchange{}, &Warning{Kind: WarnSelfReply, Detail: c.Fullname}, false
	}

	parentText, ok := parentSpeech(*parent, opts)
	if !ok {
		return Exchange{}, nil, false
	}
	if parentText == "" {
		// Parent exists but its content was deleted; keep the exchange with
		// the sentinel so the reply is not lost.
		return Exchange{
			ParentLabel: labeler.Label(parent.Author),
			ParentBody:  ParentUnavailable,
			ReplyBody:   body,
			Score:       c.Score,
		}, &Warning{Kind: WarnParentUnavailable, Detail: c.Fullname}, true
	}

	return Exchange{
		ParentLabel: labeler.Label(parent.Author),
		ParentBody:  parentText,
		ReplyBody:   body,
		Score:       c.Score,
	}, nil, true
}

func resolveParent(ctx context.Context, c RawItem, resolver ParentResolver) (*RawItem, error) {
	if c.ParentID == "" {
		return nil, ErrParentNotFound
	}
	parent, err := resolver.Resolve(ctx, c.ParentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, ErrParentNotFound
	}
	return parent, nil
}

// parentSpeech extracts what the parent's author said. Posts speak through
// their title, plus the selftext when it fits the comment length filter.
// Returns ok=false when the parent text falls outside the filter (a quality
// cut, distinct from the unavailable case), and an empty string when the
// parent's content was deleted.
func parentSpeech(parent RawItem, opts Options) (string, bool) {
	var text string
	switch parent.Kind {
	case KindPost:
		text = CleanBody(parent.Title)
		if bodyUsable(parent.Body) {
			if self := CleanBody(parent.Body); self != "" && len(self) <= opts.MaxCommentLen {
				text += "\n" + self
			}
		}
	default:
		if !bodyUsable(parent.Body) {
			return "", true
		}
		text = CleanBody(parent.Body)
	}

	if text == "" {
		return "", true
	}
	if len(text) < opts.MinCommentLen || len(text) > opts.MaxCommentLen {
		return "", false
	}
	return text, true
}

// bodyUsable reports whether a raw body carries author speech at all.
func bodyUsable(body string) bool {
	b := strings.TrimSpace(body)
	return b != "" && b != "[deleted]" && b != "[removed]"
}

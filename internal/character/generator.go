// Package character turns a Reddit user's comments and their conversational
// parents into a Character.AI definition document under a hard character
// ceiling. The package is pure: it consumes fetched items and a parent
// resolver, and reports every non-fatal condition as a Warning instead of
// logging.
package character

import "context"

// Options are the generation knobs. Zero values fall back to defaults.
type Options struct {
	// MaxChars is the definition ceiling, header included.
	MaxChars int
	// MinCommentLen and MaxCommentLen filter comment and parent bodies by
	// cleaned length. Very short bodies carry no voice; very long ones crowd
	// out variety.
	MinCommentLen int
	MaxCommentLen int
	// MaxBlockLen drops any single formatted exchange longer than this,
	// leaving room for many exchanges in the budget.
	MaxBlockLen int
}

// DefaultOptions returns the standard generation knobs.
func DefaultOptions() Options {
	return Options{
		MaxChars:      DefaultMaxChars,
		MinCommentLen: 10,
		MaxCommentLen: 300,
		MaxBlockLen:   800,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxChars <= 0 {
		o.MaxChars = d.MaxChars
	}
	if o.MinCommentLen <= 0 {
		o.MinCommentLen = d.MinCommentLen
	}
	if o.MaxCommentLen <= 0 {
		o.MaxCommentLen = d.MaxCommentLen
	}
	if o.MaxBlockLen <= 0 {
		o.MaxBlockLen = d.MaxBlockLen
	}
	return o
}

// BuildDefinition runs the whole pipeline for one user: label participants,
// pair comments with parents, format dialog blocks, and assemble them under
// the ceiling. The only error is ErrCeilingTooSmall; everything else is a
// Warning on the returned Definition.
func BuildDefinition(ctx context.Context, target string, comments []RawItem, resolver ParentResolver, opts Options) (*Definition, error) {
	opts = opts.withDefaults()

	labeler := NewLabeler(target)
	exchanges, warnings := BuildExchanges(ctx, target, comments, resolver, labeler, opts)

	blocks := make([]string, 0, len(exchanges))
	for _, ex := range exchanges {
		block := FormatBlock(ex)
		if len(block) > opts.MaxBlockLen {
			continue
		}
		blocks = append(blocks, block)
	}

	def, err := Assemble(target, blocks, opts.MaxChars)
	if err != nil {
		return nil, err
	}
	def.Warnings = append(warnings, def.Warnings...)
	return def, nil
}

package character

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultMaxChars is the Character.AI definition field ceiling.
const DefaultMaxChars = 32000

// ErrCeilingTooSmall means the configured ceiling cannot even hold the static
// header. This is a misconfiguration, the only fatal condition in the engine.
var ErrCeilingTooSmall = errors.New("character ceiling smaller than definition header")

const headerTemplate = "This character is based on the Reddit user u/%s. Here are examples of how they typically respond:\n\n"

// Definition is the assembled character definition.
type Definition struct {
	Text      string    `json:"definition"`
	Included  int       `json:"included"`
	Skipped   int       `json:"skipped"`
	Truncated bool      `json:"truncated"`
	Warnings  []Warning `json:"warnings,omitempty"`
}

// Assemble accumulates formatted blocks in order under the ceiling. Blocks
// are atomic: the first block that would overflow ends accumulation, and no
// block is ever cut mid-text. Identical input produces byte-identical output.
func Assemble(target string, blocks []string, ceiling int) (*Definition, error) {
	header := fmt.Sprintf(headerTemplate, target)
	if len(header) > ceiling {
		return nil, ErrCeilingTooSmall
	}

	var b strings.Builder
	b.WriteString(header)
	total := len(header)

	included := 0
	for _, blk := range blocks {
		if total+len(blk) > ceiling {
			break
		}
		b.WriteString(blk)
		total += len(blk)
		included++
	}

	def := &Definition{
		Text:      b.String(),
		Included:  included,
		Skipped:   len(blocks) - included,
		Truncated: included < len(blocks),
	}
	if def.Truncated {
		def.Warnings = append(def.Warnings, Warning{
			Kind:   WarnTruncated,
			Detail: fmt.Sprintf("%d of %d exchanges fit the %d character ceiling", included, len(blocks), ceiling),
		})
	}
	if included == 0 {
		def.Warnings = append(def.Warnings, Warning{Kind: WarnNoExchanges})
	}
	return def, nil
}

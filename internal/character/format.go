package character

import (
	"regexp"
	"strings"
)

// Reddit markdown and noise stripped from bodies before formatting. Content
// is otherwise preserved verbatim.
var (
	boldRe       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.+?)\*`)
	strikeRe     = regexp.MustCompile(`~~(.+?)~~`)
	codeRe       = regexp.MustCompile("`(.+?)`")
	quoteRe      = regexp.MustCompile(`(?m)^\s*(?:&gt;|>).*$`)
	urlRe        = regexp.MustCompile(`https?://[^\s)]+`)
	userRefRe    = regexp.MustCompile(`/?\b[ur]/\w+`)
	editRe       = regexp.MustCompile(`(?im)\s*edit\s*:.*$`)
	spaceRunRe   = regexp.MustCompile(`[ \t]+`)
	newlineRunRe = regexp.MustCompile(`\n\s*\n(\s*\n)+`)
)

// CleanBody normalizes a Reddit body for a dialog example: markdown markers
// removed, quote lines and URLs and u/ r/ references dropped, EDIT tails cut,
// whitespace collapsed. Idempotent.
func CleanBody(text string) string {
	if text == "" {
		return ""
	}

	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = strikeRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "^", "")

	text = quoteRe.ReplaceAllString(text, "")
	text = urlRe.ReplaceAllString(text, "")
	text = userRefRe.ReplaceAllString(text, "")
	text = editRe.ReplaceAllString(text, "")

	text = spaceRunRe.ReplaceAllString(text, " ")
	text = newlineRunRe.ReplaceAllString(text, "\n\n")

	// Drop per-line edge spaces left behind by the removals above.
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// FormatBlock renders one exchange as a two-turn dialog example: the other
// participant's line followed by the character's line, closed by a blank
// line. Always non-empty for non-empty input.
func FormatBlock(ex Exchange) string {
	var b strings.Builder
	b.WriteString(ex.ParentLabel)
	b.WriteString(": ")
	b.WriteString(ex.ParentBody)
	b.WriteString("\n")
	b.WriteString(CharToken)
	b.WriteString(": ")
	b.WriteString(ex.ReplyBody)
	b.WriteString("\n\n")
	return b.String()
}

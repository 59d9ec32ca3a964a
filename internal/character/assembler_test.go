package character

import (
	"errors"
	"strings"
	"testing"
)

func TestAssembleRespectsCeiling(t *testing.T) {
	// Ten 3,500-char blocks against a 20,000 ceiling: five fit alongside the
	// header (17,500 plus ~106), a sixth would overflow.
	block := strings.Repeat("x", 3500)
	blocks := make([]string, 10)
	for i := range blocks {
		blocks[i] = block
	}
	const ceiling = 20000

	def, err := Assemble("someuser", blocks, ceiling)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if def.Included != 5 {
		t.Errorf("Included = %d, want 5", def.Included)
	}
	if def.Skipped != 5 {
		t.Errorf("Skipped = %d, want 5", def.Skipped)
	}
	if !def.Truncated {
		t.Error("Truncated = false, want true")
	}
	if len(def.Text) > ceiling {
		t.Errorf("output length %d exceeds ceiling %d", len(def.Text), ceiling)
	}
	if !hasWarning(def.Warnings, WarnTruncated) {
		t.Errorf("missing truncation warning: %+v", def.Warnings)
	}
}

func TestAssembleBlocksAreAtomic(t *testing.T) {
	blocks := []string{
		"{{random_user_1}}: hello there\n{{char}}: hi\n\n",
		strings.Repeat("y", 100000),
	}

	def, err := Assemble("someuser", blocks, 1000)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if def.Included != 1 {
		t.Fatalf("Included = %d, want 1", def.Included)
	}
	// The oversized block must not appear even partially.
	if strings.Contains(def.Text, "y") {
		t.Error("partial block text leaked into the output")
	}
	if !strings.HasSuffix(def.Text, blocks[0]) {
		t.Error("included block was altered")
	}
}

func TestAssembleStopsAtFirstOverflow(t *testing.T) {
	// Greedy by design: once a block overflows, later smaller blocks are not
	// considered even if they would fit.
	blocks := []string{
		strings.Repeat("a", 500),
		strings.Repeat("b", 600),
		strings.Repeat("c", 10),
	}

	def, err := Assemble("someuser", blocks, 700)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if def.Included != 1 {
		t.Errorf("Included = %d, want 1", def.Included)
	}
	if strings.Contains(def.Text, "c") {
		t.Error("assembler resumed after the first overflow")
	}
}

func TestAssembleDeterministic(t *testing.T) {
	blocks := []string{"one block\n\n", "two block\n\n", "three block\n\n"}

	first, err := Assemble("someuser", blocks, 200)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	second, err := Assemble("someuser", blocks, 200)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if first.Text != second.Text {
		t.Error("identical input did not produce byte-identical output")
	}
}

func TestAssembleNoExchanges(t *testing.T) {
	def, err := Assemble("someuser", nil, DefaultMaxChars)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !strings.Contains(def.Text, "u/someuser") {
		t.Errorf("header missing: %q", def.Text)
	}
	if def.Included != 0 || def.Truncated {
		t.Errorf("Included = %d, Truncated = %v", def.Included, def.Truncated)
	}
	if !hasWarning(def.Warnings, WarnNoExchanges) {
		t.Errorf("missing no-exchanges warning: %+v", def.Warnings)
	}
}

func TestAssembleCeilingSmallerThanHeader(t *testing.T) {
	_, err := Assemble("someuser", []string{"a block\n\n"}, 10)
	if !errors.Is(err, ErrCeilingTooSmall) {
		t.Fatalf("err = %v, want ErrCeilingTooSmall", err)
	}
}

func hasWarning(warnings []Warning, kind WarningKind) bool {
	for _, w := range warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

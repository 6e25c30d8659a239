package clasp

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders a two-line snippet pointing at pos. Frames are
// attached to every error raised with script source available, access
// denials and teardown failures included, so the output stays narrow: the
// offending line with a line-number gutter and a caret under the column.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}
	line := lines[pos.Line-1]

	runes := []rune(line)
	col := pos.Column
	switch {
	case col <= 0:
		col = 1
	case col > len(runes)+1:
		col = len(runes) + 1
	}

	// Tabs in the source line must be mirrored in the caret padding or the
	// caret drifts left of the real column.
	pad := make([]rune, 0, col-1)
	for _, r := range runes[:col-1] {
		if r == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}

	gutter := strconv.Itoa(pos.Line)
	var b strings.Builder
	fmt.Fprintf(&b, "  --> line %d, column %d\n", pos.Line, col)
	fmt.Fprintf(&b, " %s | %s\n", gutter, line)
	fmt.Fprintf(&b, " %s | %s^", strings.Repeat(" ", len(gutter)), string(pad))
	return b.String()
}

package lox

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the source line at pos with a caret under the
// column. It returns "" when the position is outside source.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	width := len([]rune(lineText))

	column := min(max(pos.Column, 1), width+1)

	lineLabel := strconv.Itoa(pos.Line)
	gutter := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutter,
		strings.Repeat(" ", column-1),
	)
}

package util

import (
	"fmt"
	"strings"
)

// LineOf returns the 1-based line number containing byte offset in text.
func LineOf(text string, offset int) int {
	if offset < 0 {
		return 1
	}
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}

// ExtractSnippet returns a numbered snippet of context lines around line,
// marking the target line with ">>>".
func ExtractSnippet(content string, line, context int) string {
	if context <= 0 {
		context = 3
	}
	lines := strings.Split(content, "\n")
	start := line - context - 1
	if start < 0 {
		start = 0
	}
	end := line + context
	if end > len(lines) {
		end = len(lines)
	}
	var b strings.Builder
	for i := start; i < end; i++ {
		marker := "    "
		if i == line-1 {
			marker = ">>> "
		}
		fmt.Fprintf(&b, "%s%4d | %s\n", marker, i+1, lines[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

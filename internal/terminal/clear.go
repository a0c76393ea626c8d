// Copyright (c) 2025 Flightbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal erases prompts (and the secrets typed into them) once the
// CLI has read them.
package terminal

import (
	"os"

	"atomicgo.dev/cursor"
	"golang.org/x/term"
)

const fallbackWidth = 80

// ClearPreviousLines erases textLength characters of prompt and input that
// were echoed above the cursor, including the blank line left by Enter.
func ClearPreviousLines(textLength int) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	width := fallbackWidth
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	cursor.ClearLinesUp(linesUsed(textLength, width))
	cursor.StartOfLine()
}

// linesUsed is the number of terminal rows text of the given length wraps
// onto at width columns, plus the row Enter moved to.
func linesUsed(textLength, width int) int {
	if width <= 0 {
		width = fallbackWidth
	}
	rows := (textLength + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows + 1
}

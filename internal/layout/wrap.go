// Package layout implements the greedy line-wrapping used when composing
// tickets. It knows nothing about the printer protocol.
package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Wrap packs text into lines of at most maxWidth characters. Explicit line
// breaks in the input are preserved as paragraph boundaries. The first output
// line is prefixed with initialIndent, every following line with
// subsequentIndent; the indent counts against the width budget. A single
// token longer than the width available on an empty line is hard-split at
// the boundary. Empty input yields exactly one line equal to initialIndent,
// so callers can always emit at least one printed line.
//
// Wrap is pure: identical arguments always produce identical output.
func Wrap(text string, maxWidth int, initialIndent, subsequentIndent string) ([]string, error) {
	if maxWidth <= 0 {
		return nil, fmt.Errorf("wrap: maxWidth must be positive, got %d", maxWidth)
	}
	if utf8.RuneCountInString(initialIndent) >= maxWidth || utf8.RuneCountInString(subsequentIndent) >= maxWidth {
		return nil, fmt.Errorf("wrap: indent must be narrower than maxWidth %d", maxWidth)
	}

	var out []string
	nextIndent := func() string {
		if len(out) == 0 {
			return initialIndent
		}
		return subsequentIndent
	}

	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, nextIndent())
			continue
		}

		line := nextIndent()
		empty := true
		for _, word := range words {
			// Widths are measured in runes, not bytes, so multi-byte
			// characters never skew the budget or get split mid-sequence.
			w := []rune(word)
			if !empty && utf8.RuneCountInString(line)+1+len(w) <= maxWidth {
				line += " " + word
				continue
			}
			if !empty {
				out = append(out, line)
				line = subsequentIndent
				empty = true
			}
			for utf8.RuneCountInString(line)+len(w) > maxWidth {
				cut := maxWidth - utf8.RuneCountInString(line)
				out = append(out, line+string(w[:cut]))
				w = w[cut:]
				line = subsequentIndent
			}
			line += string(w)
			empty = false
		}
		out = append(out, line)
	}
	return out, nil
}

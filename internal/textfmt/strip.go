// SPDX-License-Identifier: MIT

// Package textfmt handles the legacy display-decoration markup clients
// embed in editable text: a section sign followed by a single format code.
package textfmt

import "regexp"

// decorationPattern matches a section sign plus one legacy format code
// (colors 0-9/a-f, styles k-o, reset r, and the hex-escape marker x).
var decorationPattern = regexp.MustCompile(`(?i)§[0-9A-FK-ORX]`)

// StripDecoration removes all decoration codes from s. Text without
// decoration passes through unchanged.
func StripDecoration(s string) string {
	if s == "" {
		return s
	}
	return decorationPattern.ReplaceAllString(s, "")
}

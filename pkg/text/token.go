package text

import (
	"strings"

	"github.com/matzehuels/notate/pkg/canvas"
)

// Token is one styled word of an annotation. Tokens are immutable inputs:
// the layout engine renders positioned copies and never writes back.
type Token struct {
	// Text is the token's content. Required.
	Text string `json:"text"`

	// Style overrides the run-level style key-for-key for this token only.
	Style canvas.Style `json:"style,omitempty"`

	// Label names the legend entry this token belongs to. Tokens sharing a
	// label produce a single legend entry, drawn on the token's first line.
	Label string `json:"label,omitempty"`
}

// Split promotes a plain string to tokens, one per whitespace-separated word.
func Split(s string) []Token {
	fields := strings.Fields(s)
	tokens := make([]Token, len(fields))
	for i, f := range fields {
		tokens[i] = Token{Text: f}
	}
	return tokens
}

// Resolve computes a token's effective style: the run-level base with the
// token's own style laid over it. The merge is shallow; a key present on the
// token replaces the base value wholesale. Absent keys fall through to the
// canvas defaults, so a nil base and a nil token style are both fine.
func Resolve(base canvas.Style, t Token) canvas.Style {
	return base.Merge(t.Style)
}

// trailingPunct are the marks that read as part of the preceding word.
const trailingPunct = `.,;:!?%)]}'"`

// IsPunctuation reports whether a token is a lone trailing punctuation mark.
// Such tokens never start a line: they stay with the word before them even
// when that overflows the span.
func IsPunctuation(s string) bool {
	r := []rune(s)
	return len(r) == 1 && strings.ContainsRune(trailingPunct, r[0])
}

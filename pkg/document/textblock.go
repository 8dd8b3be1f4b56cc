package document

import (
	"encoding/json"
	"strings"

	"github.com/matzehuels/notate/pkg/canvas"
	"github.com/matzehuels/notate/pkg/errors"
	"github.com/matzehuels/notate/pkg/text"
)

// TextBlock is a run of tokens with optional block-level styling. It is the
// document form of the token lists [viz.Figure] takes for titles, captions,
// footnotes and annotations.
//
// Three JSON shapes decode into a TextBlock:
//
//	"hello world"
//	["hello", {"text": "world", "style": {"color": "crimson"}}]
//	{"text": ["hello", "world"], "style": {...}, "align": "center"}
//
// A bare string splits on whitespace into unstyled tokens. In list form,
// each element is either a bare string, which splits the same way, or a
// token object. The object form wraps a text value of either shape and adds
// block styling on top.
type TextBlock struct {
	// Tokens is the text, one token per word.
	Tokens []text.Token

	// Style applies to every token, under any per-token styles.
	Style canvas.Style

	// Align and VA override the alignment defaults for this block. Empty
	// values keep the caller's defaults.
	Align text.Align
	VA    text.VAlign
}

// blockJSON is the object form of a TextBlock on the wire.
type blockJSON struct {
	Text  json.RawMessage `json:"text"`
	Style canvas.Style    `json:"style,omitempty"`
	Align text.Align      `json:"align,omitempty"`
	VA    text.VAlign     `json:"va,omitempty"`
}

// UnmarshalJSON decodes any of the three block shapes.
func (b *TextBlock) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*b = TextBlock{}
		return nil
	}

	switch trimmed[0] {
	case '"', '[':
		tokens, err := decodeTokens(data)
		if err != nil {
			return err
		}
		*b = TextBlock{Tokens: tokens}
		return nil
	case '{':
		var obj blockJSON
		if err := json.Unmarshal(data, &obj); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "text block")
		}
		tokens, err := decodeTokens(obj.Text)
		if err != nil {
			return err
		}
		if obj.Align != "" && !text.ValidAligns[obj.Align] {
			return errors.New(errors.ErrCodeInvalidDocument,
				"unknown alignment %q", obj.Align)
		}
		if obj.VA != "" && !text.ValidVAligns[obj.VA] {
			return errors.New(errors.ErrCodeInvalidDocument,
				"unknown vertical alignment %q", obj.VA)
		}
		*b = TextBlock{Tokens: tokens, Style: obj.Style, Align: obj.Align, VA: obj.VA}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidDocument,
			"text block is a string, list or object, got %s", trimmed[:1])
	}
}

// decodeTokens turns a raw text value (string or mixed list) into tokens.
func decodeTokens(data json.RawMessage) ([]text.Token, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "text")
		}
		return text.Split(s), nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "text")
	}
	var tokens []text.Token
	for i, el := range raw {
		et := strings.TrimSpace(string(el))
		if et == "" {
			continue
		}
		if et[0] == '"' {
			var s string
			if err := json.Unmarshal(el, &s); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "text element %d", i)
			}
			tokens = append(tokens, text.Split(s)...)
			continue
		}
		var tok text.Token
		if err := json.Unmarshal(el, &tok); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "text element %d", i)
		}
		if tok.Text == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument,
				"text element %d has no text", i)
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// MarshalJSON encodes the block in the smallest shape that preserves it: a
// plain string when nothing is styled, otherwise the object form.
func (b TextBlock) MarshalJSON() ([]byte, error) {
	if b.Style == nil && b.Align == "" && b.VA == "" {
		plain := true
		for _, tok := range b.Tokens {
			if tok.Style != nil || tok.Label != "" {
				plain = false
				break
			}
		}
		if plain {
			return json.Marshal(b.String())
		}
		return json.Marshal(b.Tokens)
	}
	tokens, err := json.Marshal(b.Tokens)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{Text: tokens, Style: b.Style, Align: b.Align, VA: b.VA})
}

// String joins the block's token texts with single spaces.
func (b TextBlock) String() string {
	parts := make([]string, len(b.Tokens))
	for i, tok := range b.Tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

// Empty reports whether the block has no tokens.
func (b TextBlock) Empty() bool {
	return len(b.Tokens) == 0
}

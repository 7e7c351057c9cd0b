// Package tokenizer turns raw script text into word tokens and maps words to
// integer ids.
//
// Punctuation is replaced by placeholder words taken from a TokenDictionary so
// that "bye!" and "bye" share the word "bye" and "!" becomes its own token.
package tokenizer

import (
	"fmt"
	"slices"
	"strings"
)

// PaddingWord is the reserved word used to left-pad generation windows.
const PaddingWord = "<PAD>"

// SpecialWords are added to every vocabulary regardless of the corpus.
var SpecialWords = map[string]string{
	"PADDING": PaddingWord,
}

// TokenDictionary maps a punctuation symbol to the placeholder word that
// replaces it.
type TokenDictionary map[string]string

// TokenLookup supplies the dictionary used for a preprocessing run.
type TokenLookup func() TokenDictionary

// DefaultTokenLookup returns the punctuation table used for script corpora.
func DefaultTokenLookup() TokenDictionary {
	return TokenDictionary{
		".":  "||Period||",
		",":  "||Comma||",
		"\"": "||Quotation_Mark||",
		";":  "||Semicolon||",
		"!":  "||Exclamation_Mark||",
		"?":  "||Question_Mark||",
		"(":  "||Left_Parentheses||",
		")":  "||Right_Parentheses||",
		"-":  "||Dash||",
		"\n": "||Return||",
	}
}

// Keys returns the symbols in substitution order: longest first, ties broken
// by byte order. Multi-character symbols therefore win over their substrings.
func (d TokenDictionary) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	return keys
}

// Validate reports whether substitution with d is unambiguous: every symbol is
// non-empty and no placeholder contains any symbol.
func (d TokenDictionary) Validate() error {
	for key, token := range d {
		if key == "" {
			return fmt.Errorf("%w: empty symbol for %q", ErrAmbiguousToken, token)
		}
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: empty placeholder for %q", ErrAmbiguousToken, key)
		}
		for other := range d {
			if other != "" && strings.Contains(token, other) {
				return fmt.Errorf("%w: placeholder %q contains symbol %q", ErrAmbiguousToken, token, other)
			}
		}
	}
	return nil
}

// Clone returns a copy of d that can be modified independently.
func (d TokenDictionary) Clone() TokenDictionary {
	if d == nil {
		return nil
	}
	out := make(TokenDictionary, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// SpecialWordList returns the SpecialWords values in a stable order.
func SpecialWordList() []string {
	words := make([]string, 0, len(SpecialWords))
	for _, w := range SpecialWords {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

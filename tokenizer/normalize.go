package tokenizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Substitute replaces every occurrence of each dictionary symbol with its
// placeholder padded by single spaces. Symbols are applied in Keys order.
func Substitute(text string, dict TokenDictionary) string {
	if text == "" {
		return ""
	}
	for _, key := range dict.Keys() {
		text = strings.ReplaceAll(text, key, " "+dict[key]+" ")
	}
	return text
}

// Tokenize substitutes punctuation, lowercases the result and splits it on
// whitespace.
func Tokenize(text string, dict TokenDictionary) []string {
	text = Substitute(text, dict)
	if text == "" {
		return nil
	}
	// cases.Caser is stateful; a fresh one per call keeps Tokenize safe for
	// concurrent use.
	return strings.Fields(cases.Lower(language.Und).String(text))
}

// Restore joins generated words and turns lowercased placeholders back into
// their punctuation symbols.
func Restore(words []string, dict TokenDictionary) string {
	text := strings.Join(words, " ")
	lower := cases.Lower(language.Und)
	for _, key := range dict.Keys() {
		placeholder := lower.String(dict[key])
		text = strings.ReplaceAll(text, " "+placeholder, key)
		// A placeholder at the very start has no leading space.
		if rest, ok := strings.CutPrefix(text, placeholder); ok {
			text = key + rest
		}
	}
	text = strings.ReplaceAll(text, "\n ", "\n")
	text = strings.ReplaceAll(text, "( ", "(")
	return text
}

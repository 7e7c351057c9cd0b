package tokenizer

import (
	"slices"
	"strings"
	"testing"
)

func TestSubstitute(t *testing.T) {
	dict := DefaultTokenLookup()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no punctuation", "hello world", "hello world"},
		{"trailing period", "Hi.", "Hi ||Period|| "},
		{"newline", "a\nb", "a ||Return|| b"},
		{"empty string", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Substitute(tc.input, dict)
			if got != tc.expected {
				t.Errorf("Substitute(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	dict := DefaultTokenLookup()

	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "Moe: Hello, Homer!", []string{"moe:", "hello", "||comma||", "homer", "||exclamation_mark||"}},
		{"collapses whitespace", "  lots   of\tspace  ", []string{"lots", "of", "space"}},
		{"lines", "Bart\nLisa", []string{"bart", "||return||", "lisa"}},
		{"empty", "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.input, dict)
			if !slices.Equal(got, tc.expected) {
				t.Errorf("Tokenize(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTokenize_NoDoubleWrap(t *testing.T) {
	dict := DefaultTokenLookup()
	if err := dict.Validate(); err != nil {
		t.Fatalf("default dictionary invalid: %v", err)
	}

	text := "Homer: (shouting) D'oh! Where's the beer?\n\"Mmm... beer.\" - said Homer; done."
	once := Substitute(text, dict)
	twice := Substitute(once, dict)

	if !slices.Equal(strings.Fields(once), strings.Fields(twice)) {
		t.Errorf("second substitution changed tokens:\n once:  %q\n twice: %q", once, twice)
	}

	first := Tokenize(text, dict)
	second := Tokenize(strings.Join(first, " "), dict)
	if !slices.Equal(first, second) {
		t.Errorf("Tokenize not stable over its own output:\n first:  %q\n second: %q", first, second)
	}

	for _, w := range second {
		if strings.Contains(w, "||||") {
			t.Errorf("placeholder wrapped twice: %q", w)
		}
	}
}

func TestSubstitute_LongestKeyFirst(t *testing.T) {
	dict := TokenDictionary{
		".":   "||Period||",
		"...": "||Ellipsis||",
	}

	got := Tokenize("Wait... what.", dict)
	want := []string{"wait", "||ellipsis||", "what", "||period||"}
	if !slices.Equal(got, want) {
		t.Errorf("Tokenize = %q, want %q", got, want)
	}
}

func TestRestore(t *testing.T) {
	dict := DefaultTokenLookup()

	tests := []struct {
		name     string
		words    []string
		expected string
	}{
		{
			name:     "exclamation and return",
			words:    []string{"moe", "||exclamation_mark||", "hi", "||return||", "bart"},
			expected: "moe! hi\nbart",
		},
		{
			name:     "parentheses",
			words:    []string{"homer", "||left_parentheses||", "laughing", "||right_parentheses||", "ok", "||period||"},
			expected: "homer(laughing) ok.",
		},
		{
			name:     "leading placeholder",
			words:    []string{"||quotation_mark||", "hi", "||quotation_mark||"},
			expected: "\" hi\"",
		},
		{"empty", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Restore(tc.words, dict)
			if got != tc.expected {
				t.Errorf("Restore(%q) = %q, want %q", tc.words, got, tc.expected)
			}
		})
	}
}

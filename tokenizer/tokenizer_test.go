package tokenizer

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestDefaultTokenLookup(t *testing.T) {
	dict := DefaultTokenLookup()

	if len(dict) != 10 {
		t.Errorf("expected 10 entries, got %d", len(dict))
	}
	if err := dict.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
	if dict["\n"] != "||Return||" {
		t.Errorf("expected newline placeholder ||Return||, got %q", dict["\n"])
	}
}

func TestTokenDictionary_Keys(t *testing.T) {
	dict := TokenDictionary{
		"?":   "||Q||",
		"...": "||E||",
		"!":   "||X||",
		"--":  "||D||",
	}

	got := dict.Keys()
	want := []string{"...", "--", "!", "?"}
	if !slices.Equal(got, want) {
		t.Errorf("Keys() = %q, want %q", got, want)
	}
}

func TestTokenDictionary_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dict    TokenDictionary
		wantErr bool
	}{
		{"default", DefaultTokenLookup(), false},
		{"placeholder contains symbol", TokenDictionary{"|": "||Pipe||"}, true},
		{"placeholder contains other symbol", TokenDictionary{"_": "<u>", ".": "<dot_x>"}, true},
		{"empty symbol", TokenDictionary{"": "<empty>"}, true},
		{"blank placeholder", TokenDictionary{".": " "}, true},
		{"empty dictionary", TokenDictionary{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.dict.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrAmbiguousToken) {
				t.Errorf("expected ErrAmbiguousToken, got %v", err)
			}
		})
	}
}

func TestTokenDictionary_Clone(t *testing.T) {
	dict := DefaultTokenLookup()
	clone := dict.Clone()
	clone["."] = "changed"

	if dict["."] != "||Period||" {
		t.Errorf("Clone shares storage with original")
	}
	if TokenDictionary(nil).Clone() != nil {
		t.Errorf("Clone of nil should be nil")
	}
}

func TestCreateLookupTables(t *testing.T) {
	words := []string{"the", "cat", "the", "dog", "cat", "the", PaddingWord}

	v, err := CreateLookupTables(words)
	if err != nil {
		t.Fatalf("CreateLookupTables failed: %v", err)
	}

	if v.Len() != 4 {
		t.Fatalf("expected 4 words, got %d", v.Len())
	}

	// Most frequent first, then first occurrence.
	want := []string{"the", "cat", "dog", PaddingWord}
	for id, w := range want {
		if got, _ := v.Word(id); got != w {
			t.Errorf("Word(%d) = %q, want %q", id, got, w)
		}
		if got, _ := v.ID(w); got != id {
			t.Errorf("ID(%q) = %d, want %d", w, got, id)
		}
	}

	if err := v.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}
}

func TestCreateLookupTables_InverseAndDense(t *testing.T) {
	for _, n := range []int{0, 1, 7, 500} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			words := make([]string, 0, n*2)
			for i := 0; i < n; i++ {
				w := fmt.Sprintf("w%d", i)
				words = append(words, w)
				if i%3 == 0 {
					words = append(words, w)
				}
			}

			v, err := CreateLookupTables(words)
			if err != nil {
				t.Fatalf("CreateLookupTables failed: %v", err)
			}
			if v.Len() != n {
				t.Fatalf("expected %d words, got %d", n, v.Len())
			}
			for id := 0; id < n; id++ {
				w, ok := v.IDToWord[id]
				if !ok {
					t.Fatalf("id %d missing", id)
				}
				if v.WordToID[w] != id {
					t.Errorf("WordToID[%q] = %d, want %d", w, v.WordToID[w], id)
				}
			}
			if err := v.Validate(); err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestVocabulary_Validate(t *testing.T) {
	tests := []struct {
		name string
		v    *Vocabulary
	}{
		{"nil", nil},
		{"length mismatch", &Vocabulary{
			WordToID: map[string]int{"a": 0},
			IDToWord: map[int]string{0: "a", 1: "b"},
		}},
		{"gap in ids", &Vocabulary{
			WordToID: map[string]int{"a": 0, "b": 2},
			IDToWord: map[int]string{0: "a", 2: "b"},
		}},
		{"not inverse", &Vocabulary{
			WordToID: map[string]int{"a": 0, "b": 1},
			IDToWord: map[int]string{0: "b", 1: "a"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.v.Validate()
			if !errors.Is(err, ErrInvalidVocabulary) {
				t.Errorf("expected ErrInvalidVocabulary, got %v", err)
			}
		})
	}
}

func TestVocabulary_NilLookups(t *testing.T) {
	var v *Vocabulary
	if n := v.Len(); n != 0 {
		t.Errorf("Len() = %d, want 0", n)
	}
	if id, ok := v.ID("moe"); ok || id != 0 {
		t.Errorf("ID() = %d, %v, want 0, false", id, ok)
	}
	if w, ok := v.Word(0); ok || w != "" {
		t.Errorf("Word() = %q, %v, want \"\", false", w, ok)
	}
}

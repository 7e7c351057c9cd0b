package tokenizer

import (
	"fmt"
	"slices"
)

// Vocabulary is the pair of lookup tables used to encode and decode words.
// WordToID and IDToWord are exact inverses and ids cover [0, Len()).
type Vocabulary struct {
	WordToID map[string]int
	IDToWord map[int]string
}

// LookupTableBuilder builds a vocabulary from a word sequence.
type LookupTableBuilder func(words []string) (*Vocabulary, error)

// CreateLookupTables assigns ids to the distinct words in words, most frequent
// first. Words with equal counts keep the order of their first occurrence.
func CreateLookupTables(words []string) (*Vocabulary, error) {
	counts := make(map[string]int)
	var order []string
	for _, w := range words {
		if _, seen := counts[w]; !seen {
			order = append(order, w)
		}
		counts[w]++
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	v := &Vocabulary{
		WordToID: make(map[string]int, len(order)),
		IDToWord: make(map[int]string, len(order)),
	}
	for id, w := range order {
		v.WordToID[w] = id
		v.IDToWord[id] = w
	}
	return v, nil
}

// Len returns the number of words in the vocabulary.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.WordToID)
}

// ID returns the id of word.
func (v *Vocabulary) ID(word string) (int, bool) {
	if v == nil {
		return 0, false
	}
	id, ok := v.WordToID[word]
	return id, ok
}

// Word returns the word with the given id.
func (v *Vocabulary) Word(id int) (string, bool) {
	if v == nil {
		return "", false
	}
	w, ok := v.IDToWord[id]
	return w, ok
}

// Validate checks that both tables are inverses over a dense 0-based range.
func (v *Vocabulary) Validate() error {
	if v == nil {
		return fmt.Errorf("%w: nil vocabulary", ErrInvalidVocabulary)
	}
	if len(v.WordToID) != len(v.IDToWord) {
		return fmt.Errorf("%w: %d words but %d ids", ErrInvalidVocabulary, len(v.WordToID), len(v.IDToWord))
	}
	n := len(v.WordToID)
	for w, id := range v.WordToID {
		if id < 0 || id >= n {
			return fmt.Errorf("%w: id %d for %q outside [0, %d)", ErrInvalidVocabulary, id, w, n)
		}
		if back, ok := v.IDToWord[id]; !ok || back != w {
			return fmt.Errorf("%w: id %d maps to %q, want %q", ErrInvalidVocabulary, id, back, w)
		}
	}
	return nil
}

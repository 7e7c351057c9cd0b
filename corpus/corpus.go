// Package corpus encodes word sequences into ids, rebalancing stopword
// frequency on the way.
package corpus

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jamesainslie/go-scriptgen/stopwords"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// DefaultKeepProbability is the chance that a single stopword occurrence
// survives Downsample.
const DefaultKeepProbability = 0.5

// ErrUnknownWord indicates a word with no id in the vocabulary.
var ErrUnknownWord = errors.New("corpus: word not in vocabulary")

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Downsample maps words to ids. Words outside stop are always kept; each
// stopword occurrence is kept when a draw from rng falls below keep.
// The relative order of kept words is preserved.
func Downsample(words []string, vocab *tokenizer.Vocabulary, stop stopwords.Set, rng *rand.Rand, keep float64) ([]int, error) {
	if rng == nil && stop.Len() > 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	ids := make([]int, 0, len(words))
	for _, w := range words {
		if stop.Contains(w) && rng.Float64() >= keep {
			continue
		}
		id, ok := vocab.ID(w)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Encode maps every word to its id without dropping anything.
func Encode(words []string, vocab *tokenizer.Vocabulary) ([]int, error) {
	return Downsample(words, vocab, nil, nil, 1)
}

// Decode maps ids back to words.
func Decode(ids []int, vocab *tokenizer.Vocabulary) ([]string, error) {
	words := make([]string, len(ids))
	for i, id := range ids {
		w, ok := vocab.Word(id)
		if !ok {
			return nil, fmt.Errorf("%w: id %d", ErrUnknownWord, id)
		}
		words[i] = w
	}
	return words, nil
}

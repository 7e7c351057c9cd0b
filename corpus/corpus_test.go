package corpus

import (
	"errors"
	"slices"
	"testing"

	"github.com/jamesainslie/go-scriptgen/stopwords"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

func buildVocab(t *testing.T, words []string) *tokenizer.Vocabulary {
	t.Helper()
	v, err := tokenizer.CreateLookupTables(words)
	if err != nil {
		t.Fatalf("CreateLookupTables failed: %v", err)
	}
	return v
}

func TestDownsample_KeepsAllNonStopwords(t *testing.T) {
	words := []string{"homer", "the", "donut", "is", "gone", "a", "the"}
	vocab := buildVocab(t, words)
	stop := stopwords.English()

	ids, err := Downsample(words, vocab, stop, NewRand(1), DefaultKeepProbability)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}

	got, err := Decode(ids, vocab)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	var content []string
	for _, w := range got {
		if !stop.Contains(w) {
			content = append(content, w)
		}
	}
	if want := []string{"homer", "donut", "gone"}; !slices.Equal(content, want) {
		t.Errorf("non-stopwords = %q, want %q", content, want)
	}
	if len(ids) > len(words) {
		t.Errorf("got %d ids for %d words", len(ids), len(words))
	}
}

func TestDownsample_StopwordFraction(t *testing.T) {
	const n = 10000
	words := make([]string, 0, 2*n)
	for i := 0; i < n; i++ {
		words = append(words, "the", "beer")
	}
	vocab := buildVocab(t, words)
	stop := stopwords.English()
	theID, _ := vocab.ID("the")

	ids, err := Downsample(words, vocab, stop, NewRand(42), DefaultKeepProbability)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}

	var kept, beer int
	for _, id := range ids {
		if id == theID {
			kept++
		} else {
			beer++
		}
	}

	if beer != n {
		t.Errorf("kept %d non-stopwords, want %d", beer, n)
	}
	frac := float64(kept) / n
	if frac < 0.45 || frac > 0.55 {
		t.Errorf("kept stopword fraction = %.3f, want within [0.45, 0.55]", frac)
	}
}

func TestDownsample_Deterministic(t *testing.T) {
	words := []string{"the", "of", "and", "moe", "a", "to", "in", "bart", "is", "it"}
	vocab := buildVocab(t, words)
	stop := stopwords.English()

	first, err := Downsample(words, vocab, stop, NewRand(7), DefaultKeepProbability)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	second, err := Downsample(words, vocab, stop, NewRand(7), DefaultKeepProbability)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if !slices.Equal(first, second) {
		t.Errorf("same seed produced %v and %v", first, second)
	}
}

func TestDownsample_KeepProbabilityBounds(t *testing.T) {
	words := []string{"the", "the", "the", "lisa"}
	vocab := buildVocab(t, words)
	stop := stopwords.English()

	all, err := Downsample(words, vocab, stop, NewRand(3), 1)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("keep=1 kept %d of 4 words", len(all))
	}

	none, err := Downsample(words, vocab, stop, NewRand(3), 0)
	if err != nil {
		t.Fatalf("Downsample failed: %v", err)
	}
	if len(none) != 1 {
		t.Errorf("keep=0 kept %d words, want only the non-stopword", len(none))
	}
}

func TestDownsample_UnknownWord(t *testing.T) {
	vocab := buildVocab(t, []string{"homer"})

	_, err := Downsample([]string{"homer", "marge"}, vocab, stopwords.English(), NewRand(1), DefaultKeepProbability)
	if !errors.Is(err, ErrUnknownWord) {
		t.Errorf("expected ErrUnknownWord, got %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	words := []string{"the", "simpsons", "the", "end"}
	vocab := buildVocab(t, words)

	ids, err := Encode(words, vocab)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(ids) != len(words) {
		t.Fatalf("Encode dropped words: %v", ids)
	}

	back, err := Decode(ids, vocab)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !slices.Equal(back, words) {
		t.Errorf("Decode = %q, want %q", back, words)
	}

	if _, err := Decode([]int{99}, vocab); !errors.Is(err, ErrUnknownWord) {
		t.Errorf("expected ErrUnknownWord for unknown id, got %v", err)
	}
}

package scriptgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/jamesainslie/go-scriptgen/dataset"
	"github.com/jamesainslie/go-scriptgen/inference"
	"github.com/jamesainslie/go-scriptgen/internal/logutil"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// Generator writes new script text with an ONNX export of a trained model.
// It is safe for concurrent use.
type Generator struct {
	pool   *inference.Pool
	infer  func(ctx context.Context, window []int64) ([]float32, error)
	bundle *dataset.Bundle
	padID  int
	seqLen int
	topK   int
	logger *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator for the model at modelPath over the
// vocabulary of bundle.
func NewGenerator(modelPath string, bundle *dataset.Bundle, opts ...Option) (*Generator, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if bundle == nil || bundle.Vocab == nil {
		return nil, fmt.Errorf("%w: no vocabulary", ErrInvalidVocabulary)
	}
	padID, ok := bundle.Vocab.ID(tokenizer.PaddingWord)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidVocabulary, tokenizer.PaddingWord)
	}

	if _, err := os.Stat(modelPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
		}
		return nil, fmt.Errorf("checking model file: %w", err)
	}

	pool, err := inference.NewPool(modelPath, cfg.poolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	rng, seed := cfg.random()
	cfg.logger.Debug("generator ready", "model", modelPath, "pool", pool.Size(), "seed", seed)

	return &Generator{
		pool:   pool,
		infer:  pool.Infer,
		bundle: bundle,
		padID:  padID,
		seqLen: cfg.seqLen,
		topK:   cfg.topK,
		logger: cfg.logger,
		rng:    rng,
	}, nil
}

// Generate continues prime with length sampled words and returns the text with
// punctuation restored. prime is normalized like the corpus; every resulting
// word must be in the vocabulary.
func (g *Generator) Generate(ctx context.Context, prime string, length int) (string, error) {
	words, window, err := g.prime(prime)
	if err != nil {
		return "", err
	}

	vocabSize := g.bundle.Vocab.Len()
	for i := 0; i < length; i++ {
		logits, err := g.infer(ctx, window)
		if err != nil {
			return "", err
		}
		if len(logits) != vocabSize {
			return "", fmt.Errorf("%w: %d logits for %d words", ErrInvalidModel, len(logits), vocabSize)
		}

		g.mu.Lock()
		id := sampleTopK(logits, g.topK, g.rng)
		g.mu.Unlock()

		word, ok := g.bundle.Vocab.Word(id)
		if !ok {
			return "", fmt.Errorf("%w: id %d", ErrUnknownWord, id)
		}
		words = append(words, word)
		g.logger.Log(ctx, logutil.LevelTrace, "sampled word", "step", i, "id", id, "word", word)

		copy(window, window[1:])
		window[len(window)-1] = int64(id)
	}

	g.logger.Debug("generated", "prime", prime, "words", len(words))
	return tokenizer.Restore(words, g.bundle.Tokens), nil
}

// prime returns the normalized prime words and the initial window: padding
// followed by the last seqLen prime ids.
func (g *Generator) prime(prime string) ([]string, []int64, error) {
	words := tokenizer.Tokenize(prime, g.bundle.Tokens)
	if len(words) == 0 {
		return nil, nil, fmt.Errorf("%w: empty prime", ErrUnknownWord)
	}

	window := make([]int64, g.seqLen)
	for i := range window {
		window[i] = int64(g.padID)
	}

	tail := words
	if len(tail) > g.seqLen {
		tail = tail[len(tail)-g.seqLen:]
	}
	offset := g.seqLen - len(tail)
	for i, w := range tail {
		id, ok := g.bundle.Vocab.ID(w)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
		window[offset+i] = int64(id)
	}
	for _, w := range words[:len(words)-len(tail)] {
		if _, ok := g.bundle.Vocab.ID(w); !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownWord, w)
		}
	}
	return words, window, nil
}

// Close releases all resources.
func (g *Generator) Close() error {
	if g.pool != nil {
		return g.pool.Close()
	}
	return nil
}

// softmax converts logits to probabilities.
func softmax(logits []float32) []float64 {
	p := make([]float64, len(logits))
	for i, l := range logits {
		p[i] = float64(l)
	}
	if len(p) == 0 {
		return p
	}
	floats.AddConst(-floats.Max(p), p)
	for i, v := range p {
		p[i] = math.Exp(v)
	}
	floats.Scale(1/floats.Sum(p), p)
	return p
}

// topK returns the indices of the k largest values of p, largest first.
func topK(p []float64, k int) []int {
	if k > len(p) {
		k = len(p)
	}
	sorted := make([]float64, len(p))
	copy(sorted, p)
	inds := make([]int, len(p))
	floats.Argsort(sorted, inds)

	top := make([]int, k)
	for i := range top {
		top[i] = inds[len(inds)-1-i]
	}
	return top
}

// sampleTopK draws an index from the k most likely entries of logits, in
// proportion to their probabilities.
func sampleTopK(logits []float32, k int, rng *rand.Rand) int {
	p := softmax(logits)
	top := topK(p, k)
	if len(top) == 0 {
		return 0
	}

	cum := make([]float64, len(top))
	for i, idx := range top {
		cum[i] = p[idx]
	}
	floats.CumSum(cum, cum)

	r := rng.Float64() * cum[len(cum)-1]
	for i, c := range cum {
		if r < c {
			return top[i]
		}
	}
	return top[len(top)-1]
}

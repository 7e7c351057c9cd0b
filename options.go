package scriptgen

import (
	"log/slog"
	"math/rand/v2"

	"github.com/jamesainslie/go-scriptgen/corpus"
	"github.com/jamesainslie/go-scriptgen/dataset"
	"github.com/jamesainslie/go-scriptgen/stopwords"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// Option configures a Preprocessor or a Generator.
type Option func(*config)

type config struct {
	tokenLookup tokenizer.TokenLookup
	buildVocab  tokenizer.LookupTableBuilder
	stopwords   stopwords.Set
	keep        float64
	bundlePath  string

	seed   uint64
	seeded bool
	rng    *rand.Rand

	seqLen   int
	topK     int
	poolSize int

	logger *slog.Logger
}

func defaultConfig() config {
	return config{
		tokenLookup: tokenizer.DefaultTokenLookup,
		buildVocab:  tokenizer.CreateLookupTables,
		stopwords:   stopwords.English(),
		keep:        corpus.DefaultKeepProbability,
		bundlePath:  dataset.DefaultFileName,
		seqLen:      20,
		topK:        5,
		poolSize:    1,
		logger:      slog.Default(),
	}
}

// random returns the configured random source, or one seeded from cfg.seed.
// The second result is the seed used, when known.
func (c *config) random() (*rand.Rand, uint64) {
	if c.rng != nil {
		return c.rng, c.seed
	}
	seed := c.seed
	if !c.seeded {
		seed = rand.Uint64()
	}
	return corpus.NewRand(seed), seed
}

// WithTokenLookup sets the punctuation dictionary source (default: tokenizer.DefaultTokenLookup).
func WithTokenLookup(fn tokenizer.TokenLookup) Option {
	return func(c *config) {
		if fn != nil {
			c.tokenLookup = fn
		}
	}
}

// WithLookupTableBuilder sets the vocabulary builder (default: tokenizer.CreateLookupTables).
func WithLookupTableBuilder(fn tokenizer.LookupTableBuilder) Option {
	return func(c *config) {
		if fn != nil {
			c.buildVocab = fn
		}
	}
}

// WithStopwords sets the stopwords to downsample (default: stopwords.English()).
// An empty set disables downsampling.
func WithStopwords(s stopwords.Set) Option {
	return func(c *config) {
		if s != nil {
			c.stopwords = s
		}
	}
}

// WithKeepProbability sets the chance of keeping a stopword occurrence (default: 0.5).
func WithKeepProbability(p float64) Option {
	return func(c *config) {
		if p >= 0 && p <= 1 {
			c.keep = p
		}
	}
}

// WithBundlePath sets where PreprocessAndSaveData writes the bundle (default: "preprocess.p").
func WithBundlePath(path string) Option {
	return func(c *config) {
		if path != "" {
			c.bundlePath = path
		}
	}
}

// WithSeed makes stopword downsampling and sampling during generation reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithRand sets the random source directly. It takes precedence over WithSeed.
func WithRand(r *rand.Rand) Option {
	return func(c *config) {
		c.rng = r
	}
}

// WithSeqLen sets the generation window length (default: 20).
func WithSeqLen(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.seqLen = n
		}
	}
}

// WithTopK sets how many of the most likely next words are sampled from (default: 5).
func WithTopK(k int) Option {
	return func(c *config) {
		if k > 0 {
			c.topK = k
		}
	}
}

// WithPoolSize sets the ONNX session pool size (default: 1).
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

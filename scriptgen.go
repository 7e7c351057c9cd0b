package scriptgen

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/jamesainslie/go-scriptgen/corpus"
	"github.com/jamesainslie/go-scriptgen/dataset"
	"github.com/jamesainslie/go-scriptgen/model"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// LoadData reads the text file at path.
func LoadData(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("loading data: %w", err)
	}
	return string(data), nil
}

// LoadCorpus reads every .txt file directly under dir, in name order, and
// joins them with a blank line.
func LoadCorpus(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("loading corpus: %w", err)
	}

	var parts []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		text, err := LoadData(filepath.Join(dir, e.Name()))
		if err != nil {
			return "", err
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("loading corpus: no .txt files in %s", dir)
	}
	return strings.Join(parts, "\n\n"), nil
}

// Result is the in-memory outcome of a preprocessing run.
type Result struct {
	Bundle *dataset.Bundle
	// Words is the normalized word sequence before stopword downsampling.
	Words []string
	// Seed is the seed of the downsampling draw, zero when WithRand was used.
	Seed uint64
}

// Preprocessor turns raw text into a dataset bundle.
// A Preprocessor is not safe for concurrent use when built with WithRand.
type Preprocessor struct {
	cfg    config
	logger *slog.Logger
}

// New creates a Preprocessor.
func New(opts ...Option) *Preprocessor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Preprocessor{cfg: cfg, logger: cfg.logger}
}

// BundlePath returns where SaveData writes.
func (p *Preprocessor) BundlePath() string {
	return p.cfg.bundlePath
}

// Preprocess loads datasetPath, a text file or a directory of .txt files,
// and builds its bundle without writing anything.
func (p *Preprocessor) Preprocess(datasetPath string) (*Result, error) {
	info, err := os.Stat(datasetPath)
	if err != nil {
		return nil, fmt.Errorf("loading data: %w", err)
	}

	var text string
	if info.IsDir() {
		text, err = LoadCorpus(datasetPath)
	} else {
		text, err = LoadData(datasetPath)
	}
	if err != nil {
		return nil, err
	}
	return p.PreprocessText(text)
}

// PreprocessText builds the bundle for text.
func (p *Preprocessor) PreprocessText(text string) (*Result, error) {
	tokens := p.cfg.tokenLookup()
	if err := tokens.Validate(); err != nil {
		return nil, err
	}

	words := tokenizer.Tokenize(text, tokens)
	p.logger.Debug("tokenized", "words", len(words), "tokens", len(tokens))

	vocab, err := p.cfg.buildVocab(append(slices.Clip(words), tokenizer.SpecialWordList()...))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}
	if err := vocab.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidVocabulary, err)
	}
	p.logger.Debug("built vocabulary", "size", vocab.Len())

	rng, seed := p.cfg.random()
	ids, err := corpus.Downsample(words, vocab, p.cfg.stopwords, rng, p.cfg.keep)
	if err != nil {
		if errors.Is(err, corpus.ErrUnknownWord) {
			return nil, fmt.Errorf("%w: %w", ErrUnknownWord, err)
		}
		return nil, err
	}

	runID := uuid.NewString()
	p.logger.Info("preprocessed corpus",
		"run_id", runID,
		"seed", seed,
		"words", len(words),
		"ids", len(ids),
		"vocab", vocab.Len(),
	)

	return &Result{
		Bundle: &dataset.Bundle{
			IDs:    ids,
			Vocab:  vocab,
			Tokens: tokens.Clone(),
			RunID:  runID,
		},
		Words: words,
		Seed:  seed,
	}, nil
}

// SaveData writes b to the bundle path.
func (p *Preprocessor) SaveData(b *dataset.Bundle) error {
	if err := dataset.Save(p.cfg.bundlePath, b); err != nil {
		return fmt.Errorf("saving bundle: %w", err)
	}
	p.logger.Info("saved bundle", "path", p.cfg.bundlePath, "run_id", b.RunID)
	return nil
}

// PreprocessAndSaveData preprocesses datasetPath and writes the bundle to the
// bundle path, replacing any previous bundle.
func (p *Preprocessor) PreprocessAndSaveData(datasetPath string) (*dataset.Bundle, error) {
	res, err := p.Preprocess(datasetPath)
	if err != nil {
		return nil, err
	}
	if err := p.SaveData(res.Bundle); err != nil {
		return nil, err
	}
	return res.Bundle, nil
}

// LoadPreprocess reads a bundle written by PreprocessAndSaveData. An empty
// path means dataset.DefaultFileName in the working directory.
func LoadPreprocess(path string) (*dataset.Bundle, error) {
	if path == "" {
		path = dataset.DefaultFileName
	}
	return dataset.Load(path)
}

// SaveModel stores m as the ".pt" artifact named after filename.
func SaveModel(filename string, m any, opts ...model.Option) error {
	return model.Save(filename, m, opts...)
}

// LoadModel reads the ".pt" artifact named after filename.
func LoadModel[M any](filename string, opts ...model.Option) (M, error) {
	m, err := model.Load[M](filename, opts...)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return m, fmt.Errorf("%w: %w", ErrModelNotFound, err)
		}
		if errors.Is(err, model.ErrDecode) {
			return m, fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
		return m, err
	}
	return m, nil
}

// Package dataset persists the output of a preprocessing run: the encoded
// corpus, its vocabulary and the token dictionary used to produce it.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// DefaultFileName is the bundle file name used when no path is given.
const DefaultFileName = "preprocess.p"

// FormatVersion is the bundle encoding written by Save.
const FormatVersion = 2

var (
	// ErrCorrupt indicates bundle bytes that do not decode.
	ErrCorrupt = errors.New("dataset: corrupt bundle")

	// ErrIncompatibleVersion indicates a bundle written with another format version.
	ErrIncompatibleVersion = errors.New("dataset: incompatible bundle version")
)

// Bundle is the persisted result of preprocessing.
type Bundle struct {
	IDs    []int
	Vocab  *tokenizer.Vocabulary
	Tokens tokenizer.TokenDictionary
	RunID  string
}

// Save writes b to path, replacing any existing file. The file is written
// next to path and renamed into place, so readers see either the old or the
// new bundle.
func Save(path string, b *Bundle) error {
	data, err := Marshal(b)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// Load reads the bundle stored at path.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	b, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating bundle file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing bundle: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("replacing bundle: %w", err)
	}
	return nil
}

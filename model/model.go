// Package model saves and loads trained model artifacts.
//
// The artifact name is derived from a source filename: its directory and
// extension are dropped and ".pt" is appended. The artifact always lives in
// the model directory (the working directory unless WithDir is given), so
// "runs/a/script.txt" and "other/script.txt" share "script.pt".
package model

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Ext is the extension of saved model artifacts.
const Ext = ".pt"

// ErrDecode indicates an artifact that does not decode into the requested type.
var ErrDecode = errors.New("model: cannot decode artifact")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements:  1 << 27,
		MaxMapPairs:       1 << 27,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Option configures where artifacts are stored.
type Option func(*config)

type config struct {
	dir string
}

// WithDir stores artifacts under dir instead of the working directory.
func WithDir(dir string) Option {
	return func(c *config) {
		if dir != "" {
			c.dir = dir
		}
	}
}

// SaveName returns the artifact file name for filename: the last path
// element without its extension, plus Ext. Leading dots do not start an
// extension, so ".hidden" keeps its name. A filename ending in a separator
// has an empty last element and maps to Ext alone.
func SaveName(filename string) string {
	base := filename[strings.LastIndexAny(filename, "/"+string(filepath.Separator))+1:]
	stem := strings.TrimLeft(base, ".")
	if i := strings.LastIndex(stem, "."); i >= 0 {
		base = base[:len(base)-len(stem)+i]
	}
	return base + Ext
}

// Path returns the full artifact path for filename.
func Path(filename string, opts ...Option) (string, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.dir = wd
	}
	return filepath.Join(cfg.dir, SaveName(filename)), nil
}

// Save writes m to the artifact path derived from filename, replacing any
// previous artifact.
func Save(filename string, m any, opts ...Option) error {
	path, err := Path(filename, opts...)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := encMode.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing model: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing model: %w", err)
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("writing model: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("replacing model: %w", err)
	}
	return nil
}

// Load reads the artifact derived from filename into a value of type M.
func Load[M any](filename string, opts ...Option) (M, error) {
	var m M
	path, err := Path(filename, opts...)
	if err != nil {
		return m, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("reading model: %w", err)
	}
	if err := decMode.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("%w: %s: %w", ErrDecode, path, err)
	}
	return m, nil
}

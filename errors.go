package scriptgen

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrModelNotFound indicates the model file does not exist.
	ErrModelNotFound = errors.New("scriptgen: model file not found")

	// ErrInvalidModel indicates the model file exists but cannot be used.
	ErrInvalidModel = errors.New("scriptgen: invalid model")

	// ErrInvalidVocabulary indicates a vocabulary whose tables are not exact
	// inverses or that lacks a required word.
	ErrInvalidVocabulary = errors.New("scriptgen: invalid vocabulary")

	// ErrUnknownWord indicates a word that is not in the vocabulary.
	ErrUnknownWord = errors.New("scriptgen: word not in vocabulary")
)

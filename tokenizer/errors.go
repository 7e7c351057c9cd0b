package tokenizer

import "errors"

var (
	// ErrAmbiguousToken indicates a dictionary whose placeholders contain
	// symbols, so substituting twice would wrap placeholders again.
	ErrAmbiguousToken = errors.New("tokenizer: ambiguous token dictionary")

	// ErrInvalidVocabulary indicates word->id and id->word mappings that are
	// not exact inverses over a dense 0-based id range.
	ErrInvalidVocabulary = errors.New("tokenizer: invalid vocabulary")
)

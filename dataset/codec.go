package dataset

import (
	"errors"
	"fmt"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// Bundles use the protobuf wire format of the following message. Map entries
// are written in key order so equal bundles encode to equal bytes.
//
//	message Bundle {
//	  uint32 version = 1;
//	  repeated int64 ids = 2 [packed = true];
//	  map<string, int64> word_to_id = 3;
//	  map<int64, string> id_to_word = 4;
//	  map<string, string> tokens = 5;
//	  string run_id = 6;
//	  Counts counts = 7;
//	}
//
//	message Counts {
//	  uint64 ids = 1;
//	  uint64 words = 2;
//	  uint64 tokens = 3;
//	}
//
// counts is written last; a bundle cut short at a field boundary lacks it or
// disagrees with it.
const (
	fieldVersion  protowire.Number = 1
	fieldIDs      protowire.Number = 2
	fieldWordToID protowire.Number = 3
	fieldIDToWord protowire.Number = 4
	fieldTokens   protowire.Number = 5
	fieldRunID    protowire.Number = 6
	fieldCounts   protowire.Number = 7

	entryKey   protowire.Number = 1
	entryValue protowire.Number = 2

	countIDs    protowire.Number = 1
	countWords  protowire.Number = 2
	countTokens protowire.Number = 3
)

type counts struct {
	ids, words, tokens uint64
}

func (c counts) append(b []byte) []byte {
	var msg []byte
	msg = appendVarint(msg, countIDs, c.ids)
	msg = appendVarint(msg, countWords, c.words)
	msg = appendVarint(msg, countTokens, c.tokens)
	return appendMessage(b, fieldCounts, msg)
}

// Marshal encodes b.
func Marshal(b *Bundle) ([]byte, error) {
	if b == nil {
		return nil, errors.New("dataset: nil bundle")
	}

	var buf []byte
	buf = protowire.AppendTag(buf, fieldVersion, protowire.VarintType)
	buf = protowire.AppendVarint(buf, FormatVersion)

	if len(b.IDs) > 0 {
		var packed []byte
		for _, id := range b.IDs {
			packed = protowire.AppendVarint(packed, uint64(int64(id)))
		}
		buf = protowire.AppendTag(buf, fieldIDs, protowire.BytesType)
		buf = protowire.AppendBytes(buf, packed)
	}

	if b.Vocab != nil {
		words := make([]string, 0, len(b.Vocab.WordToID))
		for w := range b.Vocab.WordToID {
			words = append(words, w)
		}
		slices.Sort(words)
		for _, w := range words {
			var entry []byte
			entry = appendString(entry, entryKey, w)
			entry = appendVarint(entry, entryValue, uint64(int64(b.Vocab.WordToID[w])))
			buf = appendMessage(buf, fieldWordToID, entry)
		}

		ids := make([]int, 0, len(b.Vocab.IDToWord))
		for id := range b.Vocab.IDToWord {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			var entry []byte
			entry = appendVarint(entry, entryKey, uint64(int64(id)))
			entry = appendString(entry, entryValue, b.Vocab.IDToWord[id])
			buf = appendMessage(buf, fieldIDToWord, entry)
		}
	}

	keys := make([]string, 0, len(b.Tokens))
	for k := range b.Tokens {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var entry []byte
		entry = appendString(entry, entryKey, k)
		entry = appendString(entry, entryValue, b.Tokens[k])
		buf = appendMessage(buf, fieldTokens, entry)
	}

	if b.RunID != "" {
		buf = appendString(buf, fieldRunID, b.RunID)
	}

	buf = counts{
		ids:    uint64(len(b.IDs)),
		words:  uint64(b.Vocab.Len()),
		tokens: uint64(len(b.Tokens)),
	}.append(buf)
	return buf, nil
}

// Unmarshal decodes a bundle produced by Marshal.
func Unmarshal(data []byte) (*Bundle, error) {
	b := &Bundle{
		Vocab: &tokenizer.Vocabulary{
			WordToID: make(map[string]int),
			IDToWord: make(map[int]string),
		},
		Tokens: make(tokenizer.TokenDictionary),
	}

	var (
		version     uint64
		sawVersion  bool
		want        counts
		sawCounts   bool
		wordEntries int
	)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, protowire.ParseError(n))
		}
		data = data[n:]

		var err error
		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			version, n = protowire.ConsumeVarint(data)
			sawVersion = true
		case num == fieldIDs && typ == protowire.BytesType:
			var packed []byte
			packed, n = protowire.ConsumeBytes(data)
			for len(packed) > 0 && n >= 0 {
				v, m := protowire.ConsumeVarint(packed)
				if m < 0 {
					err = protowire.ParseError(m)
					break
				}
				b.IDs = append(b.IDs, int(int64(v)))
				packed = packed[m:]
			}
		case num == fieldIDs && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(data)
			b.IDs = append(b.IDs, int(int64(v)))
		case num == fieldWordToID && typ == protowire.BytesType:
			var entry []byte
			entry, n = protowire.ConsumeBytes(data)
			var word string
			var id uint64
			err = forEachField(entry, func(num protowire.Number, typ protowire.Type, v []byte) int {
				switch {
				case num == entryKey && typ == protowire.BytesType:
					var m int
					word, m = protowire.ConsumeString(v)
					return m
				case num == entryValue && typ == protowire.VarintType:
					var m int
					id, m = protowire.ConsumeVarint(v)
					return m
				}
				return protowire.ConsumeFieldValue(num, typ, v)
			})
			b.Vocab.WordToID[word] = int(int64(id))
			wordEntries++
		case num == fieldIDToWord && typ == protowire.BytesType:
			var entry []byte
			entry, n = protowire.ConsumeBytes(data)
			var id uint64
			var word string
			err = forEachField(entry, func(num protowire.Number, typ protowire.Type, v []byte) int {
				switch {
				case num == entryKey && typ == protowire.VarintType:
					var m int
					id, m = protowire.ConsumeVarint(v)
					return m
				case num == entryValue && typ == protowire.BytesType:
					var m int
					word, m = protowire.ConsumeString(v)
					return m
				}
				return protowire.ConsumeFieldValue(num, typ, v)
			})
			b.Vocab.IDToWord[int(int64(id))] = word
		case num == fieldTokens && typ == protowire.BytesType:
			var entry []byte
			entry, n = protowire.ConsumeBytes(data)
			var key, token string
			err = forEachField(entry, func(num protowire.Number, typ protowire.Type, v []byte) int {
				var m int
				switch {
				case num == entryKey && typ == protowire.BytesType:
					key, m = protowire.ConsumeString(v)
				case num == entryValue && typ == protowire.BytesType:
					token, m = protowire.ConsumeString(v)
				default:
					m = protowire.ConsumeFieldValue(num, typ, v)
				}
				return m
			})
			b.Tokens[key] = token
		case num == fieldRunID && typ == protowire.BytesType:
			b.RunID, n = protowire.ConsumeString(data)
		case num == fieldCounts && typ == protowire.BytesType:
			var msg []byte
			msg, n = protowire.ConsumeBytes(data)
			err = forEachField(msg, func(num protowire.Number, typ protowire.Type, v []byte) int {
				if typ != protowire.VarintType {
					return protowire.ConsumeFieldValue(num, typ, v)
				}
				x, m := protowire.ConsumeVarint(v)
				switch num {
				case countIDs:
					want.ids = x
				case countWords:
					want.words = x
				case countTokens:
					want.tokens = x
				}
				return m
			})
			sawCounts = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}

		if n < 0 {
			return nil, fmt.Errorf("%w: field %d: %w", ErrCorrupt, num, protowire.ParseError(n))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: field %d: %w", ErrCorrupt, num, err)
		}
		data = data[n:]
	}

	if !sawVersion {
		return nil, fmt.Errorf("%w: no version field", ErrCorrupt)
	}
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrIncompatibleVersion, version, FormatVersion)
	}
	if !sawCounts {
		return nil, fmt.Errorf("%w: truncated, no entry counts", ErrCorrupt)
	}
	got := counts{ids: uint64(len(b.IDs)), words: uint64(wordEntries), tokens: uint64(len(b.Tokens))}
	if got != want {
		return nil, fmt.Errorf("%w: decoded %d ids, %d words, %d tokens; counts say %d, %d, %d",
			ErrCorrupt, got.ids, got.words, got.tokens, want.ids, want.words, want.tokens)
	}
	if err := b.Vocab.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	for i, id := range b.IDs {
		if _, ok := b.Vocab.IDToWord[id]; !ok {
			return nil, fmt.Errorf("%w: id %d at position %d not in vocabulary", ErrCorrupt, id, i)
		}
	}
	return b, nil
}

// forEachField walks the fields of an embedded message. fn consumes the value
// of one field and returns the number of bytes read, or a negative protowire
// error code.
func forEachField(msg []byte, fn func(protowire.Number, protowire.Type, []byte) int) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return protowire.ParseError(n)
		}
		msg = msg[n:]
		m := fn(num, typ, msg)
		if m < 0 {
			return protowire.ParseError(m)
		}
		msg = msg[m:]
	}
	return nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

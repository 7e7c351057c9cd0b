// Package stopwords provides stopword sets in the NLTK corpus file format:
// one lowercase word per line.
package stopwords

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed english
var english string

// Set is a collection of stopwords.
type Set map[string]struct{}

// English returns the NLTK English stopword list.
func English() Set {
	s, _ := Parse(strings.NewReader(english)) // embedded data, cannot fail
	return s
}

// Load reads a stopword file from path.
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopword file: %w", err)
	}
	defer func() { _ = f.Close() }()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s, nil
}

// Parse reads one stopword per line from r, skipping blank lines.
func Parse(r io.Reader) (Set, error) {
	s := make(Set)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w != "" {
			s[w] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Contains reports whether word is a stopword.
func (s Set) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of stopwords.
func (s Set) Len() int {
	return len(s)
}

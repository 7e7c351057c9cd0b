// Package report summarizes preprocessing runs and bundles.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/jamesainslie/go-scriptgen/dataset"
	"github.com/jamesainslie/go-scriptgen/stopwords"
	"github.com/jamesainslie/go-scriptgen/tokenizer"
)

// Stats holds counts for one preprocessing run.
type Stats struct {
	Words         int // word tokens after substitution
	Stopwords     int // stopword occurrences among Words
	Kept          int // ids written to the bundle
	KeptStopwords int
	VocabSize     int

	KeptStopwordFraction float64
}

// Compute compares the word sequence of a run with the ids it produced.
func Compute(words []string, ids []int, vocab *tokenizer.Vocabulary, stop stopwords.Set) Stats {
	s := Stats{
		Words:     len(words),
		Kept:      len(ids),
		VocabSize: vocab.Len(),
	}
	for _, w := range words {
		if stop.Contains(w) {
			s.Stopwords++
		}
	}
	for _, id := range ids {
		if w, ok := vocab.Word(id); ok && stop.Contains(w) {
			s.KeptStopwords++
		}
	}
	if s.Stopwords > 0 {
		s.KeptStopwordFraction = float64(s.KeptStopwords) / float64(s.Stopwords)
	}
	return s
}

// Render writes s as a two-column table.
func (s Stats) Render(w io.Writer) {
	renderTable(w, []string{"METRIC", "VALUE"}, [][]string{
		{"words", fmt.Sprint(s.Words)},
		{"stopwords", fmt.Sprint(s.Stopwords)},
		{"kept", fmt.Sprint(s.Kept)},
		{"kept stopwords", fmt.Sprint(s.KeptStopwords)},
		{"kept stopword fraction", fmt.Sprintf("%.3f", s.KeptStopwordFraction)},
		{"vocabulary", fmt.Sprint(s.VocabSize)},
	})
}

// WordCount is a vocabulary word and its frequency in a bundle.
type WordCount struct {
	Word  string
	Count int
}

// Summary describes a saved bundle.
type Summary struct {
	RunID     string
	IDs       int
	VocabSize int
	Tokens    int
	Top       []WordCount
}

// Summarize counts word frequencies in b and keeps the n most frequent.
func Summarize(b *dataset.Bundle, n int) Summary {
	counts := make(map[int]int)
	for _, id := range b.IDs {
		counts[id]++
	}

	top := make([]WordCount, 0, len(counts))
	for id, c := range counts {
		w, _ := b.Vocab.Word(id)
		top = append(top, WordCount{Word: w, Count: c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Count != top[j].Count {
			return top[i].Count > top[j].Count
		}
		return top[i].Word < top[j].Word
	})
	if n >= 0 && len(top) > n {
		top = top[:n]
	}

	return Summary{
		RunID:     b.RunID,
		IDs:       len(b.IDs),
		VocabSize: b.Vocab.Len(),
		Tokens:    len(b.Tokens),
		Top:       top,
	}
}

// Render writes the summary followed by the top words.
func (s Summary) Render(w io.Writer) {
	renderTable(w, []string{"BUNDLE", "VALUE"}, [][]string{
		{"run", s.RunID},
		{"ids", fmt.Sprint(s.IDs)},
		{"vocabulary", fmt.Sprint(s.VocabSize)},
		{"tokens", fmt.Sprint(s.Tokens)},
	})
	if len(s.Top) == 0 {
		return
	}
	fmt.Fprintln(w)

	rows := make([][]string, len(s.Top))
	for i, wc := range s.Top {
		rows[i] = []string{wc.Word, fmt.Sprint(wc.Count)}
	}
	renderTable(w, []string{"WORD", "COUNT"}, rows)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(rows)
	table.Render()
}

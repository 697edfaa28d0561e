package chunk

import (
	"strings"
	"unicode/utf8"
)

/*
Splitter cuts text into overlapping chunks for retrieval.

Rules
  - Lengths are counted in runes
  - Prefer paragraph breaks, then line breaks, then spaces, then anything
  - A chunk never exceeds Size unless a single unbreakable piece does
  - Consecutive chunks share up to Overlap runes of trailing context
  - Output is deterministic for a given input
*/

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

type Splitter struct {
	size       int
	overlap    int
	separators []string
}

// NewSplitter expects size > 0 and 0 <= overlap < size; the config layer
// validates both.
func NewSplitter(size, overlap int) Splitter {
	return Splitter{
		size:       size,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

func (s Splitter) Size() int {
	return s.size
}

func (s Splitter) Overlap() int {
	return s.overlap
}

// Split returns the chunks of text. Blank input yields no chunks.
func (s Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	rest := []string{}
	for i, candidate := range separators {
		if candidate == "" || strings.Contains(text, candidate) {
			sep = candidate
			rest = separators[i+1:]
			break
		}
	}

	var chunks []string
	var fitting []string
	for _, piece := range strings.Split(text, sep) {
		if piece == "" {
			continue
		}
		if utf8.RuneCountInString(piece) < s.size {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting, sep)...)
			fitting = nil
		}
		if len(rest) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, rest)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting, sep)...)
	}
	return chunks
}

// merge packs pieces into chunks of at most size runes, carrying a tail of
// at most overlap runes into the next chunk.
func (s Splitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)

	var chunks []string
	var window []string
	total := 0

	joinedLen := func(n int) int {
		if len(window) > 0 {
			return total + n + sepLen
		}
		return total + n
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if joinedLen(n) > s.size && len(window) > 0 {
			if c := strings.TrimSpace(strings.Join(window, sep)); c != "" {
				chunks = append(chunks, c)
			}
			for total > s.overlap || (joinedLen(n) > s.size && total > 0) {
				total -= utf8.RuneCountInString(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		total = joinedLen(n)
		window = append(window, p)
	}

	if c := strings.TrimSpace(strings.Join(window, sep)); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

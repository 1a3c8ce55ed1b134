package rag

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// defaultSeparators are tried in order, from coarsest to finest.
// The empty string means "split anywhere" and always matches.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter breaks document text into overlapping chunks. It prefers
// paragraph boundaries, then lines, sentences and words, falling back to a
// hard cut only when a single run of text exceeds the chunk size.
// Sizes are in runes so multibyte text is not cut mid-character.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewSplitter creates a splitter with the given chunk size and overlap
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// Split breaks text into chunk strings
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.separators)
}

// SplitDocument splits a document and records each chunk's rune offset
// within the source text. Chunk IDs are fresh UUIDs.
func (s *Splitter) SplitDocument(doc Document) []Chunk {
	texts := s.Split(doc.Content)
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, len(texts))
	searchFrom := 0
	for _, text := range texts {
		startByte := searchFrom
		if idx := strings.Index(doc.Content[searchFrom:], text); idx >= 0 {
			startByte = searchFrom + idx
		}
		chunks = append(chunks, Chunk{
			ID:         uuid.NewString(),
			Content:    text,
			Source:     doc.Source,
			Page:       doc.Page,
			StartIndex: utf8.RuneCountInString(doc.Content[:startByte]),
		})
		// Overlapping chunks share a prefix, so the next search starts
		// just past this chunk's start rather than past its end.
		searchFrom = startByte + 1
	}
	return chunks
}

func (s *Splitter) splitText(text string, separators []string) []string {
	// Pick the coarsest separator that occurs in the text
	sep := separators[len(separators)-1]
	var remaining []string
	for i, candidate := range separators {
		if candidate == "" {
			sep = ""
			break
		}
		if strings.Contains(text, candidate) {
			sep = candidate
			remaining = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, sep)

	var final []string
	var pending []string
	for _, piece := range splits {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// Oversized piece: flush what we have, then recurse with finer
		// separators (or emit as-is when none remain)
		if len(pending) > 0 {
			final = append(final, s.mergeSplits(pending)...)
			pending = nil
		}
		if len(remaining) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, remaining)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, s.mergeSplits(pending)...)
	}
	return final
}

// mergeSplits packs small pieces into chunks up to chunkSize, carrying
// the configured overlap from the tail of each chunk into the next
func (s *Splitter) mergeSplits(splits []string) []string {
	var chunks []string
	var current []string
	total := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		if chunk := strings.TrimSpace(strings.Join(current, "")); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, piece := range splits {
		size := utf8.RuneCountInString(piece)
		if total+size > s.chunkSize && len(current) > 0 {
			flush()
			// drop from the front until the retained tail fits the overlap
			for len(current) > 0 && (total > s.overlap || (total+size > s.chunkSize && total > 0)) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += size
	}
	flush()
	return chunks
}

// splitKeepingSeparator splits text on sep, attaching the separator to the
// piece that follows it. An empty separator splits into single runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		runes := []rune(text)
		out := make([]string, 0, len(runes))
		for _, r := range runes {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk is a slice of the source text sent to the model in one request.
type Chunk struct {
	Index  int
	Offset int // byte offset into the source text
	Text   string
}

var sentenceEnds = []string{"\n", ". ", "! ", "? "}

// Split cuts text into chunks of at most maxRunes runes, preferring
// sentence ends, then whitespace, then a hard cut. Whitespace-only
// chunks are dropped; offsets always point into text.
func Split(text string, maxRunes int) []Chunk {
	if maxRunes <= 0 {
		maxRunes = DefaultMaxCharBuffer
	}
	var chunks []Chunk
	for offset := 0; offset < len(text); {
		rest := text[offset:]
		end := cutPoint(rest, maxRunes)
		if piece := rest[:end]; strings.TrimSpace(piece) != "" {
			chunks = append(chunks, Chunk{Index: len(chunks), Offset: offset, Text: piece})
		}
		offset += end
	}
	return chunks
}

func cutPoint(s string, maxRunes int) int {
	limit, n := len(s), 0
	for i := range s {
		if n == maxRunes {
			limit = i
			break
		}
		n++
	}
	if limit == len(s) {
		return limit
	}

	window := s[:limit]
	best := -1
	for _, sep := range sentenceEnds {
		if i := strings.LastIndex(window, sep); i >= 0 && i+len(sep) > best {
			best = i + len(sep)
		}
	}
	if best > 0 {
		return best
	}
	if i := strings.LastIndexFunc(window, unicode.IsSpace); i > 0 {
		_, size := utf8.DecodeRuneInString(window[i:])
		return i + size
	}
	return limit
}

package extract

import (
	"strings"
	"unicode/utf8"
)

// Align locates each extraction's text in chunk and sets its interval,
// shifted by the chunk offset. An exact match is tried first, then a
// case-insensitive one. Unmatched extractions keep a nil interval.
// Repeated texts bind to successive occurrences.
func Align(chunk Chunk, exts []Extraction) []Extraction {
	next := make(map[string]int)
	for i := range exts {
		from := next[exts[i].Text]
		start := indexFrom(chunk.Text, exts[i].Text, from)
		if start < 0 {
			start = indexFoldFrom(chunk.Text, exts[i].Text, from)
		}
		if start < 0 && from > 0 {
			start = indexFrom(chunk.Text, exts[i].Text, 0)
		}
		if start < 0 {
			exts[i].Interval = nil
			continue
		}
		end := start + len(exts[i].Text)
		next[exts[i].Text] = end
		exts[i].Interval = &CharInterval{Start: chunk.Offset + start, End: chunk.Offset + end}
	}
	return exts
}

func indexFrom(s, sub string, from int) int {
	if from > len(s) {
		return -1
	}
	i := strings.Index(s[from:], sub)
	if i < 0 {
		return -1
	}
	return from + i
}

func indexFoldFrom(s, sub string, from int) int {
	n := len(sub)
	for i := from; i+n <= len(s); {
		if strings.EqualFold(s[i:i+n], sub) {
			return i
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1
}

// Merge folds the extractions of a later pass into kept. Aligned
// extractions are added when they overlap nothing kept from earlier
// passes; unaligned ones when no earlier extraction has the same class
// and text. Extractions from the same pass never displace each other.
func Merge(kept, later []Extraction) []Extraction {
	earlier := kept[:len(kept):len(kept)]
	for _, e := range later {
		if e.Interval == nil {
			if !containsSame(earlier, e) {
				kept = append(kept, e)
			}
			continue
		}
		if !overlapsAny(earlier, *e.Interval) {
			kept = append(kept, e)
		}
	}
	return kept
}

func overlapsAny(exts []Extraction, iv CharInterval) bool {
	for _, k := range exts {
		if k.Interval != nil && k.Interval.Overlaps(iv) {
			return true
		}
	}
	return false
}

func containsSame(exts []Extraction, e Extraction) bool {
	for _, k := range exts {
		if k.Class == e.Class && k.Text == e.Text {
			return true
		}
	}
	return false
}

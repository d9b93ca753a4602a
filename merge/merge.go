// Package merge reassembles translated chunks into a complete subtitle
// file, discarding the context-only window positions and verifying that
// every entry received a translation.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/transsrt/transsrt/chunker"
	"github.com/transsrt/transsrt/srtfile"
	"github.com/transsrt/transsrt/translate"
)

// IncompleteError reports entries left untranslated after all results
// were applied.
type IncompleteError struct {
	// Missing holds the subtitle indices (Entry.Index) that never
	// received a translation, in ascending order.
	Missing []int
}

func (e *IncompleteError) Error() string {
	if len(e.Missing) == 1 {
		return fmt.Sprintf("entry %d was not translated", e.Missing[0])
	}
	return fmt.Sprintf("%d entries were not translated (first: %d)", len(e.Missing), e.Missing[0])
}

// Assemble merges the chunk results back onto the original entries.
// Overlapping window positions are resolved in favour of the chunk that
// holds the entry in its core range, so each entry has exactly one
// owner. Timing and numbering are taken verbatim from the originals;
// only the text is replaced. Results may arrive in any order.
func Assemble(entries []srtfile.Entry, chunks []chunker.Chunk, results []translate.Result) ([]srtfile.Entry, error) {
	byChunk := make(map[int]translate.Result, len(results))
	for _, res := range results {
		byChunk[res.Chunk] = res
	}

	texts := make([]string, len(entries))
	filled := make([]bool, len(entries))

	for _, c := range chunks {
		res, ok := byChunk[c.Index]
		if !ok {
			continue
		}
		if len(res.Texts) != len(c.Entries) {
			return nil, fmt.Errorf("chunk %d: %d translations for %d entries", c.Index, len(res.Texts), len(c.Entries))
		}
		for i := range c.Entries {
			pos := c.WindowStart + i
			if pos < c.CoreStart || pos >= c.CoreEnd {
				// Context-only position; owned by a neighbouring chunk.
				continue
			}
			texts[pos] = res.Texts[i]
			filled[pos] = true
		}
	}

	var missing []int
	for i, ok := range filled {
		if !ok {
			missing = append(missing, entries[i].Index)
		}
	}
	if len(missing) > 0 {
		sort.Ints(missing)
		return nil, &IncompleteError{Missing: missing}
	}

	out := make([]srtfile.Entry, len(entries))
	for i, e := range entries {
		out[i] = srtfile.Entry{
			Index: e.Index,
			Start: e.Start,
			End:   e.End,
			Lines: splitTranslated(texts[i]),
		}
	}
	return out, nil
}

// splitTranslated restores intra-entry line breaks. Backends sometimes
// return the two-character sequence `\n` instead of a real newline.
func splitTranslated(text string) []string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

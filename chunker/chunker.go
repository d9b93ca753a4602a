// Package chunker splits an ordered subtitle entry list into
// overlapping batches sized for a translation backend. Each chunk owns
// an authoritative core range; neighbouring entries are borrowed into
// the context window purely so the backend sees surrounding dialogue.
package chunker

import (
	"fmt"

	"github.com/transsrt/transsrt/srtfile"
)

// Chunk is a contiguous, context-padded group of entries sent to the
// backend in one request. Immutable once built.
type Chunk struct {
	// Entries is the full context window, a contiguous slice of the
	// original entry list.
	Entries []srtfile.Entry
	// CoreStart and CoreEnd bound the half-open range of absolute
	// positions (into the full entry list) whose translations are
	// authoritative output for this chunk.
	CoreStart int
	CoreEnd   int
	// WindowStart is the absolute position of Entries[0].
	WindowStart int
	// Index and Total are 1-based chunk numbering for prompts and logs.
	Index int
	Total int
}

// ContextBefore returns the leading context entries borrowed from the
// previous chunk's core range.
func (c Chunk) ContextBefore() []srtfile.Entry {
	return c.Entries[:c.CoreStart-c.WindowStart]
}

// ContextAfter returns the trailing context entries borrowed from the
// next chunk's core range.
func (c Chunk) ContextAfter() []srtfile.Entry {
	return c.Entries[c.CoreEnd-c.WindowStart:]
}

// Core returns the entries this chunk is authoritative for.
func (c Chunk) Core() []srtfile.Entry {
	return c.Entries[c.CoreStart-c.WindowStart : c.CoreEnd-c.WindowStart]
}

// Split divides entries into chunks with core ranges
// [i*size, min((i+1)*size, len)) and context windows extended by up to
// overlap entries on each side, clipped at the sequence boundaries.
// Fewer than size entries yield exactly one chunk with no overlap.
// Deterministic: identical input and parameters give identical chunks.
func Split(entries []srtfile.Entry, size, overlap int) ([]Chunk, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("chunk: no entries to split")
	}
	if size < 1 {
		return nil, fmt.Errorf("chunk: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk: overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d", overlap, size)
	}

	n := len(entries)
	total := (n + size - 1) / size

	chunks := make([]Chunk, 0, total)
	for i := 0; i < total; i++ {
		coreStart := i * size
		coreEnd := coreStart + size
		if coreEnd > n {
			coreEnd = n
		}

		windowStart := coreStart - overlap
		if windowStart < 0 {
			windowStart = 0
		}
		windowEnd := coreEnd + overlap
		if windowEnd > n {
			windowEnd = n
		}

		chunks = append(chunks, Chunk{
			Entries:     entries[windowStart:windowEnd],
			CoreStart:   coreStart,
			CoreEnd:     coreEnd,
			WindowStart: windowStart,
			Index:       i + 1,
			Total:       total,
		})
	}
	return chunks, nil
}

// Package srtfile implements reading and writing of SRT subtitle files.
//
// Two input dialects are accepted: the standard multi-line layout
// (index line, time-range line, one or more text lines, blank
// separator) and a degenerate single-line layout where index, time
// range and text share one physical line. The dialect is detected once
// per file and the matching line-level parser is used; output is always
// the standard layout with LF line endings.
package srtfile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Entry represents a single subtitle entry.
type Entry struct {
	// Index is the original ordinal position. Positive and unique
	// within a file, but not necessarily contiguous in malformed input.
	Index int
	// Start and End bound the display time range. Never modified after
	// parsing; translation replaces Lines only.
	Start Timestamp
	End   Timestamp
	// Lines is the subtitle text, one element per displayed line.
	// Never empty after a successful parse.
	Lines []string
}

// Text returns the entry text with lines joined by "\n".
func (e Entry) Text() string {
	return strings.Join(e.Lines, "\n")
}

// ParseError reports input that cannot be decomposed into entries.
type ParseError struct {
	// Line is the 1-based input line number, 0 when not line-specific.
	Line int
	// Fragment is the offending input fragment, truncated for display.
	Fragment string
	Msg      string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse subtitle: line %d: %s: %q", e.Line, e.Msg, e.Fragment)
	}
	return "parse subtitle: " + e.Msg
}

// Dialect identifies one of the accepted input layouts.
type Dialect int

const (
	// DialectStandard is the regular SRT layout with blank-line separators.
	DialectStandard Dialect = iota
	// DialectSingleLine packs index, time range and text onto one line.
	DialectSingleLine
)

func (d Dialect) String() string {
	if d == DialectSingleLine {
		return "single-line"
	}
	return "standard"
}

const timePattern = `\d{1,2}:\d{2}:\d{2}[,.]\d{3}`

var (
	timeRangeRe  = regexp.MustCompile(`^(` + timePattern + `)\s*-->\s*(` + timePattern + `)$`)
	singleLineRe = regexp.MustCompile(`^(\d+)\s+(` + timePattern + `)\s*-->\s*(` + timePattern + `)\s+(\S.*)$`)
	indexRe      = regexp.MustCompile(`^\d+$`)
)

// DetectDialect classifies raw content into one of the accepted
// dialects. Standard files keep the index and time range on separate
// lines, so any line carrying both marks the single-line dialect.
func DetectDialect(content string) Dialect {
	for _, line := range splitLines(content) {
		if singleLineRe.MatchString(strings.TrimSpace(line)) {
			return DialectSingleLine
		}
	}
	return DialectStandard
}

// Parse decomposes raw subtitle text into an ordered list of entries.
// It tolerates extraneous blank lines, trailing whitespace, CRLF line
// endings and a UTF-8 BOM. Entries whose text is empty are skipped.
// The returned error is always a *ParseError.
func Parse(content string) ([]Entry, error) {
	lines := splitLines(content)
	if strings.TrimSpace(strings.Join(lines, "")) == "" {
		return nil, &ParseError{Msg: "subtitle content is empty"}
	}

	var (
		entries []Entry
		err     error
	)
	if DetectDialect(content) == DialectSingleLine {
		entries, err = parseSingleLine(lines)
	} else {
		entries, err = parseStandard(lines)
	}
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &ParseError{Msg: "no subtitle entries found"}
	}
	return entries, nil
}

// Format serializes entries into standard SRT text: index line, time
// range line, text lines, blank separator. LF endings, trailing newline.
func Format(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n", e.Index, e.Start, e.End)
		for _, line := range e.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Standard dialect
// ---------------------------------------------------------------------------

type standardState int

const (
	wantIndex standardState = iota
	wantTime
	inText
)

func parseStandard(lines []string) ([]Entry, error) {
	var (
		entries []Entry
		cur     Entry
		text    []string
		state   standardState
	)

	flush := func() {
		if len(text) > 0 {
			cur.Lines = text
			entries = append(entries, cur)
		}
		text = nil
	}

	for i, raw := range lines {
		line := strings.TrimRight(raw, " \t")
		trimmed := strings.TrimSpace(line)

		switch state {
		case wantIndex:
			if trimmed == "" {
				continue
			}
			if !indexRe.MatchString(trimmed) {
				return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "expected entry index"}
			}
			idx, convErr := strconv.Atoi(trimmed)
			if convErr != nil || idx < 1 {
				return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "entry index must be a positive integer"}
			}
			cur = Entry{Index: idx}
			state = wantTime

		case wantTime:
			if trimmed == "" {
				continue
			}
			m := timeRangeRe.FindStringSubmatch(trimmed)
			if m == nil {
				return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "malformed time range"}
			}
			start, startErr := ParseTimestamp(m[1])
			end, endErr := ParseTimestamp(m[2])
			if startErr != nil || endErr != nil {
				return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "malformed time range"}
			}
			cur.Start, cur.End = start, end
			state = inText

		case inText:
			if trimmed == "" {
				flush()
				state = wantIndex
				continue
			}
			// Missing blank separator: a bare index followed by a time
			// range starts the next entry.
			if len(text) > 0 && indexRe.MatchString(trimmed) && nextLineIsTimeRange(lines, i) {
				flush()
				idx, convErr := strconv.Atoi(trimmed)
				if convErr != nil || idx < 1 {
					return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "entry index must be a positive integer"}
				}
				cur = Entry{Index: idx}
				state = wantTime
				continue
			}
			text = append(text, line)
		}
	}

	if state == inText {
		flush()
	}
	return entries, nil
}

func nextLineIsTimeRange(lines []string, i int) bool {
	for j := i + 1; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" {
			continue
		}
		return timeRangeRe.MatchString(trimmed)
	}
	return false
}

// ---------------------------------------------------------------------------
// Single-line dialect
// ---------------------------------------------------------------------------

func parseSingleLine(lines []string) ([]Entry, error) {
	var entries []Entry
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		m := singleLineRe.FindStringSubmatch(trimmed)
		if m == nil {
			// A line without its own index+time range continues the
			// previous entry's text.
			if len(entries) == 0 {
				return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "expected index and time range"}
			}
			last := &entries[len(entries)-1]
			last.Lines = append(last.Lines, trimmed)
			continue
		}

		idx, convErr := strconv.Atoi(m[1])
		if convErr != nil || idx < 1 {
			return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "entry index must be a positive integer"}
		}
		start, startErr := ParseTimestamp(m[2])
		end, endErr := ParseTimestamp(m[3])
		if startErr != nil || endErr != nil {
			return nil, &ParseError{Line: i + 1, Fragment: truncateFragment(trimmed), Msg: "malformed time range"}
		}
		entries = append(entries, Entry{
			Index: idx,
			Start: start,
			End:   end,
			Lines: []string{strings.TrimSpace(m[4])},
		})
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func splitLines(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	return strings.Split(content, "\n")
}

func truncateFragment(s string) string {
	const maxLen = 60
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Package sbvfile implements reading of YouTube SBV (SubViewer)
// subtitle files and their conversion to SRT entries. SBV is accepted
// on the input side only; serialized output is always SRT.
package sbvfile

import (
	"regexp"
	"strings"

	"github.com/transsrt/transsrt/srtfile"
)

// Entry is a single SBV cue. SBV carries no explicit index; indices are
// assigned during conversion to SRT.
type Entry struct {
	Start srtfile.Timestamp
	End   srtfile.Timestamp
	Lines []string
}

// SBV timestamp lines look like "0:01:30.400,0:01:34.050".
var timestampLineRe = regexp.MustCompile(`^(\d{1,2}:\d{2}:\d{2}\.\d{3}),(\d{1,2}:\d{2}:\d{2}\.\d{3})$`)

// Detect reports whether content looks like an SBV file.
func Detect(content string) bool {
	for _, line := range strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n") {
		if timestampLineRe.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

// Parse decomposes raw SBV text into cues. Cues with empty text are
// skipped. The returned error is always a *srtfile.ParseError.
func Parse(content string) ([]Entry, error) {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if strings.TrimSpace(content) == "" {
		return nil, &srtfile.ParseError{Msg: "SBV content is empty"}
	}

	var (
		entries []Entry
		cur     *Entry
	)
	flush := func() {
		if cur != nil && len(cur.Lines) > 0 {
			entries = append(entries, *cur)
		}
		cur = nil
	}

	for i, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)

		if m := timestampLineRe.FindStringSubmatch(line); m != nil {
			flush()
			start, startErr := srtfile.ParseTimestamp(m[1])
			end, endErr := srtfile.ParseTimestamp(m[2])
			if startErr != nil || endErr != nil {
				return nil, &srtfile.ParseError{Line: i + 1, Fragment: line, Msg: "malformed SBV timestamp"}
			}
			cur = &Entry{Start: start, End: end}
			continue
		}

		if line == "" {
			continue
		}
		if cur == nil {
			// Text before any timestamp line; SBV has no header, so
			// this is malformed input.
			return nil, &srtfile.ParseError{Line: i + 1, Fragment: line, Msg: "expected SBV timestamp line"}
		}
		cur.Lines = append(cur.Lines, line)
	}
	flush()

	if len(entries) == 0 {
		return nil, &srtfile.ParseError{Msg: "no SBV entries found"}
	}
	return entries, nil
}

// ToSRT converts SBV cues to SRT entries with 1-based sequential indices.
func ToSRT(entries []Entry) []srtfile.Entry {
	out := make([]srtfile.Entry, 0, len(entries))
	for i, e := range entries {
		out = append(out, srtfile.Entry{
			Index: i + 1,
			Start: e.Start,
			End:   e.End,
			Lines: e.Lines,
		})
	}
	return out
}

package sbvfile

import (
	"errors"
	"testing"

	"github.com/transsrt/transsrt/srtfile"
)

const sbvInput = `0:00:01.000,0:00:03.400
안녕하세요
반갑습니다

0:01:30.400,0:01:34.050
오늘의 카드를 보겠습니다
`

func TestParseAndConvert(t *testing.T) {
	if !Detect(sbvInput) {
		t.Fatal("Detect = false, want true")
	}

	entries, err := Parse(sbvInput)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries len = %d, want 2", len(entries))
	}
	if len(entries[0].Lines) != 2 {
		t.Fatalf("first cue lines = %q", entries[0].Lines)
	}

	srt := ToSRT(entries)
	if srt[0].Index != 1 || srt[1].Index != 2 {
		t.Fatalf("indices = %d, %d", srt[0].Index, srt[1].Index)
	}
	if got := srt[1].Start.String(); got != "00:01:30,400" {
		t.Fatalf("converted start = %q", got)
	}

	// Converted cues must serialize as a valid SRT file.
	out := srtfile.Format(srt)
	round, err := srtfile.Parse(out)
	if err != nil {
		t.Fatalf("round-trip Parse error: %v", err)
	}
	if len(round) != 2 || round[1].Text() != "오늘의 카드를 보겠습니다" {
		t.Fatalf("round-trip = %+v", round)
	}
}

func TestParseSkipsEmptyCues(t *testing.T) {
	input := "0:00:01.000,0:00:02.000\n\n0:00:03.000,0:00:04.000\nkept\n"
	entries, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(entries) != 1 || entries[0].Lines[0] != "kept" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"empty", "   \n\n"},
		{"text before timestamp", "hello\n0:00:01.000,0:00:02.000\ntext\n"},
		{"only empty cues", "0:00:01.000,0:00:02.000\n\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			if err == nil {
				t.Fatal("Parse succeeded, want error")
			}
			var perr *srtfile.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error type = %T, want *srtfile.ParseError", err)
			}
		})
	}
}

func TestDetectRejectsSRT(t *testing.T) {
	srt := "1\n00:00:01,000 --> 00:00:02,000\ntext\n"
	if Detect(srt) {
		t.Fatal("Detect = true for SRT input")
	}
}

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/transsrt/transsrt/config"
	"github.com/transsrt/transsrt/translate"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDefaultOutputPath(t *testing.T) {
	tests := map[string]string{
		"episode01.srt":      "episode01.en.srt",
		"clips/ep.sbv":       "clips/ep.en.srt",
		"noext":              "noext.en.srt",
		"dir.v2/episode.srt": "dir.v2/episode.en.srt",
	}
	for input, want := range tests {
		if got := defaultOutputPath(input); got != want {
			t.Fatalf("defaultOutputPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestResolveProvider(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	prov := resolveProvider("google", "", "key1", "gemini-1.5-pro", "", 0)
	if prov.ID != translate.ProviderGoogle {
		t.Fatalf("ID = %q, want google", prov.ID)
	}
	if prov.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Fatalf("BaseURL = %q", prov.BaseURL)
	}
	if prov.APIKey != "key1" || prov.Model != "gemini-1.5-pro" {
		t.Fatalf("APIKey/Model = %q/%q", prov.APIKey, prov.Model)
	}

	prov = resolveProvider("ollama", "http://box:11434", "", "llama3.2", "", 30*time.Second)
	if prov.BaseURL != "http://box:11434" {
		t.Fatalf("base URL override ignored: %q", prov.BaseURL)
	}
	if prov.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %s, want 30s", prov.Timeout)
	}

	// Unknown name falls back to a custom OpenAI endpoint.
	prov = resolveProvider("https://llm.example.com/v1", "", "", "gpt-4o", "", 0)
	if prov.ID != translate.ProviderCustomOpenAI {
		t.Fatalf("ID = %q, want custom-openai", prov.ID)
	}
	if prov.BaseURL != "https://llm.example.com/v1" {
		t.Fatalf("BaseURL = %q", prov.BaseURL)
	}
}

func TestValidateProvider(t *testing.T) {
	prov := resolveProvider("google", "", "key", "", "", 0)
	if err := validateProvider(prov, "key"); err == nil || !strings.Contains(err.Error(), "--model") {
		t.Fatalf("missing model not rejected: %v", err)
	}

	prov = resolveProvider("google", "", "", "gemini-1.5-flash", "", 0)
	if err := validateProvider(prov, ""); err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("missing API key not rejected: %v", err)
	}

	prov = resolveProvider("ollama", "", "", "llama3.2", "", 0)
	if err := validateProvider(prov, ""); err != nil {
		t.Fatalf("ollama needs no key, got: %v", err)
	}

	prov = translate.Provider{ID: translate.ProviderCustomOpenAI, Model: "gpt-4o"}
	if err := validateProvider(prov, ""); err == nil || !strings.Contains(err.Error(), "endpoint URL") {
		t.Fatalf("missing endpoint not rejected: %v", err)
	}
}

func TestOverlayFlags(t *testing.T) {
	cfg := config.Default()

	got := overlayFlags(cfg, translateArgs{
		provider:        "groq",
		model:           "llama-3.3-70b-versatile",
		chunkSize:       25,
		overlap:         0,
		overlapSet:      true,
		maxConcurrent:   4,
		pipelineTimeout: time.Hour,
	})

	if got.Provider != "groq" || got.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("Provider/Model = %q/%q", got.Provider, got.Model)
	}
	if got.ChunkSize != 25 || got.Overlap != 0 || got.MaxConcurrent != 4 {
		t.Fatalf("ChunkSize/Overlap/MaxConcurrent = %d/%d/%d", got.ChunkSize, got.Overlap, got.MaxConcurrent)
	}
	if got.PipelineTimeout.Std() != time.Hour {
		t.Fatalf("PipelineTimeout = %s", got.PipelineTimeout)
	}
	// Untouched fields keep their config values.
	if got.MaxAttempts != 3 || got.RequestTimeout.Std() != 120*time.Second {
		t.Fatalf("MaxAttempts/RequestTimeout = %d/%s", got.MaxAttempts, got.RequestTimeout)
	}

	// An overlap flag that was never set leaves the config alone.
	got = overlayFlags(cfg, translateArgs{overlap: 0, overlapSet: false})
	if got.Overlap != 3 {
		t.Fatalf("Overlap = %d, want 3", got.Overlap)
	}

	// Prompt flag displaces a configured prompt file, and vice versa.
	cfg.PromptFile = "prompt.txt"
	got = overlayFlags(cfg, translateArgs{prompt: "inline"})
	if got.Prompt != "inline" || got.PromptFile != "" {
		t.Fatalf("Prompt/PromptFile = %q/%q", got.Prompt, got.PromptFile)
	}
}

func TestReadSubtitleFileConvertsSBV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.sbv")
	sbv := "0:00:01.000,0:00:03.000\n안녕하세요\n\n0:00:04.000,0:00:06.000\n반갑습니다\n"
	if err := os.WriteFile(path, []byte(sbv), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := readSubtitleFile(path)
	if err != nil {
		t.Fatalf("readSubtitleFile error: %v", err)
	}
	if !strings.Contains(raw, "-->") || !strings.HasPrefix(raw, "1\n") {
		t.Fatalf("SBV not converted to SRT:\n%s", raw)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(filePath, []byte("ok"), 0644); err != nil {
		t.Fatalf("os.WriteFile() error: %v", err)
	}

	if !fileExists(filePath) {
		t.Fatalf("fileExists(file) = false, want true")
	}
	if fileExists(dir) {
		t.Fatalf("fileExists(directory) = true, want false")
	}
	if fileExists(filepath.Join(dir, "missing.txt")) {
		t.Fatalf("fileExists(missing) = true, want false")
	}
}

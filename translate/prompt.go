package translate

import (
	"fmt"
	"os"
	"strings"

	"github.com/transsrt/transsrt/chunker"
)

// DefaultSystemPrompt is the built-in Korean-to-English subtitle
// translation prompt.
const DefaultSystemPrompt = `You are a professional Korean-to-English subtitle translator.

Translate Korean subtitles into natural English suitable for video viewers.

Guidelines:
- Use a polite, natural register with complete sentences
- Translate for fluency in English, not word-for-word
- Keep domain terminology consistent across the whole file
- Keep translations concise for subtitle display (aim for 2 lines max per entry)
- Preserve line breaks from the original Korean text using \n
- Keep proper nouns and personal names recognizable

TECHNICAL REQUIREMENTS:
- Return ONLY a JSON array of translated strings, one for each numbered entry, in the same order.
- The array must contain exactly as many strings as there are numbered entries.
- Use \n inside a string for line breaks within one subtitle.
- Return ONLY the JSON array, no explanations or markdown code blocks.`

// LoadPromptFromFile reads a system prompt override from path. An empty
// path or a missing file keeps the built-in prompt.
func LoadPromptFromFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading prompt file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildUserPrompt lists the chunk's source texts in order with stable
// positional markers. All window entries are numbered and translated;
// the reassembler later discards the context-only positions.
func buildUserPrompt(c chunker.Chunk) string {
	var b strings.Builder

	fmt.Fprintf(&b, "This is chunk %d/%d of a Korean subtitle file.\n", c.Index, c.Total)
	if len(c.ContextBefore()) > 0 || len(c.ContextAfter()) > 0 {
		b.WriteString("The entries are consecutive dialogue; some at the edges are surrounding context repeated from neighbouring chunks. Translate every entry.\n")
	}
	b.WriteString("\nKorean subtitles to translate:\n\n")

	for i, e := range c.Entries {
		fmt.Fprintf(&b, "%d. %s\n", i+1, escapeForPrompt(e.Text()))
	}

	fmt.Fprintf(&b, "\nReturn a JSON array with exactly %d translated strings, in the same order.", len(c.Entries))
	return b.String()
}

// escapeForPrompt keeps one numbered entry on one physical line.
func escapeForPrompt(s string) string {
	return strings.ReplaceAll(s, "\n", "\\n")
}

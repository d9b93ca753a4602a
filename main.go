// transsrt — Korean-to-English SRT subtitle translator using AI providers.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/transsrt/transsrt/chunker"
	"github.com/transsrt/transsrt/config"
	"github.com/transsrt/transsrt/i18n"
	"github.com/transsrt/transsrt/merge"
	"github.com/transsrt/transsrt/pipeline"
	"github.com/transsrt/transsrt/sbvfile"
	"github.com/transsrt/transsrt/settings"
	"github.com/transsrt/transsrt/srtfile"
	"github.com/transsrt/transsrt/translate"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "transsrt",
		Short: "Korean-to-English SRT subtitle translator using AI",
		Long: `transsrt — Korean-to-English SRT subtitle translator.

Parses SRT files (standard and single-line dialects, SBV convertible on
the fly), splits them into chunks with contextual overlap, translates the
chunks concurrently through an AI provider, and reassembles a complete
English subtitle file. A run either produces the whole file or fails;
timing and numbering are never touched.

Commands:
  translate   Translate a subtitle file from Korean to English
  convert     Convert an SBV subtitle file to SRT
  info        Show subtitle file details without translating
  auth        Manage provider API keys

AI Providers:
  google         Google AI (Gemini) — API key
  groq           Groq — API key required
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Directory holding .transsrt.yaml and .env")

	root.AddCommand(
		newTranslateCmd(),
		newConvertCmd(),
		newInfoCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")
	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		printErrorHint(err)
		os.Exit(1)
	}
}

// printErrorHint adds a follow-up suggestion for well-known failures.
func printErrorHint(err error) {
	var mismatch *translate.MismatchError
	var rateErr *translate.RateLimitError
	var incomplete *merge.IncompleteError

	switch {
	case errors.As(err, &mismatch):
		logWarning("The model returned a malformed reply. A smaller --chunk-size often helps.")
	case errors.As(err, &rateErr):
		logWarning("Provider rate limit not resolved within the retry budget. Lower --max-concurrent or raise --max-attempts.")
	case errors.As(err, &incomplete):
		logWarning("No partial output was written; re-run to translate the file again.")
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("transsrt version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// translate (the main pipeline)
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var (
		// Output
		output string

		// Provider selection
		provider string
		apiKey   string
		model    string
		baseURL  string

		// Translation behavior
		chunkSize  int
		overlap    int
		prompt     string
		promptFile string
		verbose    bool

		// Parallelization
		maxConcurrent int

		// Network
		timeout         time.Duration
		pipelineTimeout time.Duration
		proxy           string
		maxAttempts     int
	)

	cmd := &cobra.Command{
		Use:   "translate FILE",
		Short: "Translate a subtitle file from Korean to English",
		Long: `Translate a Korean subtitle file into English.

The file is chunked (default 50 entries per request with 3 entries of
surrounding context), translated concurrently, and reassembled. SBV
input is converted to SRT on the fly.

Examples:
  # Translate using Google AI (API key)
  transsrt translate episode01.srt --provider google --model gemini-1.5-flash

  # Translate using a local Ollama server
  transsrt translate episode01.srt --provider ollama --model llama3.2

  # Custom chunking and output path
  transsrt translate episode01.srt --chunk-size 25 --overlap 2 -o out.srt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(translateArgs{
				input: args[0], output: output,
				provider: provider, apiKey: apiKey, model: model,
				baseURL: baseURL, proxy: proxy,
				chunkSize: chunkSize, overlap: overlap,
				overlapSet: cmd.Flags().Changed("overlap"),
				prompt:     prompt, promptFile: promptFile,
				verbose:       verbose,
				maxConcurrent: maxConcurrent, maxAttempts: maxAttempts,
				timeout: timeout, pipelineTimeout: pipelineTimeout,
			})
		},
	}

	// Output
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: INPUT.en.srt)")

	// Provider selection
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: google, groq, ollama, custom-openai")
	cmd.Flags().StringVar(&model, "model", "", "Model name")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key (or TRANSSRT_API_KEY / GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Custom API base URL")

	// Translation behavior
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Entries per API request (default from config: 50)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "Context entries on each side of a chunk (default from config: 3)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Custom system prompt")
	cmd.Flags().StringVar(&promptFile, "prompt-file", "", "File holding a custom system prompt")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable detailed logging")

	// Parallelization
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Maximum concurrent requests (default from config: 10)")

	// Network
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 = provider default)")
	cmd.Flags().DurationVar(&pipelineTimeout, "pipeline-timeout", 0, "Whole-run timeout (0 = none)")
	cmd.Flags().StringVar(&proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Retry budget per request, including the first try")

	// Provider completion
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"google\tGoogle AI (Gemini) — API key required",
			"groq\tGroq — API key required",
			"ollama\tOllama local server",
			"custom-openai\tCustom OpenAI-compatible endpoint",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	// Model completion (provider-aware)
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		switch p {
		case "google":
			return []string{"gemini-2.0-flash", "gemini-1.5-flash", "gemini-1.5-pro"}, cobra.ShellCompDirectiveNoFileComp
		case "groq":
			return []string{"llama-3.3-70b-versatile", "mixtral-8x7b-32768"}, cobra.ShellCompDirectiveNoFileComp
		case "ollama":
			return []string{"llama3.2", "qwen2.5", "mistral", "phi3"}, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	})

	return cmd
}

type translateArgs struct {
	input, output                    string
	provider, apiKey, model, baseURL string
	proxy                            string
	chunkSize, overlap               int
	overlapSet                       bool
	prompt, promptFile               string
	verbose                          bool
	maxConcurrent, maxAttempts       int
	timeout, pipelineTimeout         time.Duration
}

func runTranslate(a translateArgs) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}
	cfg = overlayFlags(cfg, a)
	if err := cfg.Validate(); err != nil {
		return err
	}

	systemPrompt, err := resolveSystemPrompt(cfg)
	if err != nil {
		return err
	}

	key := settings.ResolveAPIKey(cfg.Provider, a.apiKey)
	if key == "" {
		key = cfg.APIKey
	}
	prov := resolveProvider(cfg.Provider, cfg.BaseURL, key, cfg.Model, cfg.Proxy, cfg.RequestTimeout.Std())
	if err := validateProvider(prov, key); err != nil {
		return err
	}

	raw, err := readSubtitleFile(a.input)
	if err != nil {
		return err
	}

	logInfo(i18n.T("Translating %s"), a.input)

	client := translate.New(translate.Options{
		Provider:      prov,
		MaxConcurrent: cfg.MaxConcurrent,
		Policy:        translate.Policy{MaxAttempts: cfg.MaxAttempts},
		SystemPrompt:  systemPrompt,
		Verbose:       a.verbose,
		OnLog:         logInfo,
		OnProgress: func(done, total int) {
			fmt.Fprintf(os.Stderr, "\r  %s", progressBar(done*100/total, 30))
			if done == total {
				fmt.Fprintln(os.Stderr)
			}
		},
	})

	pipe := pipeline.New(client, pipeline.Options{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.Overlap,
		Timeout:   cfg.PipelineTimeout.Std(),
		OnLog: func(format string, args ...any) {
			if a.verbose {
				logInfo(format, args...)
			}
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	out, err := pipe.Translate(ctx, raw)
	if err != nil {
		return err
	}

	outPath := a.output
	if outPath == "" {
		outPath = defaultOutputPath(a.input)
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	entries, _ := srtfile.Parse(out)
	logSuccess(i18n.N("Translated %d entry", "Translated %d entries", len(entries))+" in %s", len(entries), time.Since(start).Round(time.Second))
	logSuccess(i18n.T("Wrote %s"), outPath)
	return nil
}

// overlayFlags layers non-zero command-line flags over the loaded config.
func overlayFlags(cfg config.Config, a translateArgs) config.Config {
	if a.provider != "" {
		cfg.Provider = a.provider
	}
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.proxy != "" {
		cfg.Proxy = a.proxy
	}
	if a.chunkSize > 0 {
		cfg.ChunkSize = a.chunkSize
	}
	if a.overlapSet {
		cfg.Overlap = a.overlap
	}
	if a.maxConcurrent > 0 {
		cfg.MaxConcurrent = a.maxConcurrent
	}
	if a.maxAttempts > 0 {
		cfg.MaxAttempts = a.maxAttempts
	}
	if a.timeout > 0 {
		cfg.RequestTimeout = config.Duration(a.timeout)
	}
	if a.pipelineTimeout > 0 {
		cfg.PipelineTimeout = config.Duration(a.pipelineTimeout)
	}
	if a.prompt != "" {
		cfg.Prompt = a.prompt
		cfg.PromptFile = ""
	}
	if a.promptFile != "" {
		cfg.PromptFile = a.promptFile
		cfg.Prompt = ""
	}
	return cfg
}

func resolveSystemPrompt(cfg config.Config) (string, error) {
	if cfg.Prompt != "" {
		return cfg.Prompt, nil
	}
	return translate.LoadPromptFromFile(cfg.PromptFile)
}

// readSubtitleFile reads the input and converts SBV to SRT on the fly.
func readSubtitleFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	raw := string(data)

	if sbvfile.Detect(raw) {
		cues, err := sbvfile.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("parsing %s: %w", path, err)
		}
		logInfo("Detected SBV input, converting to SRT")
		return srtfile.Format(sbvfile.ToSRT(cues)), nil
	}
	return raw, nil
}

// defaultOutputPath derives the output name: episode01.srt -> episode01.en.srt.
func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	base := strings.TrimSuffix(input, ext)
	return base + ".en.srt"
}

// ---------------------------------------------------------------------------
// convert (SBV -> SRT, no translation)
// ---------------------------------------------------------------------------

func newConvertCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert an SBV subtitle file to SRT",
		Long: `Convert a YouTube SBV subtitle file to SRT without translating.

Empty cues are dropped; the remaining cues are renumbered sequentially.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading %s: %w", input, err)
			}

			cues, err := sbvfile.Parse(string(data))
			if err != nil {
				return err
			}

			outPath := output
			if outPath == "" {
				outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".srt"
			}
			if err := os.WriteFile(outPath, []byte(srtfile.Format(sbvfile.ToSRT(cues))), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}

			logSuccess(i18n.T("Converted %s to %s"), input, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: INPUT.srt)")
	return cmd
}

// ---------------------------------------------------------------------------
// info (read-only: file details, chunk preview)
// ---------------------------------------------------------------------------

func newInfoCmd() *cobra.Command {
	var (
		chunkSize int
		overlap   int
	)

	cmd := &cobra.Command{
		Use:   "info FILE",
		Short: "Show subtitle file details without translating",
		Long: `Show subtitle file details: dialect, entry count, running time,
and how the file would be chunked for translation. Does not modify any
files and never calls an AI provider.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if chunkSize > 0 {
				cfg.ChunkSize = chunkSize
			}
			if cmd.Flags().Changed("overlap") {
				cfg.Overlap = overlap
			}
			return runInfo(args[0], cfg)
		},
	}

	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Entries per API request (default from config: 50)")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "Context entries on each side of a chunk (default from config: 3)")
	return cmd
}

func runInfo(path string, cfg config.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	raw := string(data)

	var entries []srtfile.Entry
	format := "SRT"
	dialect := "standard"

	if sbvfile.Detect(raw) {
		cues, err := sbvfile.Parse(raw)
		if err != nil {
			return err
		}
		entries = sbvfile.ToSRT(cues)
		format = "SBV"
		dialect = "-"
	} else {
		entries, err = srtfile.Parse(raw)
		if err != nil {
			return err
		}
		dialect = srtfile.DetectDialect(raw).String()
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  format:       %s\n", format)
	fmt.Printf("  dialect:      %s\n", dialect)
	fmt.Printf("  entries:      %d\n", len(entries))
	if len(entries) > 0 {
		fmt.Printf("  first cue:    %s\n", entries[0].Start)
		fmt.Printf("  last cue:     %s\n", entries[len(entries)-1].End)
	}

	chunks, err := chunker.Split(entries, cfg.ChunkSize, cfg.Overlap)
	if err != nil {
		return err
	}
	fmt.Printf("  chunks:       %d (size %d, overlap %d)\n", len(chunks), cfg.ChunkSize, cfg.Overlap)
	for _, c := range chunks {
		fmt.Printf("    chunk %d/%d: entries %d-%d (+%d context before, +%d after)\n",
			c.Index, c.Total, c.CoreStart+1, c.CoreEnd, len(c.ContextBefore()), len(c.ContextAfter()))
	}
	return nil
}

// ---------------------------------------------------------------------------
// auth (API key management)
// ---------------------------------------------------------------------------

// allProviders drives auth prompts and shell completion.
var allProviders = []struct {
	id   string
	name string
	auth string // "api-key" or "none"
}{
	{"google", "Google AI (Gemini)", "api-key"},
	{"groq", "Groq", "api-key"},
	{"ollama", "Ollama local server", "none"},
	{"custom-openai", "Custom OpenAI-compatible endpoint", "api-key"},
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage stored API keys for AI providers.

Keys are stored in ` + settings.FilePath() + ` with 0600 permissions.`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a provider",
		Long: `Store an API key for an AI provider.

If --provider is not specified, you will be prompted to choose.

Providers:
  google        Paste your Google AI Studio API key
  groq          Paste your Groq API key
  custom-openai Paste your API key + endpoint URL`,
		Run: func(cmd *cobra.Command, args []string) {
			// If no provider specified, prompt user
			if provider == "" {
				fmt.Fprintln(os.Stderr, "")
				fmt.Fprintf(os.Stderr, "%sSelect provider to authenticate:%s\n\n", colorBlue, colorReset)
				displayIdx := 0
				for _, p := range allProviders {
					if p.auth == "none" {
						continue // Skip ollama — no auth needed
					}
					displayIdx++
					fmt.Fprintf(os.Stderr, "  %d. %s%-13s%s %s\n", displayIdx, colorYellow, p.id, colorReset, p.name)
				}
				fmt.Fprintln(os.Stderr)
				fmt.Fprintf(os.Stderr, "Enter choice (number or name): ")

				scanner := bufio.NewScanner(os.Stdin)
				if !scanner.Scan() {
					logError("No input received")
					os.Exit(1)
				}
				choice := strings.TrimSpace(scanner.Text())

				found := false
				displayIdx = 0
				for _, p := range allProviders {
					if p.auth == "none" {
						continue
					}
					displayIdx++
					if choice == fmt.Sprintf("%d", displayIdx) || choice == p.id {
						provider = p.id
						found = true
						break
					}
				}
				if !found {
					logError("Invalid choice. Use: transsrt auth login --provider PROVIDER")
					os.Exit(1)
				}
			}

			switch provider {
			case "google", "groq":
				authLoginAPIKey(provider)
			case "custom-openai":
				authLoginCustomOpenAI()
			default:
				logError("Unknown provider '%s'. Run 'transsrt auth login' for options.", provider)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to authenticate")
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		completions := make([]string, 0, len(allProviders))
		for _, p := range allProviders {
			if p.auth == "none" {
				continue
			}
			completions = append(completions, fmt.Sprintf("%s\t%s", p.id, p.name))
		}
		return completions, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func authLoginAPIKey(providerID string) {
	providerInfo := map[string]struct {
		name    string
		helpURL string
		example string
	}{
		"google": {
			name:    "Google AI Studio",
			helpURL: "https://aistudio.google.com/apikey",
			example: "transsrt translate FILE --provider google --model gemini-1.5-flash",
		},
		"groq": {
			name:    "Groq Cloud",
			helpURL: "https://console.groq.com/keys",
			example: "transsrt translate FILE --provider groq --model llama-3.3-70b-versatile",
		},
	}

	info := providerInfo[providerID]

	fmt.Fprintf(os.Stderr, "\n%s%s — API Key Setup%s\n", colorBlue, info.name, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)

	if info.helpURL != "" {
		fmt.Fprintf(os.Stderr, "  Get your API key from: %s%s%s\n\n", colorGreen, info.helpURL, colorReset)
	}

	// Check if already configured
	existing := settings.GetAPIKey(providerID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new key to replace, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key: ")
	}

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	key := strings.TrimSpace(scanner.Text())

	if key == "" {
		if existing != "" {
			logInfo("Keeping existing key")
			return
		}
		logError("No API key provided")
		os.Exit(1)
	}

	if err := settings.SetAPIKey(providerID, key); err != nil {
		logError("Failed to save API key: %v", err)
		os.Exit(1)
	}

	logSuccess(i18n.T("API key saved for %s"), info.name)
	fmt.Fprintf(os.Stderr, "\n  You can now use: %s\n\n", info.example)
}

func authLoginCustomOpenAI() {
	fmt.Fprintf(os.Stderr, "\n%sCustom OpenAI-Compatible Endpoint%s\n", colorBlue, colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)

	scanner := bufio.NewScanner(os.Stdin)

	// Base URL
	existing := settings.Get("custom-openai")
	if existing != nil && existing.BaseURL != "" {
		fmt.Fprintf(os.Stderr, "  Current endpoint: %s%s%s\n", colorYellow, existing.BaseURL, colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new endpoint URL, or press Enter to keep: ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter endpoint URL (e.g., https://api.example.com/v1): ")
	}

	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	baseURL := strings.TrimSpace(scanner.Text())

	if baseURL == "" && existing != nil && existing.BaseURL != "" {
		baseURL = existing.BaseURL
	}
	if baseURL == "" {
		logError("Endpoint URL is required")
		os.Exit(1)
	}

	// API key (optional for some endpoints)
	if existing != nil && existing.Key != "" {
		fmt.Fprintf(os.Stderr, "  Current key: %s%s%s\n", colorYellow, settings.MaskKey(existing.Key), colorReset)
		fmt.Fprintf(os.Stderr, "  Enter new API key, or press Enter to keep (leave empty for none): ")
	} else {
		fmt.Fprintf(os.Stderr, "  Enter API key (or press Enter if not required): ")
	}

	if !scanner.Scan() {
		logError("No input received")
		os.Exit(1)
	}
	apiKey := strings.TrimSpace(scanner.Text())

	if apiKey == "" && existing != nil {
		apiKey = existing.Key
	}

	if err := settings.SetAPIKeyWithBaseURL("custom-openai", apiKey, baseURL); err != nil {
		logError("Failed to save credentials: %v", err)
		os.Exit(1)
	}

	logSuccess("Custom OpenAI endpoint saved!")
	fmt.Fprintf(os.Stderr, "\n  You can now use: transsrt translate FILE --provider custom-openai --model MODEL_NAME\n\n")
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored API keys",
		Long: `Remove stored API keys for one or all providers.

If --provider is not specified, credentials for ALL providers are removed.

Examples:
  transsrt auth logout                      Remove all credentials
  transsrt auth logout --provider google    Remove only the Google API key`,
		Run: func(cmd *cobra.Command, args []string) {
			if provider != "" {
				switch provider {
				case "google", "groq", "custom-openai":
					if err := settings.Remove(provider); err != nil {
						logError("Failed to remove %s credentials: %v", provider, err)
						os.Exit(1)
					}
					logSuccess(i18n.T("API key removed for %s"), provider)
				default:
					logError("Unknown provider '%s'. Run 'transsrt auth list' to see providers.", provider)
					os.Exit(1)
				}
				return
			}

			if err := settings.RemoveAll(); err != nil {
				logError("Failed to remove credentials: %v", err)
				os.Exit(1)
			}
			logSuccess("All stored credentials removed")
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to logout (default: all)")
	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show stored credentials and status",
		Run: func(cmd *cobra.Command, args []string) {
			store := settings.Load()

			fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s\n", colorBlue, colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			if len(store) == 0 {
				fmt.Fprintf(os.Stderr, "\n  %s\n\n", i18n.T("No credentials stored."))
				return
			}

			for _, p := range allProviders {
				info := store[p.id]
				if info == nil {
					continue
				}
				fmt.Fprintf(os.Stderr, "\n  %s%-13s%s %s\n", colorYellow, p.id, colorReset, p.name)
				fmt.Fprintf(os.Stderr, "    key: %s\n", settings.MaskKey(info.Key))
				if info.BaseURL != "" {
					fmt.Fprintf(os.Stderr, "    endpoint: %s\n", info.BaseURL)
				}
			}
			fmt.Fprintf(os.Stderr, "\n  File: %s\n\n", settings.FilePath())
		},
	}
}

// ---------------------------------------------------------------------------
// Provider resolution
// ---------------------------------------------------------------------------

func resolveProvider(name, baseURL, apiKey, model, proxy string, timeout time.Duration) translate.Provider {
	defaults := translate.DefaultProviders()

	var prov translate.Provider

	if p, ok := defaults[strings.ToLower(name)]; ok {
		prov = p
	} else {
		prov = translate.Provider{
			ID:      translate.ProviderCustomOpenAI,
			Name:    name,
			BaseURL: name,
			Timeout: 60 * time.Second,
		}
	}

	if baseURL != "" {
		prov.BaseURL = baseURL
	} else if prov.ID == translate.ProviderCustomOpenAI && prov.BaseURL == "" {
		// Check credentials store for base URL
		if storedURL := settings.GetBaseURL(prov.ID); storedURL != "" {
			prov.BaseURL = storedURL
		}
	}
	if apiKey != "" {
		prov.APIKey = apiKey
	}
	if model != "" {
		prov.Model = model
	}
	if proxy != "" {
		prov.Proxy = proxy
	}
	if timeout > 0 {
		prov.Timeout = timeout
	}

	return prov
}

func validateProvider(prov translate.Provider, apiKey string) error {
	if prov.Model == "" {
		modelExamples := map[string]string{
			translate.ProviderGoogle:       "gemini-2.0-flash, gemini-1.5-flash, gemini-1.5-pro",
			translate.ProviderGroq:         "llama-3.3-70b-versatile, mixtral-8x7b-32768",
			translate.ProviderOllama:       "llama3.2, qwen2.5, mistral",
			translate.ProviderCustomOpenAI: "gpt-4o, gpt-4o-mini (depends on your endpoint)",
		}

		examples := modelExamples[prov.ID]
		if examples == "" {
			examples = "check provider documentation"
		}

		return fmt.Errorf("--model is required for provider '%s'\n\n"+
			"Example models for %s:\n  %s\n\n"+
			"Usage: --provider %s --model MODEL_NAME",
			prov.ID, prov.Name, examples, prov.ID)
	}

	switch prov.ID {
	case translate.ProviderGoogle, translate.ProviderGroq:
		if apiKey == "" {
			return fmt.Errorf("provider '%s' requires an API key\n\n"+
				"Option 1: Store an API key:\n"+
				"  transsrt auth login --provider %s\n\n"+
				"Option 2: Pass key directly:\n"+
				"  --api-key YOUR_KEY or export TRANSSRT_API_KEY=YOUR_KEY",
				prov.ID, prov.ID)
		}
	case translate.ProviderCustomOpenAI:
		if prov.BaseURL == "" {
			return fmt.Errorf("provider 'custom-openai' requires an endpoint URL\n\n"+
				"Option 1: Store one:\n"+
				"  transsrt auth login --provider custom-openai\n\n"+
				"Option 2: Pass it directly:\n"+
				"  --base-url https://api.example.com/v1")
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// progressBar renders an ANSI progress bar, colored by completion.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := percent * width / 100
	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 34:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + colorReset + fmt.Sprintf(" %3d%%", percent)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Package translate implements the AI translation client: prompt
// construction, HTTP dispatch to the configured provider, bounded
// concurrent chunk translation, retry with exponential backoff, and
// parsing of the backend's structured reply.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/transsrt/transsrt/chunker"
)

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// Options controls the translation behavior.
type Options struct {
	// Provider is the AI provider configuration.
	Provider Provider
	// MaxConcurrent is the maximum number of chunk requests in flight
	// system-wide. Default: 10.
	MaxConcurrent int
	// Timeout is the per-request timeout (overrides provider timeout if set).
	Timeout time.Duration
	// Policy is the retry policy for backend calls.
	Policy Policy
	// SystemPrompt overrides the built-in prompt when non-empty.
	SystemPrompt string
	// OnProgress is called after each chunk completes with the number
	// of finished and total chunks.
	OnProgress func(done, total int)
	// OnLog emits log messages during translation.
	OnLog func(format string, args ...any)
	// Verbose enables detailed logging.
	Verbose bool
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

func (o *Options) effectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	if o.Provider.Timeout > 0 {
		return o.Provider.Timeout
	}
	return 120 * time.Second
}

func (o *Options) effectiveMaxConcurrent() int {
	if o.MaxConcurrent > 0 {
		return o.MaxConcurrent
	}
	return 10
}

func (o *Options) resolvedPrompt() string {
	if o.SystemPrompt != "" {
		return o.SystemPrompt
	}
	return DefaultSystemPrompt
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// Result carries one chunk's translations back to the reassembler.
type Result struct {
	// Chunk is the 1-based index of the originating chunk.
	Chunk int
	// Texts aligns positionally with the chunk's full context window;
	// intra-entry line breaks are "\n"-joined.
	Texts []string
}

// ---------------------------------------------------------------------------
// Client
// ---------------------------------------------------------------------------

// Client translates chunks through the configured provider. Safe for
// concurrent use; TranslateAll bounds in-flight requests itself.
type Client struct {
	opts       Options
	httpClient *http.Client
	rl         *rateLimitState

	// sleep is swapped out in tests so retries do not wait for real.
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a translation client from the given options.
func New(opts Options) *Client {
	return &Client{
		opts:       opts,
		httpClient: makeHTTPClient(opts.Provider.Proxy, opts.effectiveTimeout()),
		rl:         &rateLimitState{},
		sleep:      sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// TranslateChunk sends one chunk to the backend and parses the reply.
// Transient failures are retried per the client's policy; a reply whose
// translation count disagrees with the chunk fails immediately with a
// *MismatchError.
func (c *Client) TranslateChunk(ctx context.Context, chunk chunker.Chunk) (Result, error) {
	userPrompt := buildUserPrompt(chunk)
	text, err := c.callWithRetry(ctx, c.opts.resolvedPrompt(), userPrompt, chunk.Index)
	if err != nil {
		return Result{}, err
	}

	texts, err := parseTranslations(text, chunk.Index, len(chunk.Entries))
	if err != nil {
		return Result{}, err
	}
	return Result{Chunk: chunk.Index, Texts: texts}, nil
}

// TranslateAll fans the chunks out over a bounded worker pool and joins
// before returning. The first failure cancels the remaining work and is
// returned; on success the results are ordered by chunk.
func (c *Client) TranslateAll(ctx context.Context, chunks []chunker.Chunk) ([]Result, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]Result, len(chunks))
	sem := make(chan struct{}, c.opts.effectiveMaxConcurrent())
	var wg sync.WaitGroup
	var firstErr error
	var errOnce sync.Once
	var done int64

	for i := range chunks {
		if ctx.Err() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)

		go func(i int) {
			defer func() {
				<-sem
				wg.Done()
			}()

			res, err := c.TranslateChunk(ctx, chunks[i])
			if err != nil {
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
			results[i] = res

			finished := atomic.AddInt64(&done, 1)
			if c.opts.OnProgress != nil {
				c.opts.OnProgress(int(finished), len(chunks))
			}
		}(i)
	}

	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ---------------------------------------------------------------------------
// Backend call with retry
// ---------------------------------------------------------------------------

func (c *Client) callWithRetry(ctx context.Context, systemPrompt, userPrompt string, chunkIndex int) (string, error) {
	endpoint, headers, body, err := buildRequest(c.opts.Provider, systemPrompt, userPrompt)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	policy := c.opts.Policy
	attempts := policy.attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		// Wait if globally paused (rate limit hit by another worker).
		if err := c.rl.waitIfPaused(ctx); err != nil {
			return "", err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if c.opts.Verbose {
			c.opts.log("chunk %d: %s attempt %d/%d: POST %s", chunkIndex, c.opts.Provider.Name, attempt, attempts, endpoint)
		}

		text, err := c.callOnce(ctx, endpoint, headers, body)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if attempt >= attempts || !policy.retryable(err) {
			return "", err
		}

		wait := policy.delay(attempt)
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) {
			if rateErr.RetryAfter > 0 {
				wait = policy.cap(rateErr.RetryAfter)
			}
			// Pause every worker, not just this one.
			c.rl.pause(wait)
			c.opts.log("chunk %d: rate limited, waiting %s before retry (attempt %d/%d)", chunkIndex, wait, attempt, attempts)
		} else if c.opts.Verbose {
			c.opts.log("chunk %d: transient failure, retrying in %s: %v", chunkIndex, wait, err)
		}

		if err := c.sleep(ctx, wait); err != nil {
			return "", err
		}
		if rateErr != nil {
			c.rl.unpause()
		}
	}

	return "", fmt.Errorf("exhausted all %d attempts: %w", attempts, lastErr)
}

// callOnce performs a single HTTP round trip and classifies failures
// into the typed error taxonomy.
func (c *Client) callOnce(ctx context.Context, endpoint string, headers map[string]string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", &RateLimitError{
			RetryAfter: retryDelayFrom(resp.Header, respBody),
			Body:       strings.TrimSpace(string(respBody)),
		}
	case resp.StatusCode != http.StatusOK:
		return "", &TransportError{
			Status: resp.StatusCode,
			Body:   truncate(strings.TrimSpace(string(respBody)), 500),
		}
	}

	return extractResponseText(respBody)
}

// ---------------------------------------------------------------------------
// Reply parsing
// ---------------------------------------------------------------------------

var markdownCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// parseTranslations decodes the backend reply as a JSON array of
// strings and validates the count against the request. Either failure
// is deterministic and reported as a *MismatchError (never retried).
func parseTranslations(content string, chunkIndex, expected int) ([]string, error) {
	content = strings.TrimSpace(content)

	// Strip markdown code blocks if present
	if m := markdownCodeBlock.FindStringSubmatch(content); len(m) > 1 {
		content = m[1]
	}

	// Extract the JSON array from any surrounding prose
	startIdx := strings.Index(content, "[")
	endIdx := strings.LastIndex(content, "]")
	if startIdx >= 0 && endIdx > startIdx {
		content = content[startIdx : endIdx+1]
	}

	var translations []string
	if err := json.Unmarshal([]byte(content), &translations); err != nil {
		return nil, &MismatchError{
			Chunk:    chunkIndex,
			Expected: expected,
			Reason:   fmt.Sprintf("not a JSON array of strings: %v (reply: %s)", err, truncate(content, 300)),
		}
	}

	if len(translations) != expected {
		return nil, &MismatchError{Chunk: chunkIndex, Expected: expected, Actual: len(translations)}
	}
	return translations, nil
}

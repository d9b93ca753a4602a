// Package pipeline coordinates the full translation run: parse,
// chunk, translate, reassemble. A run either produces a complete
// translated file or fails with the stage that broke; partial output
// is never returned.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/transsrt/transsrt/chunker"
	"github.com/transsrt/transsrt/merge"
	"github.com/transsrt/transsrt/srtfile"
	"github.com/transsrt/transsrt/translate"
)

// Stage identifies where in the run the pipeline currently is.
type Stage int

const (
	StageIdle Stage = iota
	StageParsing
	StageChunking
	StageTranslating
	StageReassembling
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageParsing:
		return "parsing"
	case StageChunking:
		return "chunking"
	case StageTranslating:
		return "translating"
	case StageReassembling:
		return "reassembling"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Error wraps a failure with the stage it occurred in.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Translator is the translation backend the pipeline fans chunks out
// to. *translate.Client implements it.
type Translator interface {
	TranslateAll(ctx context.Context, chunks []chunker.Chunk) ([]translate.Result, error)
}

// Options configures a pipeline run.
type Options struct {
	// ChunkSize is the number of core entries per chunk. Default: 50.
	ChunkSize int
	// Overlap is the number of context entries carried on each side of
	// a chunk. Zero disables overlap.
	Overlap int
	// Timeout bounds the whole run. Zero means no overall deadline.
	Timeout time.Duration
	// OnStage is called on every stage transition.
	OnStage func(Stage)
	// OnLog emits log messages during the run.
	OnLog func(format string, args ...any)
}

func (o *Options) effectiveChunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return 50
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// Pipeline runs raw subtitle text through the translation stages.
type Pipeline struct {
	client Translator
	opts   Options
	stage  Stage
}

// New constructs a pipeline over the given translation backend.
func New(client Translator, opts Options) *Pipeline {
	return &Pipeline{client: client, opts: opts, stage: StageIdle}
}

// Stage reports the stage the last (or current) run reached.
func (p *Pipeline) Stage() Stage {
	return p.stage
}

func (p *Pipeline) setStage(s Stage) {
	p.stage = s
	if p.opts.OnStage != nil {
		p.opts.OnStage(s)
	}
}

// Translate runs the full pipeline over raw SRT content and returns
// the translated file as formatted SRT text.
func (p *Pipeline) Translate(ctx context.Context, raw string) (string, error) {
	if p.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
		defer cancel()
	}

	p.setStage(StageParsing)
	entries, err := srtfile.Parse(raw)
	if err != nil {
		return "", p.fail(StageParsing, err)
	}
	p.opts.log("parsed %d entries", len(entries))

	p.setStage(StageChunking)
	chunks, err := chunker.Split(entries, p.opts.effectiveChunkSize(), p.opts.Overlap)
	if err != nil {
		return "", p.fail(StageChunking, err)
	}
	p.opts.log("split into %d chunks (size %d, overlap %d)", len(chunks), p.opts.effectiveChunkSize(), p.opts.Overlap)

	p.setStage(StageTranslating)
	results, err := p.client.TranslateAll(ctx, chunks)
	if err != nil {
		return "", p.fail(StageTranslating, err)
	}

	p.setStage(StageReassembling)
	translated, err := merge.Assemble(entries, chunks, results)
	if err != nil {
		return "", p.fail(StageReassembling, err)
	}

	p.setStage(StageDone)
	return srtfile.Format(translated), nil
}

func (p *Pipeline) fail(stage Stage, err error) error {
	p.setStage(StageFailed)
	return &Error{Stage: stage, Err: err}
}

package extract

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/sync/errgroup"
)

// Extractor runs prompts against a Provider.
type Extractor struct {
	Provider Provider
	Logger   *slog.Logger  // optional
	Attempts uint          // per chunk, default 3
	Delay    time.Duration // between attempts, default 1s

	prompter *Prompter
}

// New returns an Extractor for p.
func New(p Provider, logger *slog.Logger) *Extractor {
	return &Extractor{Provider: p, Logger: logger}
}

func (e *Extractor) log() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// Extract annotates a single text. Chunks are processed concurrently,
// at most opts.MaxWorkers at a time, and reassembled in source order.
func (e *Extractor) Extract(ctx context.Context, text, prompt string, examples []ExampleData, opts Options) (*AnnotatedDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}
	opts = opts.withDefaults()
	if e.prompter == nil {
		e.prompter = NewPrompter()
	}

	doc := NewDocument(text)
	chunks := Split(text, opts.MaxCharBuffer)
	log := e.log().With("document", doc.ID, "model", e.Provider.Model())
	log.Debug("extraction started", "chunks", len(chunks), "workers", opts.MaxWorkers, "passes", opts.Passes)

	var kept []Extraction
	for pass := 1; pass <= opts.Passes; pass++ {
		found, err := e.runPass(ctx, chunks, prompt, examples, opts)
		if err != nil {
			return nil, fmt.Errorf("pass %d: %w", pass, err)
		}
		if pass == 1 {
			kept = found
		} else {
			kept = Merge(kept, found)
		}
		log.Debug("pass finished", "pass", pass, "found", len(found), "kept", len(kept))
	}

	slices.SortStableFunc(kept, byPosition)
	return &AnnotatedDocument{DocumentID: doc.ID, Text: text, Extractions: kept}, nil
}

// ExtractAll annotates each text in turn.
func (e *Extractor) ExtractAll(ctx context.Context, texts []string, prompt string, examples []ExampleData, opts Options) ([]*AnnotatedDocument, error) {
	docs := make([]*AnnotatedDocument, 0, len(texts))
	for i, t := range texts {
		doc, err := e.Extract(ctx, t, prompt, examples, opts)
		if err != nil {
			return nil, fmt.Errorf("text %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (e *Extractor) runPass(ctx context.Context, chunks []Chunk, prompt string, examples []ExampleData, opts Options) ([]Extraction, error) {
	results := make([][]Extraction, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)
	for _, c := range chunks {
		g.Go(func() error {
			exts, err := e.extractChunk(gctx, c, prompt, examples, opts)
			if err != nil {
				return fmt.Errorf("chunk %d: %w", c.Index, err)
			}
			results[c.Index] = exts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Extraction
	for _, r := range results {
		all = append(all, r...)
	}
	return all, nil
}

func (e *Extractor) extractChunk(ctx context.Context, c Chunk, prompt string, examples []ExampleData, opts Options) ([]Extraction, error) {
	p, err := e.prompter.Render(prompt, examples, c.Text)
	if err != nil {
		return nil, err
	}

	attempts, delay := e.Attempts, e.Delay
	if attempts == 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = time.Second
	}

	var exts []Extraction
	err = retry.Do(
		func() error {
			raw, err := e.Provider.Generate(ctx, Request{Prompt: p, Temperature: opts.Temperature})
			if err != nil {
				return err
			}
			exts, err = Parse(raw)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(Retryable),
		retry.OnRetry(func(n uint, err error) {
			e.log().Debug("retrying chunk", "chunk", c.Index, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	return Align(c, exts), nil
}

func byPosition(a, b Extraction) int {
	switch {
	case a.Interval == nil && b.Interval == nil:
		return 0
	case a.Interval == nil:
		return 1
	case b.Interval == nil:
		return -1
	}
	return cmp.Compare(a.Interval.Start, b.Interval.Start)
}

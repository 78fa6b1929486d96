package runner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ryosukesatoh/vault-digest/internal/publisher"
	"github.com/ryosukesatoh/vault-digest/internal/report"
	"github.com/ryosukesatoh/vault-digest/internal/request"
	"github.com/ryosukesatoh/vault-digest/internal/retry"
	"github.com/ryosukesatoh/vault-digest/internal/selector"
	"github.com/ryosukesatoh/vault-digest/internal/summarizer"
	"github.com/ryosukesatoh/vault-digest/internal/window"
)

// Runner orchestrates one select -> summarize -> publish run.
type Runner struct {
	vaultRoot       string
	pipeline        *selector.Pipeline
	days            int
	startTime       window.TimeOfDay
	endTime         window.TimeOfDay
	summarizer      summarizer.Summarizer
	skipSummary     bool
	maxReqTokens    int
	publishers      []publisher.Publisher
	fallback        publisher.Publisher
	notifyWhenEmpty bool
	retryConfig     retry.Config
	now             func() time.Time
}

// Params collects the runner's dependencies. Now is the injectable
// clock; nil means time.Now.
type Params struct {
	VaultRoot       string
	Pipeline        *selector.Pipeline
	Days            int
	StartTime       window.TimeOfDay
	EndTime         window.TimeOfDay
	Summarizer      summarizer.Summarizer
	SkipSummary     bool
	MaxReqTokens    int
	Publishers      []publisher.Publisher
	Fallback        publisher.Publisher
	NotifyWhenEmpty bool
	Retry           retry.Config
	Now             func() time.Time
}

func New(p Params) *Runner {
	if p.Now == nil {
		p.Now = time.Now
	}
	return &Runner{
		vaultRoot:       p.VaultRoot,
		pipeline:        p.Pipeline,
		days:            p.Days,
		startTime:       p.StartTime,
		endTime:         p.EndTime,
		summarizer:      p.Summarizer,
		skipSummary:     p.SkipSummary,
		maxReqTokens:    p.MaxReqTokens,
		publishers:      p.Publishers,
		fallback:        p.Fallback,
		notifyWhenEmpty: p.NotifyWhenEmpty,
		retryConfig:     p.Retry,
		now:             p.Now,
	}
}

// Run executes the full pipeline once. Zero qualifying notes is a
// normal outcome; a digest that cannot be delivered is written to the
// fallback publisher before the run is reported as failed.
func (r *Runner) Run(ctx context.Context) error {
	now := r.now()

	w, err := window.Compute(r.days, r.startTime, r.endTime, now)
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	log.Printf("Search window: %s to %s",
		w.Start.Format("2006-01-02 15:04"), w.End.Format("2006-01-02 15:04"))

	notes, err := r.pipeline.Select(r.vaultRoot, w)
	if err != nil {
		return fmt.Errorf("runner: selection failed: %w", err)
	}
	log.Printf("Selected %d notes", len(notes))

	meta := report.Metadata{GeneratedAt: now, Window: w, NoteCount: len(notes)}

	if len(notes) == 0 {
		if !r.notifyWhenEmpty {
			log.Println("No tagged notes in window, nothing to summarize")
			return nil
		}
		log.Println("No tagged notes in window, publishing empty-digest notice")
		return r.publish(ctx, report.Assemble(nil, meta))
	}

	reqs := request.Build(notes, r.maxReqTokens)
	log.Printf("Built %d summarization requests", len(reqs))

	results := make([]report.SummaryResult, 0, len(reqs))
	for i, req := range reqs {
		summary, err := r.summarize(ctx, req)
		if err != nil {
			return fmt.Errorf("runner: summarize request %d/%d failed: %w", i+1, len(reqs), err)
		}
		results = append(results, report.SummaryResult{
			NotePaths:  req.NotePaths,
			NoteTitles: req.NoteTitles,
			Summary:    summary,
			Truncated:  req.Truncated,
		})
	}

	return r.publish(ctx, report.Assemble(results, meta))
}

func (r *Runner) summarize(ctx context.Context, req request.Request) (string, error) {
	if r.skipSummary {
		return fmt.Sprintf("AI summary skipped by configuration. Notes in this batch: %d.", len(req.NotePaths)), nil
	}

	var summary string
	err := retry.WithBackoff(ctx, r.retryConfig, func(ctx context.Context) error {
		var err error
		summary, err = r.summarizer.Summarize(ctx, req.Prompt)
		return err
	})
	return summary, err
}

// publish delivers the digest to every publisher, retrying each with
// backoff. If all of them fail the digest is persisted through the
// fallback publisher so it survives for manual recovery, and the run
// fails.
func (r *Runner) publish(ctx context.Context, digest *report.Digest) error {
	var publishErrors []error
	for _, pub := range r.publishers {
		log.Printf("Publishing via %T...", pub)
		err := retry.WithBackoff(ctx, r.retryConfig, func(ctx context.Context) error {
			return pub.Publish(ctx, digest)
		})
		if err != nil {
			publishError := fmt.Errorf("publish via %T failed: %w", pub, err)
			publishErrors = append(publishErrors, publishError)
			log.Printf("WARNING: %v", publishError)
		} else {
			log.Printf("Successfully published via %T", pub)
		}
	}

	if len(publishErrors) == len(r.publishers) && len(r.publishers) > 0 {
		if r.fallback != nil {
			if err := r.fallback.Publish(ctx, digest); err != nil {
				log.Printf("WARNING: fallback persist failed: %v", err)
			} else {
				log.Println("Digest persisted to fallback directory for manual recovery")
			}
		}
		return fmt.Errorf("runner: all publishers failed: %v", publishErrors)
	}

	if len(publishErrors) > 0 {
		log.Printf("Run completed with %d publisher failures out of %d publishers", len(publishErrors), len(r.publishers))
	} else {
		log.Println("Run completed successfully")
	}

	return nil
}

package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"verbatim/internal/corpus"
	"verbatim/internal/logging"
	"verbatim/internal/services"
	"verbatim/internal/services/llm"
	"verbatim/internal/taxonomy"
	"verbatim/internal/transcript"
)

const (
	defaultBatchSize = 12
	defaultWorkers   = 4
	defaultPasses    = 1
)

// Provider is the external LLM capability the pipeline consumes: submit a
// prompt pair, receive a completion. Failures the capability can legitimately
// produce surface as *llm.ProviderError; anything else is treated as a
// programming defect and aborts the run.
type Provider interface {
	ExtractQuotes(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RunnerConfig bounds the orchestrator's scheduling.
type RunnerConfig struct {
	// Workers caps concurrent provider calls across sessions and batches.
	Workers int
	// Passes is how many extraction passes run over every batch. Later
	// passes win merge tie-breaks, so passes are assumed to run in
	// increasing refinement order.
	Passes int
	// BatchSize caps utterances per request to bound prompt size.
	BatchSize int
}

func (c RunnerConfig) withDefaults() RunnerConfig {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Passes <= 0 {
		c.Passes = defaultPasses
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	return c
}

// Result is one pipeline run's output: the accepted corpus plus the audit
// summary. No partial result is ever produced; an aborted run returns an
// error instead.
type Result struct {
	Quotes      []corpus.Quote
	Diagnostics corpus.Diagnostics
}

// Runner drives the extraction pipeline over a transcript set.
type Runner struct {
	cfg      RunnerConfig
	registry *taxonomy.Registry
	provider Provider
	logger   *slog.Logger
}

// NewRunner constructs a Runner. A nil logger disables logging.
func NewRunner(cfg RunnerConfig, registry *taxonomy.Registry, provider Provider, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:      cfg.withDefaults(),
		registry: registry,
		provider: provider,
		logger:   logging.NewComponentLogger(logger, "extraction"),
	}
}

type batchJob struct {
	request Request
}

type batchOutcome struct {
	request    Request
	candidates []Candidate
	report     ParseReport
	failed     bool
}

// sessionBucket accumulates batch outcomes for one session. Workers append
// under the bucket's own lock; no two workers ever merge the same session.
type sessionBucket struct {
	mu       sync.Mutex
	outcomes []batchOutcome
}

func (b *sessionBucket) append(outcome batchOutcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outcomes = append(b.outcomes, outcome)
}

// Run executes the full pipeline: assemble, extract concurrently, parse,
// validate, merge, and account. Provider failures degrade the affected
// batch's yield; any other failure aborts the run with no partial output.
func (r *Runner) Run(ctx context.Context, set *transcript.Set) (*Result, error) {
	if set == nil || set.Len() == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "extraction", "run", "no sessions to process", nil)
	}

	jobs := r.assembleJobs(set)
	buckets := make(map[string]*sessionBucket, set.Len())
	for _, session := range set.Sessions() {
		buckets[session.ID] = &sessionBucket{}
	}

	if err := r.runWorkers(ctx, jobs, buckets); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return r.collect(set, buckets), nil
}

func (r *Runner) assembleJobs(set *transcript.Set) []batchJob {
	var jobs []batchJob
	for _, session := range set.Sessions() {
		for pass := 1; pass <= r.cfg.Passes; pass++ {
			for _, request := range AssembleRequests(r.registry, session, r.cfg.BatchSize, pass) {
				jobs = append(jobs, batchJob{request: request})
			}
		}
	}
	return jobs
}

func (r *Runner) runWorkers(ctx context.Context, jobs []batchJob, buckets map[string]*sessionBucket) error {
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobCh := make(chan batchJob)
	var wg sync.WaitGroup

	var fatalMu sync.Mutex
	var fatalErr error
	recordFatal := func(err error) {
		fatalMu.Lock()
		if fatalErr == nil {
			fatalErr = err
		}
		fatalMu.Unlock()
		cancel()
	}

	workers := r.cfg.Workers
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				if workerCtx.Err() != nil {
					return
				}
				outcome, err := r.executeBatch(workerCtx, job.request)
				if err != nil {
					recordFatal(err)
					return
				}
				buckets[job.request.SessionID].append(outcome)
			}
		}()
	}

dispatch:
	for _, job := range jobs {
		// Cooperative cancellation checkpoint between batches.
		select {
		case <-workerCtx.Done():
			break dispatch
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()

	fatalMu.Lock()
	defer fatalMu.Unlock()
	if fatalErr != nil {
		return fatalErr
	}
	return nil
}

// executeBatch submits one request and parses its completion. Provider and
// parse failures are isolated to the batch; the returned error is non-nil
// only for defects that must abort the run.
func (r *Runner) executeBatch(ctx context.Context, request Request) (batchOutcome, error) {
	ctx = services.WithSessionID(ctx, request.SessionID)
	ctx = services.WithPass(ctx, request.Pass)
	ctx = services.WithBatch(ctx, request.Batch)
	logger := logging.WithContext(ctx, r.logger)

	outcome := batchOutcome{request: request}

	completion, err := r.provider.ExtractQuotes(ctx, request.System, request.User)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return outcome, err
		}
		var provider *llm.ProviderError
		if errors.As(err, &provider) {
			logger.Warn("batch extraction failed, continuing with partial yield",
				logging.String("provider_error", string(provider.Kind)),
				logging.Error(err),
			)
			outcome.failed = true
			return outcome, nil
		}
		// Non-provider failures from the capability boundary are programming
		// defects, not data-quality issues.
		return outcome, services.Wrap(nil, "extraction", "submit batch",
			fmt.Sprintf("unexpected capability failure for session %s", request.SessionID), err)
	}

	candidates, report, err := ParseCompletion(r.registry, request, completion)
	if err != nil {
		logger.Warn("completion shape unrecognized, dropping batch", logging.Error(err))
		outcome.failed = true
		return outcome, nil
	}
	if report.Skipped > 0 {
		logger.Debug("skipped malformed candidates", logging.Int("skipped", report.Skipped))
	}

	outcome.candidates = candidates
	outcome.report = report
	return outcome, nil
}

// collect validates, merges, and accounts per session. Batches are replayed
// in pass-then-batch (utterance-timecode) order so the merge tie-breaks are
// well-defined regardless of worker scheduling.
func (r *Runner) collect(set *transcript.Set, buckets map[string]*sessionBucket) *Result {
	result := &Result{}
	for _, session := range set.Sessions() {
		bucket := buckets[session.ID]
		sort.SliceStable(bucket.outcomes, func(i, j int) bool {
			a, b := bucket.outcomes[i].request, bucket.outcomes[j].request
			if a.Pass != b.Pass {
				return a.Pass < b.Pass
			}
			return a.Batch < b.Batch
		})

		diag := corpus.SessionDiagnostics{SessionID: session.ID}
		var normalized []Candidate
		for _, outcome := range bucket.outcomes {
			diag.Batches++
			if outcome.failed {
				diag.FailedBatches++
				continue
			}
			diag.Parsed += outcome.report.Parsed
			diag.Skipped += outcome.report.Skipped
			for _, candidate := range outcome.candidates {
				valid, rejection := ValidateCandidate(r.registry, set, candidate)
				if rejection != nil {
					diag.Rejected++
					r.logger.Debug("candidate rejected",
						logging.String("session_id", session.ID),
						logging.String("reason", string(rejection.Reason)),
						logging.Error(rejection.Err),
					)
					continue
				}
				normalized = append(normalized, valid)
			}
		}

		quotes := Merge(normalized)
		diag.Merged = len(normalized) - len(quotes)
		diag.Accepted = len(quotes)

		result.Quotes = append(result.Quotes, quotes...)
		result.Diagnostics.Sessions = append(result.Diagnostics.Sessions, diag)

		r.logger.Info("session extraction complete",
			logging.String("session_id", session.ID),
			logging.Int("batches", diag.Batches),
			logging.Int("failed_batches", diag.FailedBatches),
			logging.Int("accepted", diag.Accepted),
			logging.Int("rejected", diag.Rejected),
		)
	}
	return result
}

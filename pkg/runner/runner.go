package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/shadanan/mathmate/internal/logging"
	"github.com/shadanan/mathmate/pkg/pipeline"
)

// Runner formats discovered files through a pipeline.
type Runner struct {
	Pipeline *pipeline.Pipeline
}

// New creates a Runner.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files and processes them with a worker pool. Outcomes are
// returned in path order regardless of completion order. Per-file errors
// are recorded on their outcome; the returned error covers discovery
// failures and cancellation.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))
	logger.Debug("starting workers", logging.FieldFiles, len(files), logging.FieldJobs, jobs)

	workCh := make(chan int)
	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				outcomes[i] = r.process(ctx, files[i])
				done[i] = true
			}
		}()
	}

	func() {
		defer close(workCh)
		for i := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- i:
			}
		}
	}()
	wg.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string) FileOutcome {
	logger := logging.FromContext(ctx)
	start := time.Now()

	res, err := r.Pipeline.ProcessFile(ctx, path)
	if err != nil {
		logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
		return FileOutcome{Path: path, Error: err}
	}

	logger.Debug(res.Summary(),
		logging.FieldPath, path,
		logging.FieldStatements, res.Statements,
		logging.FieldDuration, time.Since(start))
	for _, w := range res.Warnings {
		logger.Warn("recovered", logging.FieldPath, path, logging.FieldError, w)
	}
	return FileOutcome{Path: path, Result: res}
}

package jobs

import (
	"casestatus-backend/internal/components/assert"
	"casestatus-backend/internal/components/chrono"
	"casestatus-backend/internal/components/telemetry"
	"casestatus-backend/internal/scrapers/casestatus"
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

const (
	report_runner_persist = "runner.persist"
	report_runner_update  = "runner.update"
	report_runner_sweep   = "runner.sweep"
)

// Pipeline resolves one query, it is casestatus.Scraper outside of tests.
type Pipeline interface {
	Run(ctx context.Context, q casestatus.CaseQuery) casestatus.CaseResult
}

// Persister records found results durably.
type Persister interface {
	Save(ctx context.Context, jobID string, q casestatus.CaseQuery, result casestatus.CaseResult) error
}

type runnerConfig struct {
	workers   int
	queueSize int
	persister Persister
	newID     func() string
}

type RunnerOption func(cfg *runnerConfig)

// WithWorkers sets how many queries run at the same time, each with its own browser.
func WithWorkers(n int) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.workers = n
	}
}

func WithQueueSize(n int) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.queueSize = n
	}
}

func WithPersister(persister Persister) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.persister = persister
	}
}

func withIDs(newID func() string) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.newID = newID
	}
}

// Runner owns a bounded pool of workers that take submitted jobs off a queue.
type Runner struct {
	store     Store
	pipeline  Pipeline
	persister Persister
	time      chrono.API
	tel       telemetry.API
	newID     func() string
	workers   int

	queue  chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	start  sync.Once
}

func NewRunner(
	store Store,
	pipeline Pipeline,
	clock chrono.API,
	tel telemetry.API,
	options ...RunnerOption,
) *Runner {
	assert.NotNil(store, "job store")
	assert.NotNil(pipeline, "pipeline")
	assert.NotNil(clock, "time")
	assert.NotNil(tel, "telemetry")

	cfg := runnerConfig{
		workers:   2,
		queueSize: 100,
		newID:     uuid.NewString,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	assert.Positive(cfg.workers, "workers")
	assert.Positive(cfg.queueSize, "queue size")

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		store:     store,
		pipeline:  pipeline,
		persister: cfg.persister,
		time:      clock,
		tel:       telemetry.NewScopedAPI("jobs", tel),
		newID:     cfg.newID,
		workers:   cfg.workers,
		queue:     make(chan string, cfg.queueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (r *Runner) Start() {
	r.start.Do(func() {
		for i := 0; i < r.workers; i++ {
			r.wg.Add(1)
			go r.worker()
		}
	})
}

// Stop cancels the running queries and waits for the workers to exit, queued jobs stay
// in the processing state.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
}

// Submit stores a new processing job for q and queues it.
func (r *Runner) Submit(q casestatus.CaseQuery) (Job, error) {
	if r.ctx.Err() != nil {
		return Job{}, ErrStopped
	}

	job := Job{
		ID:        r.newID(),
		Query:     q,
		Status:    STATUS_PROCESSING,
		CreatedAt: r.time.Now(),
	}
	r.store.Put(job)

	select {
	case r.queue <- job.ID:
		r.tel.ReportCount("queue.depth", int64(len(r.queue)))
		return job, nil
	default:
		r.finish(job.ID, func(j *Job) {
			j.Status = STATUS_ERROR
			j.Error = ErrQueueFull.Error()
			j.ErrorKind = casestatus.RESULT_FAILED.String()
		})
		return Job{}, ErrQueueFull
	}
}

func (r *Runner) Get(id string) (Job, error) {
	return r.store.Get(id)
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for {
		select {
		case id := <-r.queue:
			r.execute(id)
		case <-r.ctx.Done():
			return
		}
	}
}

func (r *Runner) execute(id string) {
	job, err := r.store.Get(id)
	if err != nil {
		// swept or never stored, nothing left to report to
		r.tel.ReportWarning(report_runner_update, fmt.Errorf("job %s: %w", id, err))
		return
	}

	result := r.pipeline.Run(r.ctx, job.Query)

	switch result.Kind {
	case casestatus.RESULT_FOUND:
		if r.persister != nil {
			err := r.persister.Save(r.ctx, id, job.Query, result)
			if err != nil {
				r.tel.ReportBroken(report_runner_persist, err, id)
				r.finish(id, func(j *Job) {
					j.Status = STATUS_ERROR
					j.Error = persistFailedMessage
					j.ErrorKind = casestatus.RESULT_FAILED.String()
				})
				return
			}
		}
		r.finish(id, func(j *Job) {
			j.Status = STATUS_COMPLETE
			j.Fields = result.Fields
		})
	default:
		r.finish(id, func(j *Job) {
			j.Status = STATUS_ERROR
			j.Error = result.Message
			j.ErrorKind = result.Kind.String()
		})
	}
}

func (r *Runner) finish(id string, fn func(j *Job)) {
	finishedAt := r.time.Now()
	err := r.store.Update(id, func(j *Job) {
		fn(j)
		j.FinishedAt = finishedAt
	})
	if err != nil {
		r.tel.ReportWarning(report_runner_update, fmt.Errorf("job %s: %w", id, err))
	}
}

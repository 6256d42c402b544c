// Package worker runs background jobs on a fixed set of goroutines fed by a
// bounded queue.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/phuslu/log"
)

var (
	ErrQueueFull  = errors.New("job queue is full")
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Job is one unit of background work. OnError, when set, is called with the
// error returned by Run, or with a panic converted to an error.
type Job struct {
	ID      string
	Run     func(ctx context.Context) error
	OnError func(ctx context.Context, err error)
}

// Pool manages a pool of workers that process submitted jobs
type Pool struct {
	jobs       chan Job
	numWorkers int
	logger     *log.Logger

	mu     sync.RWMutex
	closed bool

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewPool(numWorkers, queueSize int, logger *log.Logger) *Pool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		jobs:       make(chan Job, queueSize),
		numWorkers: numWorkers,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the workers
func (p *Pool) Start() {
	p.logger.Info().
		Int("num_workers", p.numWorkers).
		Int("queue_size", cap(p.jobs)).
		Msg("Starting worker pool")

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) error {
	if job.Run == nil {
		return fmt.Errorf("job %s has no Run function", job.ID)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new jobs and waits for queued ones to finish. If ctx ends
// first the context passed to running jobs is cancelled and Stop returns
// after the workers exit.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	p.logger.Info().Msg("Stopping worker pool...")

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.logger.Info().Msg("Worker pool stopped")
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		p.logger.Warn().Msg("Worker pool stopped before draining the queue")
		return ctx.Err()
	}
}

// worker is the main worker loop
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	p.logger.Debug().
		Int("worker_id", workerID).
		Msg("Worker started")

	for job := range p.jobs {
		p.process(workerID, job)
	}

	p.logger.Debug().
		Int("worker_id", workerID).
		Msg("Worker stopping")
}

func (p *Pool) process(workerID int, job Job) {
	start := time.Now()
	p.logger.Info().
		Int("worker_id", workerID).
		Str("job_id", job.ID).
		Msg("Processing job")

	err := p.execute(job)
	if err == nil {
		p.logger.Info().
			Str("job_id", job.ID).
			Dur("duration", time.Since(start)).
			Msg("Job completed successfully")
		return
	}

	p.logger.Error().
		Err(err).
		Str("job_id", job.ID).
		Dur("duration", time.Since(start)).
		Msg("Job failed")

	if job.OnError != nil {
		p.safeOnError(job, err)
	}
}

// execute runs the job, recovering from a panic inside it
func (p *Pool) execute(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in job %s: %v", job.ID, r)
		}
	}()
	return job.Run(p.ctx)
}

func (p *Pool) safeOnError(job Job, jobErr error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().
				Str("job_id", job.ID).
				Msgf("panic in error handler: %v", r)
		}
	}()
	job.OnError(p.ctx, jobErr)
}

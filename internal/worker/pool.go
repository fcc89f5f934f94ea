package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrQueueFull is returned by SubmitJob when every job slot is taken.
var ErrQueueFull = errors.New("job queue is full")

// ErrStopped is returned by SubmitJob and Do after Stop.
var ErrStopped = errors.New("dispatcher stopped")

// Job represents a long-running unit of work, such as a poll loop.
// Execute must return promptly once ctx is done.
type Job interface {
	Execute(ctx context.Context) error
	ID() string
}

// task is one bounded call handed to a worker by Do.
type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// Worker runs tasks from its own channel after registering it in the pool.
type Worker struct {
	ID     int
	pool   chan chan task // A pool of channels, used to register this worker's task channel
	tasks  chan task      // A channel specific to this worker, to receive tasks
	wg     *sync.WaitGroup
	logger logrus.FieldLogger
}

// NewWorker creates a new Worker.
func NewWorker(id int, pool chan chan task, wg *sync.WaitGroup, logger logrus.FieldLogger) Worker {
	return Worker{
		ID:     id,
		pool:   pool,
		tasks:  make(chan task),
		wg:     wg,
		logger: logger.WithField("worker", id),
	}
}

// Start makes the Worker listen for tasks until ctx is done.
func (w Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			// Register the current worker's task channel to the worker pool.
			select {
			case w.pool <- w.tasks:
			case <-ctx.Done():
				return
			}

			select {
			case t := <-w.tasks:
				t.done <- t.fn(t.ctx)
			case <-ctx.Done():
				w.logger.Debug("Stopping")
				return
			}
		}
	}()
}

// Dispatcher runs every submitted job on its own goroutine and bounds the
// calls those jobs make through Do to MaxWorkers at a time.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan task // A pool of worker task channels
	JobQueue   chan Job       // A buffered channel for incoming jobs
	Workers    []Worker
	Wg         sync.WaitGroup // To wait for all workers to finish

	logger   logrus.FieldLogger
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.RWMutex
	stopped  bool
	slots    chan struct{} // one per queued or running job
	inflight sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with maxWorkers concurrent calls and at
// most maxJobs jobs queued or running.
func NewDispatcher(maxWorkers int, maxJobs int, logger logrus.FieldLogger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxJobs < 1 {
		maxJobs = 1
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan task, maxWorkers),
		JobQueue:   make(chan Job, maxJobs),
		Workers:    make([]Worker, 0, maxWorkers),
		logger:     logger,
		slots:      make(chan struct{}, maxJobs),
	}
}

// Run starts the dispatcher and its workers. Jobs run with a context derived
// from parent that is cancelled by Stop.
func (d *Dispatcher) Run(parent context.Context) {
	d.mu.Lock()
	d.ctx, d.cancel = context.WithCancel(parent)
	d.mu.Unlock()

	d.logger.Infof("Dispatcher starting with %d workers", d.MaxWorkers)
	for i := 1; i <= d.MaxWorkers; i++ {
		worker := NewWorker(i, d.WorkerPool, &d.Wg, d.logger)
		d.Workers = append(d.Workers, worker)
		worker.Start(d.ctx)
	}

	d.inflight.Add(1)
	go d.dispatch()
}

// dispatch listens to the JobQueue and starts each job.
func (d *Dispatcher) dispatch() {
	defer d.inflight.Done()
	for {
		select {
		case job := <-d.JobQueue:
			d.inflight.Add(1)
			go d.run(job)
		case <-d.ctx.Done():
			d.logger.Debug("Dispatcher: stopping dispatch loop")
			return
		}
	}
}

func (d *Dispatcher) run(job Job) {
	defer d.inflight.Done()
	defer func() { <-d.slots }()

	logger := d.logger.WithField("job_id", job.ID())
	logger.Debug("Started job")
	if err := job.Execute(d.ctx); err != nil {
		logger.WithError(err).Warn("Job finished with error")
	} else {
		logger.Debug("Finished job")
	}
}

// SubmitJob adds a job to the job queue without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped || d.ctx == nil {
		return ErrStopped
	}

	select {
	case d.slots <- struct{}{}:
	default:
		d.logger.WithField("job_id", job.ID()).Warn("Dispatcher: job queue full")
		return ErrQueueFull
	}
	// JobQueue has room for every slot
	d.JobQueue <- job
	d.logger.WithField("job_id", job.ID()).Debug("Dispatcher: job submitted to queue")
	return nil
}

// Do runs fn on a free worker and waits for its result.
func (d *Dispatcher) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	d.mu.RLock()
	base, stopped := d.ctx, d.stopped
	d.mu.RUnlock()
	if stopped || base == nil {
		return ErrStopped
	}

	var tasks chan task
	select {
	case tasks = <-d.WorkerPool:
	case <-ctx.Done():
		return ctx.Err()
	case <-base.Done():
		return ErrStopped
	}

	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case tasks <- t:
	case <-ctx.Done():
		// hand the idle worker back
		d.WorkerPool <- tasks
		return ctx.Err()
	case <-base.Done():
		return ErrStopped
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels running jobs and waits for them and every worker to exit.
// Queued jobs are dropped.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped || d.cancel == nil {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	d.logger.Info("Dispatcher: initiating shutdown")
	d.cancel()
	d.inflight.Wait()
	d.Wg.Wait()
	d.logger.Info("Dispatcher: shutdown complete")
}

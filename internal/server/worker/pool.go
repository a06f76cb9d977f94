package worker

import (
	"context"
	"sync"

	"memoirvault/internal/logging"
	"memoirvault/internal/server/queue"
)

const jobBuffer = 100

// Pool runs a fixed number of workers draining the Jobs channel. The
// consumer feeds Jobs; each worker hands the job to the shared Processor.
type Pool struct {
	size      int
	Jobs      chan queue.Job
	processor *Processor
	logger    logging.Logger
	wg        sync.WaitGroup
}

func NewPool(size int, processor *Processor, logger logging.Logger) *Pool {
	return &Pool{
		size:      size,
		Jobs:      make(chan queue.Job, jobBuffer),
		processor: processor,
		logger:    logger.With("component", "worker_pool"),
	}
}

// Start launches the workers. They exit when ctx is cancelled.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	p.logger.Info(ctx, "worker started", "worker_id", id)

	for {
		select {
		case job := <-p.Jobs:
			_ = p.processor.Process(ctx, job)
		case <-ctx.Done():
			p.logger.Info(ctx, "worker stopping", "worker_id", id)
			return
		}
	}
}

// Package worker provides a bounded worker pool in a job-queue/result-channel
// shape: workers produce results, a single consumer drains them, so shared
// structures are never written concurrently.
package worker

import (
	"sync"

	"metharvest/pkg/logger"
)

// Pool processes jobs of type J into results of type R on a fixed number of
// workers.
type Pool[J, R any] struct {
	numWorkers int
	process    func(J) R
	jobQueue   chan J
	results    chan R
	wg         sync.WaitGroup
	logger     logger.Logger
}

// NewPool creates a pool with the given worker count and job processor.
func NewPool[J, R any](numWorkers int, process func(J) R, log logger.Logger) *Pool[J, R] {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Pool[J, R]{
		numWorkers: numWorkers,
		process:    process,
		jobQueue:   make(chan J, numWorkers*2),
		results:    make(chan R, numWorkers),
		logger:     log,
	}
}

// Start launches all workers.
func (p *Pool[J, R]) Start() {
	p.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": p.numWorkers,
	})

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Submit adds a job to the queue, blocking while the queue is full.
func (p *Pool[J, R]) Submit(job J) {
	p.jobQueue <- job
}

// Results returns the channel the consumer drains. It is closed by Stop
// once all workers have finished.
func (p *Pool[J, R]) Results() <-chan R {
	return p.results
}

// Stop signals that no more jobs will arrive, waits for workers to drain
// the queue, then closes the result channel.
func (p *Pool[J, R]) Stop() {
	close(p.jobQueue)
	p.wg.Wait()
	close(p.results)
}

func (p *Pool[J, R]) worker() {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.results <- p.process(job)
	}
}

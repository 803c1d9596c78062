package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

// Pool runs submitted jobs on a fixed set of goroutines. A job that panics is recovered and
// reported to sentry, the worker running it stays alive.
type Pool struct {
	queue   chan func()
	pending sync.WaitGroup
	workers sync.WaitGroup
	once    sync.Once
}

// New starts a pool of n workers. A non-positive n uses one worker per CPU.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p := &Pool{queue: make(chan func(), n)}
	p.workers.Add(n)
	for i := 0; i < n; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for f := range p.queue {
		p.run(f)
	}
}

func (p *Pool) run(f func()) {
	defer p.pending.Done()
	defer sentry.Recover()
	f()
}

// Submit queues f, blocking while every worker is busy and the queue is full.
func (p *Pool) Submit(f func()) {
	p.pending.Add(1)
	p.queue <- f
}

// Wait blocks until every submitted job has returned.
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Close stops the workers once the queued jobs are done. Submit must not be called afterwards.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.queue)
	})
	p.workers.Wait()
}

package crack

import (
	"context"
	"sync"

	"github.com/RowanDark/0xcrack/internal/topk"
)

// chunk is a half-open ordinal range of one keyspace.
type chunk struct {
	lo, hi uint64
}

// chunkResult is what a worker hands back once the job channel closes.
type chunkResult struct {
	selector  *topk.Selector
	evaluated uint64
}

// workerPool fans ordinal chunks out to a fixed set of workers. Each worker
// owns a private selector; the pool merges them after the last chunk.
type workerPool struct {
	workers int
	jobs    chan chunk
	results chan chunkResult
	wg      sync.WaitGroup
	ctx     context.Context
	scan    func(c chunk, sel *topk.Selector)
	topK    int
}

func newWorkerPool(ctx context.Context, workers, topK int, scan func(chunk, *topk.Selector)) *workerPool {
	return &workerPool{
		workers: workers,
		jobs:    make(chan chunk, workers*2),
		results: make(chan chunkResult, workers),
		ctx:     ctx,
		scan:    scan,
		topK:    topK,
	}
}

func (p *workerPool) start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *workerPool) worker() {
	defer p.wg.Done()

	sel := topk.New(p.topK)
	var evaluated uint64
	for c := range p.jobs {
		// Drain without work once cancelled so submit never blocks.
		if p.ctx.Err() != nil {
			continue
		}
		p.scan(c, sel)
		evaluated += c.hi - c.lo
	}
	p.results <- chunkResult{selector: sel, evaluated: evaluated}
}

// submit queues a chunk, giving up when the context is done.
func (p *workerPool) submit(c chunk) error {
	select {
	case p.jobs <- c:
		return nil
	case <-p.ctx.Done():
		return p.ctx.Err()
	}
}

// stop closes the queue, waits for the workers and merges their selectors
// into into.
func (p *workerPool) stop(into *topk.Selector) uint64 {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)

	var evaluated uint64
	for r := range p.results {
		into.Merge(r.selector)
		evaluated += r.evaluated
	}
	return evaluated
}

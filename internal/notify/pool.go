package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"work-tracker.com/work-tracker/internal/queue"
)

// Pool is a Dispatcher that hands intents to a fixed set of workers over a
// bounded queue. A full queue drops the intent.
type Pool struct {
	queue   chan Intent
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	sinks   []Sink
	guard   queue.IntentGuard
	timeout time.Duration
}

func NewPool(guard queue.IntentGuard, workers, queueSize int, sendTimeout time.Duration, sinks ...Sink) *Pool {
	p := &Pool{
		queue:   make(chan Intent, queueSize),
		sinks:   sinks,
		guard:   guard,
		timeout: sendTimeout,
	}

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *Pool) Notify(intent Intent) {
	if len(intent.UserIDs) == 0 {
		return
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		log.Printf("[notify] pool closed, dropping %s", intent.Key())
		return
	}

	select {
	case p.queue <- intent:
	default:
		log.Printf("[notify] queue full, dropping %s", intent.Key())
	}
}

func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	for intent := range p.queue {
		p.handleIntent(workerID, intent)
	}
}

func (p *Pool) handleIntent(workerID int, intent Intent) {
	ctx := context.Background()
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if p.guard != nil {
		fresh, err := p.guard.Claim(ctx, intent.Key())
		if err != nil {
			log.Printf("[notify] worker %d: dedupe check failed for %s: %v", workerID, intent.Key(), err)
		} else if !fresh {
			log.Printf("[notify] worker %d: skipping duplicate %s", workerID, intent.Key())
			return
		}
	}

	for _, sink := range p.sinks {
		if err := sink.Deliver(ctx, intent); err != nil {
			log.Printf("[notify] worker %d: %s delivery failed for %s: %v", workerID, sink.Name(), intent.Key(), err)
		}
	}
}

// Shutdown stops accepting intents and waits for queued ones to be delivered
// or for ctx to expire.
func (p *Pool) Shutdown(ctx context.Context) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[notify] worker pool shut down cleanly")
	case <-ctx.Done():
		log.Println("[notify] worker pool shutdown timed out")
	}
}

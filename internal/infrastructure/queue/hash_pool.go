package queue

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/user-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ErrPoolStopped is returned once the pool's context has been cancelled.
var ErrPoolStopped = errors.New("hash pool stopped")

// Hasher is the CPU-bound password transform run by the workers.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type hashJob struct {
	verify bool
	plain  string
	hash   string
	reply  chan hashResult
}

type hashResult struct {
	hash string
	ok   bool
	err  error
}

// HashPool runs bcrypt on a fixed set of workers so request goroutines only
// wait on a channel. Results for callers that gave up are dropped.
type HashPool struct {
	jobs    chan hashJob
	workers int
	hasher  Hasher
	done    chan struct{}
	log     zerolog.Logger
}

// NewHashPool creates a pool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(numWorkers int, hasher Hasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &HashPool{
		jobs:    make(chan hashJob, channelBuffer),
		workers: numWorkers,
		hasher:  hasher,
		done:    make(chan struct{}),
		log:     log,
	}
}

// Start launches the worker goroutines. Workers stop when ctx is cancelled.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
	go func() {
		<-ctx.Done()
		close(p.done)
	}()
}

// Hash returns the bcrypt hash of plain.
func (p *HashPool) Hash(ctx context.Context, plain string) (string, error) {
	res, err := p.submit(ctx, hashJob{plain: plain})
	if err != nil {
		return "", err
	}
	return res.hash, res.err
}

// Verify reports whether plain matches hash.
func (p *HashPool) Verify(ctx context.Context, plain, hash string) (bool, error) {
	res, err := p.submit(ctx, hashJob{verify: true, plain: plain, hash: hash})
	if err != nil {
		return false, err
	}
	return res.ok, res.err
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	// Buffered so a worker never blocks on a caller that went away.
	job.reply = make(chan hashResult, 1)

	select {
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-p.done:
		return hashResult{}, ErrPoolStopped
	case p.jobs <- job:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	}

	select {
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	case <-p.done:
		return hashResult{}, ErrPoolStopped
	case res := <-job.reply:
		return res, nil
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			job.reply <- p.run(job, id)
		}
	}
}

func (p *HashPool) run(job hashJob, id int) hashResult {
	start := time.Now()
	if job.verify {
		ok := p.hasher.Verify(job.plain, job.hash)
		metrics.HashDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
		return hashResult{ok: ok}
	}

	h, err := p.hasher.Hash(job.plain)
	metrics.HashDuration.WithLabelValues("hash").Observe(time.Since(start).Seconds())
	if err != nil {
		p.log.Error().Err(err).Int("worker_id", id).Msg("password hashing failed")
	}
	return hashResult{hash: h, err: err}
}

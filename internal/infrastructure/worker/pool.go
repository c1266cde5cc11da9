// Package worker runs the generation job queue: a pool of workers that
// claim queued jobs from the database and a janitor that requeues jobs
// abandoned by crashed workers.
package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agencyhub/backend/internal/domain/generation"
	infraconfig "github.com/agencyhub/backend/internal/infrastructure/config"
)

// JobExecutor runs one claimed job to a terminal state or a requeue.
// The application layer's Runner implements it.
type JobExecutor interface {
	Run(ctx context.Context, job *generation.Job) error
}

// PoolConfig holds configuration for the worker pool
type PoolConfig struct {
	Count          int
	PollInterval   time.Duration
	JobTimeout     time.Duration
	StaleThreshold time.Duration
	JanitorPeriod  time.Duration
}

// DefaultPoolConfig returns default configuration
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Count:          4,
		PollInterval:   2 * time.Second,
		JobTimeout:     10 * time.Minute,
		StaleThreshold: 15 * time.Minute,
		JanitorPeriod:  time.Minute,
	}
}

// PoolConfigFromWorker builds a PoolConfig from the application configuration
func PoolConfigFromWorker(cfg infraconfig.WorkerConfig) PoolConfig {
	config := DefaultPoolConfig()
	if cfg.Count > 0 {
		config.Count = cfg.Count
	}
	if cfg.PollInterval > 0 {
		config.PollInterval = cfg.PollInterval
	}
	if cfg.JobTimeout > 0 {
		config.JobTimeout = cfg.JobTimeout
	}
	if cfg.StaleThreshold > 0 {
		config.StaleThreshold = cfg.StaleThreshold
	}
	if cfg.JanitorPeriod > 0 {
		config.JanitorPeriod = cfg.JanitorPeriod
	}
	return config
}

// Pool polls the job queue with a fixed number of workers. Claims are
// atomic at the repository level, so pools on multiple hosts can share
// one queue.
type Pool struct {
	jobRepo  generation.JobRepository
	executor JobExecutor
	config   PoolConfig
	logger   *zap.Logger
	hostname string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a new worker pool
func NewPool(jobRepo generation.JobRepository, executor JobExecutor, config PoolConfig, logger *zap.Logger) *Pool {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "worker"
	}
	return &Pool{
		jobRepo:  jobRepo,
		executor: executor,
		config:   config,
		logger:   logger,
		hostname: hostname,
	}
}

// Start launches the workers and the janitor
func (p *Pool) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.config.Count; i++ {
		workerID := fmt.Sprintf("%s-%d", p.hostname, i)
		p.wg.Add(1)
		go p.workerLoop(ctx, workerID)
	}

	p.wg.Add(1)
	go p.janitorLoop(ctx)

	p.logger.Info("worker pool started",
		zap.Int("workers", p.config.Count),
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Duration("job_timeout", p.config.JobTimeout))

	return nil
}

// Stop gracefully stops the pool, waiting for in-flight jobs up to the
// context deadline
func (p *Pool) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// workerLoop drains the queue, then idles on the poll ticker
func (p *Pool) workerLoop(ctx context.Context, workerID string) {
	defer p.wg.Done()

	logger := p.logger.With(zap.String("worker_id", workerID))

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for p.claimAndRun(ctx, workerID, logger) {
				if ctx.Err() != nil {
					return
				}
			}
		}
	}
}

// claimAndRun claims and executes one job; returns false when the
// queue is empty
func (p *Pool) claimAndRun(ctx context.Context, workerID string, logger *zap.Logger) bool {
	job, err := p.jobRepo.ClaimNextQueued(ctx, workerID, time.Now())
	if err != nil {
		logger.Error("failed to claim job", zap.Error(err))
		return false
	}
	if job == nil {
		return false
	}

	logger.Info("claimed generation job",
		zap.String("job_id", job.ID.String()),
		zap.String("type", string(job.Type)),
		zap.Int("attempt", job.Attempts))

	jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	if err := p.executor.Run(jobCtx, job); err != nil {
		logger.Error("job execution error",
			zap.String("job_id", job.ID.String()),
			zap.Error(err))
	}

	return true
}

// janitorLoop periodically requeues jobs stuck in running state after
// a worker crash
func (p *Pool) janitorLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.JanitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.requeueStale(ctx)
		}
	}
}

func (p *Pool) requeueStale(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.StaleThreshold)
	requeued, err := p.jobRepo.RequeueStale(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to requeue stale jobs", zap.Error(err))
		return
	}

	if requeued > 0 {
		p.logger.Warn("requeued stale generation jobs",
			zap.Int64("requeued", requeued),
			zap.Time("cutoff", cutoff))
	}
}

// Package taskrunner executes pipeline jobs with in-memory workers, for
// deployments without a Redis-backed queue.
package taskrunner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"storyforge/internal/service"
	"storyforge/log"
)

const (
	defaultQueueSize   = 128
	defaultConcurrency = 2
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls in-process task runner behavior.
type Config struct {
	QueueSize   int
	Concurrency int
}

// DefaultConfig returns a single-machine-friendly default config.
func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// StoryTaskPayload contains story task enqueue data.
type StoryTaskPayload struct {
	TaskID  string `json:"task_id"`
	Subject string `json:"subject"`
}

// Runner executes queued tasks with in-memory workers.
type Runner struct {
	mu      sync.RWMutex
	service *service.Service
	config  Config

	queue  chan StoryTaskPayload
	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

// New creates and starts a task runner.
func New(svc *service.Service, cfg Config) *Runner {
	if svc == nil {
		svc = service.NewService()
	}

	cfg = normalizeConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	runner := &Runner{
		service: svc,
		config:  cfg,
		queue:   make(chan StoryTaskPayload, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		runner.workerWg.Add(1)
		go runner.worker(i + 1)
	}

	return runner
}

func normalizeConfig(cfg Config) Config {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// SetService swaps the service used by future jobs, after a config
// change.
func (r *Runner) SetService(svc *service.Service) {
	r.mu.Lock()
	r.service = svc
	r.mu.Unlock()
}

func (r *Runner) currentService() *service.Service {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.service
}

// SubmitStoryTask queues a pipeline job.
func (r *Runner) SubmitStoryTask(payload StoryTaskPayload) error {
	if payload.Subject == "" {
		return errors.New("story task subject is required")
	}
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- payload:
		log.GetLogger().Info("[TaskRunner] task submitted",
			zap.String("task_id", payload.TaskID))
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		select {
		case <-r.ctx.Done():
			return
		case payload := <-r.queue:
			r.processTask(workerID, payload)
		}
	}
}

func (r *Runner) processTask(workerID int, payload StoryTaskPayload) {
	err := r.currentService().RunStoryTask(r.ctx, payload.TaskID, payload.Subject)
	if err != nil {
		log.GetLogger().Error("[TaskRunner] task failed",
			zap.Int("worker_id", workerID),
			zap.String("task_id", payload.TaskID),
			zap.Error(err))
		return
	}

	log.GetLogger().Info("[TaskRunner] task completed",
		zap.Int("worker_id", workerID),
		zap.String("task_id", payload.TaskID))
}

// Stop shuts the runner down and waits for in-flight jobs.
func (r *Runner) Stop() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}
	r.cancel()
	r.workerWg.Wait()
}

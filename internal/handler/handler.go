package handler

import (
	"os"

	"go.uber.org/zap"

	"storyforge/internal/queue"
	"storyforge/internal/service"
	"storyforge/internal/taskrunner"
	"storyforge/log"
)

// TaskSubmitter hands a pipeline job to whichever backend executes it.
type TaskSubmitter interface {
	SubmitStoryTask(taskID, subject string) error
}

// Handler carries the service and the backend that runs pipeline jobs:
// the in-process runner by default, or the Redis-backed queue when
// REDIS_ADDR is set.
type Handler struct {
	Service   *service.Service
	Runner    *taskrunner.Runner
	Submitter TaskSubmitter
}

func NewHandler() *Handler {
	svc := service.NewService()
	h := &Handler{Service: svc}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cfg := queue.DefaultConfig()
		cfg.RedisAddr = redisAddr
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
		q := queue.NewQueue(cfg)

		go func() {
			if err := q.Server().Run(queue.NewTaskHandlers(svc).Mux()); err != nil {
				log.GetLogger().Error("queue server stopped", zap.Error(err))
			}
		}()

		log.GetLogger().Info("using redis-backed task queue", zap.String("addr", redisAddr))
		h.Submitter = queueSubmitter{q: q}
		return h
	}

	h.Runner = taskrunner.New(svc, taskrunner.DefaultConfig())
	h.Submitter = runnerSubmitter{runner: h.Runner}
	return h
}

type runnerSubmitter struct {
	runner *taskrunner.Runner
}

func (s runnerSubmitter) SubmitStoryTask(taskID, subject string) error {
	return s.runner.SubmitStoryTask(taskrunner.StoryTaskPayload{TaskID: taskID, Subject: subject})
}

type queueSubmitter struct {
	q *queue.Queue
}

func (s queueSubmitter) SubmitStoryTask(taskID, subject string) error {
	return s.q.EnqueueStoryTask(queue.StoryTaskPayload{TaskID: taskID, Subject: subject})
}

// configUpdated flags that the config API changed settings, so clients
// of the service need a fresh instance on the next request.
var configUpdated bool

func (h *Handler) refreshServiceIfNeeded() {
	if !configUpdated {
		return
	}
	h.Service = service.NewService()
	if h.Runner != nil {
		h.Runner.SetService(h.Service)
	}
	configUpdated = false
}

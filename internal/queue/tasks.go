package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"storyforge/internal/service"
	"storyforge/log"
)

// TaskHandlers provides handlers for different task types
type TaskHandlers struct {
	service *service.Service
}

// NewTaskHandlers creates a new TaskHandlers instance
func NewTaskHandlers(svc *service.Service) *TaskHandlers {
	return &TaskHandlers{service: svc}
}

// HandleStoryTask processes one pipeline job.
func (h *TaskHandlers) HandleStoryTask(ctx context.Context, t *asynq.Task) error {
	var payload StoryTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] Processing story task",
		zap.String("task_id", payload.TaskID),
		zap.String("subject", payload.Subject))

	if err := h.service.RunStoryTask(ctx, payload.TaskID, payload.Subject); err != nil {
		return err
	}

	log.GetLogger().Info("[Queue] Story task completed",
		zap.String("task_id", payload.TaskID))
	return nil
}

// Mux returns a ServeMux with all handlers registered.
func (h *TaskHandlers) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeStoryTask, h.HandleStoryTask)
	return mux
}

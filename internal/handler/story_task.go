package handler

import (
	"os"
	"path/filepath"

	"storyforge/internal/dto"
	"storyforge/internal/response"
	"storyforge/internal/storage"
	"storyforge/internal/types"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (h *Handler) StartStoryTask(c *gin.Context) {
	var req dto.StartStoryTaskReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("StartStoryTask ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}
	log.GetLogger().Info("StartStoryTask received request", zap.String("subject", req.Subject))

	h.refreshServiceIfNeeded()

	taskId := uuid.NewString()
	task := &types.StoryTask{
		TaskId:  taskId,
		Subject: req.Subject,
		Status:  types.StoryTaskStatusProcessing,
		Stage:   types.StageScriptGeneration,
	}
	if err := storage.SaveTask(task); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "save task failed", err))
		return
	}

	if err := h.Submitter.SubmitStoryTask(taskId, req.Subject); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeUnknown, "submit task failed", err))
		return
	}

	response.Success(c, dto.StartStoryTaskRes{TaskId: taskId})
}

func (h *Handler) GetStoryTask(c *gin.Context) {
	var req dto.GetStoryTaskReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	task, err := storage.GetTask(req.TaskId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "load task failed", err))
		return
	}
	if task == nil {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "task not found"))
		return
	}

	res := dto.GetStoryTaskRes{
		TaskId:        task.TaskId,
		Subject:       task.Subject,
		Status:        task.Status,
		Stage:         task.Stage,
		ProcessPct:    task.ProcessPct,
		FailReason:    task.FailReason,
		Style:         task.Style,
		Tone:          task.Tone,
		ScriptPath:    task.ScriptPath,
		AudioPath:     task.AudioPath,
		SrtPath:       task.SrtPath,
		ThumbnailPath: task.ThumbnailPath,
		VideoPath:     task.VideoPath,
		SegmentCount:  task.SegmentCount,
	}
	if records, err := storage.GetSceneImages(task.TaskId); err == nil {
		res.SceneImages = lo.Map(records, func(record types.SceneImageRecord, _ int) string {
			return record.ImagePath
		})
	}
	response.Success(c, res)
}

func (h *Handler) GetTaskHistory(c *gin.Context) {
	tasks, err := storage.GetTaskHistory(200)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "load task history failed", err))
		return
	}
	response.Success(c, tasks)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "taskId is required"))
		return
	}

	task, err := storage.GetTask(taskId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "load task failed", err))
		return
	}
	if task != nil {
		// Remove artifacts first; a failed file removal still lets the
		// record go.
		for _, path := range []string{task.ScriptPath, task.AudioPath, task.SrtPath, task.ThumbnailPath, task.VideoPath} {
			if path == "" {
				continue
			}
			if err = os.Remove(path); err != nil && !os.IsNotExist(err) {
				log.GetLogger().Warn("DeleteTask remove artifact err", zap.String("path", path), zap.Error(err))
			}
		}
		if records, err := storage.GetSceneImages(taskId); err == nil {
			for _, record := range records {
				if err = os.Remove(record.ImagePath); err != nil && !os.IsNotExist(err) {
					log.GetLogger().Warn("DeleteTask remove image err", zap.String("path", record.ImagePath), zap.Error(err))
				}
			}
		}
	}

	if err = storage.DeleteTask(taskId); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "delete task failed", err))
		return
	}
	response.Success(c, nil)
}

// RetryTask re-submits a finished or failed task under its original id.
func (h *Handler) RetryTask(c *gin.Context) {
	taskId := c.Param("taskId")
	if taskId == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "taskId is required"))
		return
	}

	task, err := storage.GetTask(taskId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "load task failed", err))
		return
	}
	if task == nil {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "task not found"))
		return
	}
	if task.Status == types.StoryTaskStatusProcessing {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "task is still running"))
		return
	}

	h.refreshServiceIfNeeded()

	task.Status = types.StoryTaskStatusProcessing
	task.Stage = types.StageScriptGeneration
	task.FailReason = ""
	task.ProcessPct = 0
	if err = storage.SaveTask(task); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "save task failed", err))
		return
	}

	if err = h.Submitter.SubmitStoryTask(taskId, task.Subject); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeUnknown, "submit task failed", err))
		return
	}
	response.Success(c, dto.StartStoryTaskRes{TaskId: taskId})
}

// DownloadFile serves a generated artifact as an attachment.
func (h *Handler) DownloadFile(c *gin.Context) {
	requestedFile := c.Param("filepath")
	if requestedFile == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "file path is required"))
		return
	}

	localFilePath := filepath.Join(".", filepath.Clean(requestedFile))
	if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
		c.JSON(404, response.FromError(apperrors.New(apperrors.CodeFileNotFound, "file not found")))
		return
	}
	c.FileAttachment(localFilePath, filepath.Base(localFilePath))
}

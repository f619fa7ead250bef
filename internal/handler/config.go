package handler

import (
	"storyforge/config"
	"storyforge/internal/response"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) GetConfig(c *gin.Context) {
	// Keys are masked: the UI only needs to know whether they are set.
	conf := config.Conf
	conf.Llm.ApiKey = maskKey(conf.Llm.ApiKey)
	conf.Tts.ApiKey = maskKey(conf.Tts.ApiKey)
	conf.Image.ApiKey = maskKey(conf.Image.ApiKey)
	conf.Search.ApiKey = maskKey(conf.Search.ApiKey)
	response.Success(c, conf)
}

func (h *Handler) UpdateConfig(c *gin.Context) {
	var updated config.Config
	if err := c.ShouldBindJSON(&updated); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "invalid parameters", err))
		return
	}

	// Masked keys come back unchanged; keep the stored ones.
	if isMasked(updated.Llm.ApiKey) {
		updated.Llm.ApiKey = config.Conf.Llm.ApiKey
	}
	if isMasked(updated.Tts.ApiKey) {
		updated.Tts.ApiKey = config.Conf.Tts.ApiKey
	}
	if isMasked(updated.Image.ApiKey) {
		updated.Image.ApiKey = config.Conf.Image.ApiKey
	}
	if isMasked(updated.Search.ApiKey) {
		updated.Search.ApiKey = config.Conf.Search.ApiKey
	}

	config.Conf = updated
	if err := config.SaveConfig(); err != nil {
		log.GetLogger().Error("UpdateConfig save error", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "save config failed", err))
		return
	}

	configUpdated = true
	response.Success(c, nil)
}

const keyMask = "********"

func maskKey(key string) string {
	if key == "" {
		return ""
	}
	return keyMask
}

func isMasked(key string) bool {
	return key == keyMask
}

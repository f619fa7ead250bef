package router

import (
	"storyforge/internal/handler"

	"github.com/gin-gonic/gin"
)

func SetupRouter(r *gin.Engine) {
	api := r.Group("/api")

	hdl := handler.NewHandler()
	{
		api.POST("/story", hdl.StartStoryTask)
		api.GET("/story", hdl.GetStoryTask)
		api.GET("/story/history", hdl.GetTaskHistory)
		api.DELETE("/story/:taskId", hdl.DeleteTask)
		api.POST("/story/:taskId/retry", hdl.RetryTask)
		api.GET("/file/*filepath", hdl.DownloadFile)
		api.HEAD("/file/*filepath", hdl.DownloadFile)
		api.GET("/config", hdl.GetConfig)
		api.POST("/config", hdl.UpdateConfig)
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"storyforge/config"
	"storyforge/internal/router"
	"storyforge/internal/storage"
	"storyforge/log"
)

func main() {
	// A .env next to the binary can supply GEMINI_API_KEY and friends.
	_ = godotenv.Load()

	log.InitLogger()
	defer log.GetLogger().Sync()

	created, err := config.LoadOrCreateConfig()
	if err != nil {
		log.GetLogger().Error("load config failed", zap.Error(err))
		return
	}
	if created {
		log.GetLogger().Info("default config written, fill in the api keys and restart")
	}
	if err = config.CheckConfig(); err != nil {
		log.GetLogger().Error("config incomplete", zap.Error(err))
		return
	}

	storage.InitDB()

	// Tasks left "processing" by a previous run can never finish.
	if count, err := storage.MarkStaleTasks(); err != nil {
		log.GetLogger().Warn("failed to mark stale tasks", zap.Error(err))
	} else if count > 0 {
		log.GetLogger().Info("marked stale tasks as failed", zap.Int64("count", count))
	}

	if err = storage.LocateBinaries(config.Conf.Video.FfmpegPath, config.Conf.Video.FfprobePath); err != nil {
		log.GetLogger().Error("ffmpeg/ffprobe not found", zap.Error(err))
		return
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.Default()
	router.SetupRouter(engine)

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	log.GetLogger().Info("server starting", zap.String("addr", addr))
	if err = engine.Run(addr); err != nil {
		log.GetLogger().Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"storyforge/internal/response"
	"storyforge/internal/storage"
	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&types.StoryTask{}, &types.SceneImageRecord{}))

	original := storage.DB
	storage.DB = db
	t.Cleanup(func() { storage.DB = original })
}

func testRouter(hdl *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/story", hdl.StartStoryTask)
	r.GET("/api/story", hdl.GetStoryTask)
	r.GET("/api/story/history", hdl.GetTaskHistory)
	r.DELETE("/api/story/:taskId", hdl.DeleteTask)
	r.POST("/api/story/:taskId/retry", hdl.RetryTask)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path, body string) response.Response {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestStartStoryTaskInvalidParams(t *testing.T) {
	setupTestDB(t)
	r := testRouter(&Handler{})

	resp := doRequest(t, r, http.MethodPost, "/api/story", `{}`)
	require.Equal(t, int32(apperrors.CodeInvalidParams), resp.Error)
}

func TestGetStoryTask(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, storage.SaveTask(&types.StoryTask{
		TaskId:     "t1",
		Subject:    "a lighthouse keeper",
		Status:     types.StoryTaskStatusSuccess,
		Stage:      types.StageAssembly,
		ProcessPct: 100,
		Style:      "Drama",
		VideoPath:  "/outputs/videos/t1.mp4",
	}))
	require.NoError(t, storage.SaveSceneImage(&types.SceneImageRecord{
		TaskId: "t1", SegmentIndex: 0, ImagePath: "/outputs/images/t1_scene_0.jpg",
	}))

	r := testRouter(&Handler{})
	resp := doRequest(t, r, http.MethodGet, "/api/story?taskId=t1", "")
	require.Zero(t, resp.Error)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	require.Equal(t, "a lighthouse keeper", body["subject"])
	require.Equal(t, "Drama", body["style"])
	require.Len(t, body["scene_images"], 1)
}

func TestGetStoryTaskNotFound(t *testing.T) {
	setupTestDB(t)
	r := testRouter(&Handler{})

	resp := doRequest(t, r, http.MethodGet, "/api/story?taskId=missing", "")
	require.Equal(t, int32(apperrors.CodeNotFound), resp.Error)
}

func TestGetTaskHistory(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, storage.SaveTask(&types.StoryTask{TaskId: "t1", Subject: "one"}))
	require.NoError(t, storage.SaveTask(&types.StoryTask{TaskId: "t2", Subject: "two"}))

	r := testRouter(&Handler{})
	resp := doRequest(t, r, http.MethodGet, "/api/story/history", "")
	require.Zero(t, resp.Error)

	items, ok := resp.Data.([]any)
	require.True(t, ok)
	require.Len(t, items, 2)
}

func TestDeleteTask(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, storage.SaveTask(&types.StoryTask{TaskId: "t1", Subject: "gone"}))

	r := testRouter(&Handler{})
	resp := doRequest(t, r, http.MethodDelete, "/api/story/t1", "")
	require.Zero(t, resp.Error)

	task, err := storage.GetTask("t1")
	require.NoError(t, err)
	require.Nil(t, task)
}

func TestRetryTaskStillRunning(t *testing.T) {
	setupTestDB(t)
	require.NoError(t, storage.SaveTask(&types.StoryTask{
		TaskId: "t1", Subject: "busy", Status: types.StoryTaskStatusProcessing,
	}))

	r := testRouter(&Handler{})
	resp := doRequest(t, r, http.MethodPost, "/api/story/t1/retry", "")
	require.Equal(t, int32(apperrors.CodeInvalidParams), resp.Error)
}

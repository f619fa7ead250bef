package types

import "time"

// StoryTask statuses
const (
	StoryTaskStatusProcessing uint8 = 1
	StoryTaskStatusSuccess    uint8 = 2
	StoryTaskStatusFailed     uint8 = 3
)

// Pipeline stage names used for status reporting.
const (
	StageScriptGeneration = "script_generation"
	StageNarration        = "narration"
	StageSceneImages      = "scene_images"
	StageAssembly         = "assembly"
)

// StoryTask is the persisted record of one pipeline run.
type StoryTask struct {
	Id            int64  `gorm:"primaryKey;autoIncrement"`
	TaskId        string `gorm:"index;size:64"`
	Subject       string `gorm:"size:512"`
	Status        uint8
	StatusMsg     string `gorm:"size:256"`
	Stage         string `gorm:"size:64"`
	FailReason    string `gorm:"size:1024"`
	ProcessPct    uint8
	Style         string `gorm:"size:128"`
	Tone          string `gorm:"size:128"`
	ScriptPath    string `gorm:"size:512"`
	AudioPath     string `gorm:"size:512"`
	SrtPath       string `gorm:"size:512"`
	ThumbnailPath string `gorm:"size:512"`
	VideoPath     string `gorm:"size:512"`
	SegmentCount  int
	CreateTime    int64 `gorm:"autoCreateTime"`
	UpdateTime    int64 `gorm:"autoUpdateTime"`
}

func (StoryTask) TableName() string {
	return "story_tasks"
}

// SceneImageRecord persists one generated scene image of a run.
type SceneImageRecord struct {
	Id           int64  `gorm:"primaryKey;autoIncrement"`
	TaskId       string `gorm:"index;size:64"`
	SegmentIndex int
	ImagePath    string `gorm:"size:512"`
	CreatedAt    time.Time
}

func (SceneImageRecord) TableName() string {
	return "scene_images"
}

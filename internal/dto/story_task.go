package dto

// StartStoryTaskReq starts one subject through the pipeline.
type StartStoryTaskReq struct {
	Subject string `json:"subject" binding:"required"`
}

// StartStoryTaskRes returns the id the client polls with.
type StartStoryTaskRes struct {
	TaskId string `json:"task_id"`
}

// GetStoryTaskReq polls one task.
type GetStoryTaskReq struct {
	TaskId string `form:"taskId" binding:"required"`
}

// GetStoryTaskRes is the poll reply.
type GetStoryTaskRes struct {
	TaskId        string   `json:"task_id"`
	Subject       string   `json:"subject"`
	Status        uint8    `json:"status"`
	Stage         string   `json:"stage"`
	ProcessPct    uint8    `json:"process_percent"`
	FailReason    string   `json:"fail_reason,omitempty"`
	Style         string   `json:"style,omitempty"`
	Tone          string   `json:"tone,omitempty"`
	ScriptPath    string   `json:"script_path,omitempty"`
	AudioPath     string   `json:"audio_path,omitempty"`
	SrtPath       string   `json:"srt_path,omitempty"`
	ThumbnailPath string   `json:"thumbnail_path,omitempty"`
	VideoPath     string   `json:"video_path,omitempty"`
	SegmentCount  int      `json:"segment_count"`
	SceneImages   []string `json:"scene_images,omitempty"`
}

package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"storyforge/config"
	"storyforge/internal/appdirs"
	"storyforge/internal/storage"
	"storyforge/internal/types"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"
	"storyforge/pkg/util"

	"go.uber.org/zap"
)

// RunStoryTask drives one subject through the whole pipeline: script,
// voices, narration, timeline, scene images, assembly. Task state is
// persisted after every stage so the API can report progress; a stage
// failure stops the run and marks the task failed with the stage name.
func (s Service) RunStoryTask(ctx context.Context, taskId, subject string) error {
	task, err := storage.GetTask(taskId)
	if err != nil || task == nil {
		task = &types.StoryTask{TaskId: taskId, Subject: subject}
	}
	task.Status = types.StoryTaskStatusProcessing

	paths, err := appdirs.Resolve()
	if err != nil {
		return s.failTask(task, types.StageScriptGeneration, apperrors.Wrap(apperrors.CodeUnknown, "resolve app directories failed", err))
	}
	for _, dir := range []string{
		appdirs.ScriptDirFor(paths), appdirs.AudioDirFor(paths), appdirs.SrtDirFor(paths),
		appdirs.ImageDirFor(paths), appdirs.VideoDirFor(paths),
	} {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return s.failTask(task, types.StageScriptGeneration, apperrors.Wrap(apperrors.CodeFileWriteError, "create output directory failed", err))
		}
	}
	tempDir := appdirs.TempDirFor(paths, taskId)
	if err = os.MkdirAll(tempDir, 0o755); err != nil {
		return s.failTask(task, types.StageScriptGeneration, apperrors.Wrap(apperrors.CodeFileWriteError, "create temp directory failed", err))
	}
	defer os.RemoveAll(tempDir)

	// Stage 1: script
	s.advance(task, types.StageScriptGeneration, 5)
	script, err := s.GenerateScript(ctx, subject)
	if err != nil {
		return s.failTask(task, types.StageScriptGeneration, err)
	}
	metadata, segments, err := ParseScript(script)
	if err != nil {
		return s.failTask(task, types.StageScriptGeneration, err)
	}
	if len(segments) == 0 {
		return s.failTask(task, types.StageScriptGeneration,
			apperrors.New(apperrors.CodeScriptEmpty, "script parsed to zero segments"))
	}

	scriptPath := filepath.Join(appdirs.ScriptDirFor(paths), fmt.Sprintf("%s_script.txt", taskId))
	if err = os.WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		return s.failTask(task, types.StageScriptGeneration, apperrors.Wrap(apperrors.CodeFileWriteError, "write script failed", err))
	}
	task.Style = metadata.Style
	task.Tone = metadata.Tone
	task.ScriptPath = scriptPath
	task.SegmentCount = len(segments)
	s.advance(task, types.StageNarration, 20)

	// Stage 2: narration
	voiceMap := s.AssignVoices(segments)
	rendered, err := s.SynthesizeSegments(ctx, segments, voiceMap, tempDir)
	if err != nil {
		return s.failTask(task, types.StageNarration, err)
	}
	wavPath := filepath.Join(appdirs.AudioDirFor(paths), fmt.Sprintf("%s_narration.wav", taskId))
	mp3Path := filepath.Join(appdirs.AudioDirFor(paths), fmt.Sprintf("%s_narration.mp3", taskId))
	if err = s.WriteNarrationAudio(rendered, wavPath, mp3Path); err != nil {
		return s.failTask(task, types.StageNarration, err)
	}

	entries := BuildTimeline(rendered)
	srtPath := filepath.Join(appdirs.SrtDirFor(paths), fmt.Sprintf("%s_subtitles.srt", taskId))
	if err = os.WriteFile(srtPath, []byte(SerializeSRT(entries)), 0o644); err != nil {
		return s.failTask(task, types.StageNarration, apperrors.Wrap(apperrors.CodeFileWriteError, "write subtitles failed", err))
	}
	task.AudioPath = mp3Path
	task.SrtPath = srtPath
	s.advance(task, types.StageSceneImages, 55)

	// Stage 3: scene images, best effort per segment
	imageDir := appdirs.ImageDirFor(paths)
	images := s.GenerateSceneImages(ctx, segments, script, imageDir, taskId)
	for _, img := range images {
		if err = storage.SaveSceneImage(&types.SceneImageRecord{
			TaskId:       taskId,
			SegmentIndex: img.SegmentIndex,
			ImagePath:    img.ImagePath,
		}); err != nil {
			log.GetLogger().Warn("RunStoryTask save scene image record error", zap.Error(err))
		}
	}
	task.ThumbnailPath = s.GenerateOverviewThumbnail(ctx, script, imageDir, taskId)
	s.advance(task, types.StageAssembly, 75)

	// Stage 4: assembly
	videoPath := filepath.Join(appdirs.VideoDirFor(paths), fmt.Sprintf("%s_%s.mp4", taskId, util.SanitizePathName(util.TruncateString(subject, 40))))
	err = s.AssembleVideo(ctx, AssemblyInput{
		Rendered:   rendered,
		Images:     images,
		AudioPath:  wavPath,
		SrtPath:    srtPath,
		OutputPath: videoPath,
		Settings:   assemblySettingsFromConfig(),
	})
	if err != nil {
		return s.failTask(task, types.StageAssembly, err)
	}

	task.VideoPath = videoPath
	task.Status = types.StoryTaskStatusSuccess
	task.ProcessPct = 100
	if err = storage.SaveTask(task); err != nil {
		log.GetLogger().Error("RunStoryTask save final task error", zap.Error(err))
	}
	log.GetLogger().Info("story task finished",
		zap.String("task id", taskId),
		zap.String("video", videoPath),
		zap.Int("segments", len(segments)),
		zap.Int("images", len(images)))
	return nil
}

func (s Service) advance(task *types.StoryTask, stage string, pct uint8) {
	task.Stage = stage
	task.ProcessPct = pct
	if err := storage.SaveTask(task); err != nil {
		log.GetLogger().Warn("advance save task error", zap.String("task id", task.TaskId), zap.Error(err))
	}
}

func (s Service) failTask(task *types.StoryTask, stage string, cause error) error {
	task.Status = types.StoryTaskStatusFailed
	task.Stage = stage
	task.FailReason = apperrors.GetMessage(cause)
	if err := storage.SaveTask(task); err != nil {
		log.GetLogger().Error("failTask save task error", zap.String("task id", task.TaskId), zap.Error(err))
	}
	log.GetLogger().Error("story task failed",
		zap.String("task id", task.TaskId),
		zap.String("stage", stage),
		zap.Error(cause))
	return cause
}

func assemblySettingsFromConfig() types.VideoAssemblySettings {
	v := config.Conf.Video
	return types.VideoAssemblySettings{
		Width:              v.Width,
		Height:             v.Height,
		Fps:                v.Fps,
		VideoBitrate:       v.VideoBitrate,
		AudioBitrate:       v.AudioBitrate,
		VideoQuality:       v.VideoQuality,
		TransitionDuration: v.TransitionDuration,
		SubtitleFont:       v.SubtitleFont,
		SubtitleSize:       v.SubtitleSize,
		SubtitleColor:      v.SubtitleColor,
		SubtitleBorder:     v.SubtitleBorder,
		SubtitleBorderSize: v.SubtitleBorderSize,
	}.Normalized()
}

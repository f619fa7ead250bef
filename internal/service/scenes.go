package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"storyforge/internal/types"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"
	"storyforge/pkg/util"

	"go.uber.org/zap"
)

const scenePromptMaxLen = 200

// ScenePrompt derives the image prompt for a segment. An embedded
// VISUAL_PROMPT wins; otherwise the prompt falls back to the opening
// lines of the script so the image at least matches the story.
func ScenePrompt(segment types.ScriptSegment, script string) string {
	if segment.HasVisualPrompt() {
		return fmt.Sprintf(types.SceneImagePromptTemplate, segment.VisualPrompt)
	}
	return fmt.Sprintf(types.SceneImagePromptTemplate, scriptSummary(script))
}

// scriptSummary condenses the script's opening into prompt-sized text:
// the first few dialogue lines, speaker labels stripped.
func scriptSummary(script string) string {
	var parts []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || styleLineRegexp.MatchString(line) || strings.HasPrefix(line, types.VisualPromptMarker) {
			continue
		}
		_, text := splitSpeaker(line)
		parts = append(parts, text)
		if len(parts) == 3 {
			break
		}
	}
	return util.TruncateString(strings.Join(parts, " "), scenePromptMaxLen)
}

// GenerateSceneImages produces one image per segment, best effort: a
// segment whose generation fails simply has no image. Returns only the
// segments that got one.
func (s Service) GenerateSceneImages(ctx context.Context, segments []types.ScriptSegment, script, imageDir, runID string) []types.SceneImage {
	if s.ImageClient == nil {
		return nil
	}

	images := make([]types.SceneImage, 0, len(segments))
	for _, segment := range segments {
		prompt := ScenePrompt(segment, script)
		data, err := s.generateOneImage(ctx, prompt)
		if err != nil {
			log.GetLogger().Warn("GenerateSceneImages segment failed",
				zap.Int("segment", segment.Index), zap.Error(err))
			continue
		}

		imagePath := filepath.Join(imageDir, fmt.Sprintf("%s_scene_%d.jpg", runID, segment.Index))
		if err = util.SaveBinaryFile(imagePath, data); err != nil {
			log.GetLogger().Error("GenerateSceneImages save error",
				zap.String("path", imagePath), zap.Error(err))
			continue
		}
		images = append(images, types.SceneImage{SegmentIndex: segment.Index, ImagePath: imagePath})
	}
	return images
}

// GenerateOverviewThumbnail renders a single image for the story as a
// whole, used as the task's cover. Best effort: returns "" on failure.
func (s Service) GenerateOverviewThumbnail(ctx context.Context, script, imageDir, runID string) string {
	if s.ImageClient == nil {
		return ""
	}
	prompt := fmt.Sprintf(types.SceneImagePromptTemplate, scriptSummary(script))
	data, err := s.generateOneImage(ctx, prompt)
	if err != nil {
		log.GetLogger().Warn("GenerateOverviewThumbnail error", zap.Error(err))
		return ""
	}
	imagePath := filepath.Join(imageDir, fmt.Sprintf("%s_overview.jpg", runID))
	if err = util.SaveBinaryFile(imagePath, data); err != nil {
		log.GetLogger().Error("GenerateOverviewThumbnail save error", zap.String("path", imagePath), zap.Error(err))
		return ""
	}
	return imagePath
}

func (s Service) generateOneImage(ctx context.Context, prompt string) ([]byte, error) {
	var data []byte
	err := s.RetryPolicy.Do(ctx, func() error {
		var err error
		data, err = s.ImageClient.GenerateImage(ctx, prompt)
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeImageGenFailed, "image generation failed", err)
	}
	return data, nil
}

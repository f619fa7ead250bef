package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"storyforge/internal/mocks"
	"storyforge/internal/types"
	"storyforge/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestScenePromptEmbedded(t *testing.T) {
	segment := types.ScriptSegment{VisualPrompt: "A dark forest shrouded in mist."}
	prompt := ScenePrompt(segment, "ignored script body")
	require.Equal(t, "Create a cinematic, high-quality image representing: A dark forest shrouded in mist.", prompt)
}

func TestScenePromptFallback(t *testing.T) {
	script := `Style: Epic, Tone: Grim
VISUAL_PROMPT: ignored, it belongs to a segment
Elara: The path ends here.
Narrator: She stepped into the shadows.
Elara: And vanished.
Elara: This fourth line is not part of the summary.
`
	segment := types.ScriptSegment{VisualPrompt: types.NoVisualPrompt}
	prompt := ScenePrompt(segment, script)
	require.Contains(t, prompt, "Create a cinematic, high-quality image representing: ")
	// Speaker labels are stripped and only the opening lines are used.
	require.Contains(t, prompt, "The path ends here.")
	require.Contains(t, prompt, "She stepped into the shadows.")
	require.NotContains(t, prompt, "Elara:")
	require.NotContains(t, prompt, "fourth line")
	require.NotContains(t, prompt, "Style:")
}

func TestScenePromptFallbackTruncated(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'a'
	}
	prompt := ScenePrompt(types.ScriptSegment{}, string(long))
	require.LessOrEqual(t, len(prompt), len("Create a cinematic, high-quality image representing: ")+scenePromptMaxLen)
}

func TestGenerateSceneImages(t *testing.T) {
	imageGen := new(mocks.MockImageGenerator)
	imageGen.On("GenerateImage", mock.Anything, mock.Anything).Return([]byte{0xFF, 0xD8}, nil)

	s := Service{ImageClient: imageGen, RetryPolicy: retry.Policy{MaxAttempts: 1}}
	segments := []types.ScriptSegment{
		{Index: 0, VisualPrompt: "scene one"},
		{Index: 2, VisualPrompt: "scene three"},
	}

	dir := t.TempDir()
	images := s.GenerateSceneImages(context.Background(), segments, "script", dir, "run1")
	require.Len(t, images, 2)
	require.Equal(t, 0, images[0].SegmentIndex)
	require.Equal(t, 2, images[1].SegmentIndex)
	for _, img := range images {
		require.FileExists(t, img.ImagePath)
		require.Equal(t, dir, filepath.Dir(img.ImagePath))
	}
}

func TestGenerateSceneImagesBestEffort(t *testing.T) {
	imageGen := new(mocks.MockImageGenerator)
	failedPrompt := "Create a cinematic, high-quality image representing: bad scene"
	imageGen.On("GenerateImage", mock.Anything, failedPrompt).Return(nil, errors.New("blocked"))
	imageGen.On("GenerateImage", mock.Anything, mock.Anything).Return([]byte{1}, nil)

	s := Service{ImageClient: imageGen, RetryPolicy: retry.Policy{MaxAttempts: 1}}
	segments := []types.ScriptSegment{
		{Index: 0, VisualPrompt: "good scene"},
		{Index: 1, VisualPrompt: "bad scene"},
		{Index: 2, VisualPrompt: "another good scene"},
	}

	images := s.GenerateSceneImages(context.Background(), segments, "script", t.TempDir(), "run1")
	require.Len(t, images, 2)
	require.Equal(t, 0, images[0].SegmentIndex)
	require.Equal(t, 2, images[1].SegmentIndex)
}

func TestGenerateSceneImagesDisabled(t *testing.T) {
	s := Service{}
	images := s.GenerateSceneImages(context.Background(), []types.ScriptSegment{{Index: 0}}, "script", t.TempDir(), "run1")
	require.Nil(t, images)
}

func TestGenerateOverviewThumbnail(t *testing.T) {
	imageGen := new(mocks.MockImageGenerator)
	imageGen.On("GenerateImage", mock.Anything, mock.Anything).Return([]byte{1, 2, 3}, nil)

	s := Service{ImageClient: imageGen, RetryPolicy: retry.Policy{MaxAttempts: 1}}
	dir := t.TempDir()
	path := s.GenerateOverviewThumbnail(context.Background(), "Narrator: A story.", dir, "run1")
	require.NotEmpty(t, path)
	require.FileExists(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
}

func TestGenerateOverviewThumbnailFailure(t *testing.T) {
	imageGen := new(mocks.MockImageGenerator)
	imageGen.On("GenerateImage", mock.Anything, mock.Anything).Return(nil, errors.New("down"))

	s := Service{ImageClient: imageGen, RetryPolicy: retry.Policy{MaxAttempts: 1}}
	require.Empty(t, s.GenerateOverviewThumbnail(context.Background(), "script", t.TempDir(), "run1"))
}

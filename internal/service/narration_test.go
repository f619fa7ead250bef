package service

import (
	"context"
	"errors"
	"testing"

	"storyforge/internal/mocks"
	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"
	"storyforge/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// rawPCM returns headerless 16-bit mono PCM lasting ms milliseconds at
// the narration rate.
func rawPCM(ms int) []byte {
	return make([]byte, narrationSampleRate*2*ms/1000)
}

const rawMime = "audio/L16;rate=24000"

func narrationTestService(ttser types.Ttser) Service {
	return Service{
		TtsClient:   ttser,
		RetryPolicy: retry.Policy{MaxAttempts: 1},
	}
}

func TestSynthesizeSegments(t *testing.T) {
	ttser := new(mocks.MockTtser)
	ttser.On("Synthesize", mock.Anything, "Hello.", "Zephyr").Return(rawPCM(1200), rawMime, nil)
	ttser.On("Synthesize", mock.Anything, "World.", "Puck").Return(rawPCM(800), rawMime, nil)

	s := narrationTestService(ttser)
	segments := []types.ScriptSegment{
		{Index: 0, Speaker: "A", Text: "Hello."},
		{Index: 1, Speaker: "B", Text: "World."},
	}
	voiceMap := map[string]string{"A": "Zephyr", "B": "Puck"}

	rendered, err := s.SynthesizeSegments(context.Background(), segments, voiceMap, t.TempDir())
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	require.Equal(t, 1200, rendered[0].DurationMs)
	require.Equal(t, "Zephyr", rendered[0].VoiceId)
	require.Equal(t, 800, rendered[1].DurationMs)
	ttser.AssertExpectations(t)
}

func TestSynthesizeSegmentsFailureIsolated(t *testing.T) {
	ttser := new(mocks.MockTtser)
	ttser.On("Synthesize", mock.Anything, "Third.", "V").Return(nil, "", errors.New("quota exceeded"))
	ttser.On("Synthesize", mock.Anything, mock.Anything, "V").Return(rawPCM(500), rawMime, nil)

	s := narrationTestService(ttser)
	var segments []types.ScriptSegment
	texts := []string{"First.", "Second.", "Third.", "Fourth.", "Fifth."}
	for i, text := range texts {
		segments = append(segments, types.ScriptSegment{Index: i, Speaker: "S", Text: text})
	}

	rendered, err := s.SynthesizeSegments(context.Background(), segments, map[string]string{"S": "V"}, t.TempDir())
	require.NoError(t, err)
	require.Len(t, rendered, 5)

	positive := 0
	for i, r := range rendered {
		if i == 2 {
			require.Zero(t, r.DurationMs)
			require.Empty(t, r.PCM)
			continue
		}
		require.Equal(t, 500, r.DurationMs)
		positive++
	}
	require.Equal(t, 4, positive)
}

func TestSynthesizeSegmentsAllFailed(t *testing.T) {
	ttser := new(mocks.MockTtser)
	ttser.On("Synthesize", mock.Anything, mock.Anything, mock.Anything).Return(nil, "", errors.New("down"))

	s := narrationTestService(ttser)
	segments := []types.ScriptSegment{{Index: 0, Speaker: "S", Text: "Hi."}}

	_, err := s.SynthesizeSegments(context.Background(), segments, map[string]string{"S": "V"}, t.TempDir())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.CodeTTSFailed))
}

func TestSynthesizeSegmentsMissingVoice(t *testing.T) {
	s := narrationTestService(new(mocks.MockTtser))
	segments := []types.ScriptSegment{{Index: 0, Speaker: "Ghost", Text: "Boo."}}

	_, err := s.SynthesizeSegments(context.Background(), segments, map[string]string{}, t.TempDir())
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.CodeVoiceNotFound))
}

func TestSynthesizeSegmentsRetries(t *testing.T) {
	ttser := new(mocks.MockTtser)
	ttser.On("Synthesize", mock.Anything, "Hi.", "V").Return(nil, "", errors.New("flaky")).Once()
	ttser.On("Synthesize", mock.Anything, "Hi.", "V").Return(rawPCM(300), rawMime, nil).Once()

	s := Service{
		TtsClient:   ttser,
		RetryPolicy: retry.Policy{MaxAttempts: 2, MinDelay: 1, MaxDelay: 1},
	}
	segments := []types.ScriptSegment{{Index: 0, Speaker: "S", Text: "Hi."}}

	rendered, err := s.SynthesizeSegments(context.Background(), segments, map[string]string{"S": "V"}, t.TempDir())
	require.NoError(t, err)
	require.Equal(t, 300, rendered[0].DurationMs)
	ttser.AssertExpectations(t)
}

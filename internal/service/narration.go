package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"storyforge/internal/types"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"
	"storyforge/pkg/util"

	"go.uber.org/zap"
)

// narrationSampleRate is the canonical PCM rate of the narration track.
// Raw Gemini audio already arrives at this rate; anything else is
// resampled on decode.
const narrationSampleRate = 24000

const narrationBitsPerSample = 16

// SynthesizeSegments renders every segment to speech, one call at a
// time. A failed segment is isolated: it keeps its place in the result
// with DurationMs 0 and empty PCM so later stages can skip it without
// losing track of indexes. tempDir holds intermediate files for audio
// formats that need ffmpeg decoding.
func (s Service) SynthesizeSegments(ctx context.Context, segments []types.ScriptSegment, voiceMap map[string]string, tempDir string) ([]types.RenderedSegment, error) {
	rendered := make([]types.RenderedSegment, 0, len(segments))
	failures := 0
	for _, segment := range segments {
		voice, ok := voiceMap[segment.Speaker]
		if !ok {
			return nil, apperrors.New(apperrors.CodeVoiceNotFound, fmt.Sprintf("no voice assigned for speaker %q", segment.Speaker))
		}

		pcm, err := s.synthesizeOne(ctx, segment, voice, tempDir)
		if err != nil {
			failures++
			log.GetLogger().Warn("SynthesizeSegments segment failed",
				zap.Int("segment", segment.Index),
				zap.String("speaker", segment.Speaker),
				zap.Error(err))
			pcm = nil
		}

		rendered = append(rendered, types.RenderedSegment{
			Segment:    segment,
			VoiceId:    voice,
			DurationMs: util.PCMDurationMs(len(pcm), narrationSampleRate, narrationBitsPerSample),
			PCM:        pcm,
		})

		// Spacing between calls keeps us under the provider's rate limit.
		if s.RateLimitDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.RateLimitDelay):
			}
		}
	}

	if failures == len(segments) && len(segments) > 0 {
		return nil, apperrors.New(apperrors.CodeTTSFailed, "speech synthesis failed for every segment")
	}
	return rendered, nil
}

// synthesizeOne calls the TTS provider under the retry policy and
// normalizes the reply to canonical mono PCM.
func (s Service) synthesizeOne(ctx context.Context, segment types.ScriptSegment, voice, tempDir string) ([]byte, error) {
	var audio []byte
	var mimeType string
	err := s.RetryPolicy.Do(ctx, func() error {
		var err error
		audio, mimeType, err = s.TtsClient.Synthesize(ctx, segment.Text, voice)
		return err
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTTSFailed, "speech synthesis failed", err)
	}
	return normalizePCM(audio, mimeType, segment.Index, tempDir)
}

// normalizePCM converts provider audio to 16-bit mono PCM at the
// narration rate. Raw linear PCM at the right rate passes through
// untouched; everything else takes a round trip through ffmpeg.
func normalizePCM(audio []byte, mimeType string, segmentIndex int, tempDir string) ([]byte, error) {
	if util.IsRawAudioMime(mimeType) {
		if _, rate := util.ParseAudioMimeType(mimeType); rate == narrationSampleRate {
			return audio, nil
		}
		// Wrong rate: give it a header so ffmpeg can resample it.
		audio = util.WrapPCMInWav(audio, mimeType)
	}

	tempFile := filepath.Join(tempDir, fmt.Sprintf("segment_%d_raw", segmentIndex))
	if err := util.SaveBinaryFile(tempFile, audio); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAudioDecode, "write temp audio failed", err)
	}
	defer os.Remove(tempFile)

	pcm, err := util.DecodeToMonoPCM(tempFile, narrationSampleRate)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAudioDecode, "decode provider audio failed", err)
	}
	return pcm, nil
}

// WriteNarrationAudio concatenates the rendered PCM into one track and
// writes it as WAV, then MP3. Zero-duration segments contribute nothing.
func (s Service) WriteNarrationAudio(rendered []types.RenderedSegment, wavPath, mp3Path string) error {
	var combined []byte
	for _, r := range rendered {
		if r.DurationMs <= 0 {
			continue
		}
		combined = append(combined, r.PCM...)
	}
	if len(combined) == 0 {
		return apperrors.New(apperrors.CodeAudioConcat, "no audio was rendered")
	}

	mime := fmt.Sprintf("audio/L%d;rate=%d", narrationBitsPerSample, narrationSampleRate)
	if err := util.SaveBinaryFile(wavPath, util.WrapPCMInWav(combined, mime)); err != nil {
		return apperrors.Wrap(apperrors.CodeAudioConcat, "write narration wav failed", err)
	}
	if err := util.EncodeWavToMP3(wavPath, mp3Path); err != nil {
		return apperrors.Wrap(apperrors.CodeAudioConcat, "encode narration mp3 failed", err)
	}
	log.GetLogger().Info("narration audio written",
		zap.String("wav", wavPath),
		zap.String("mp3", mp3Path),
		zap.Int("pcm bytes", len(combined)))
	return nil
}

package service

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"storyforge/internal/storage"
	"storyforge/internal/types"
	"storyforge/log"
	apperrors "storyforge/pkg/errors"

	"go.uber.org/zap"
)

// AssemblyInput collects everything the encoder run needs. Images are
// paired with rendered segments by the segment index the image was
// generated for, not by list position, so a failed image in the middle
// does not shift every later scene onto the wrong stretch of audio.
type AssemblyInput struct {
	Rendered   []types.RenderedSegment
	Images     []types.SceneImage
	AudioPath  string
	SrtPath    string
	OutputPath string
	Settings   types.VideoAssemblySettings
}

// sceneClip is one image shown for a concrete duration.
type sceneClip struct {
	ImagePath   string
	DurationSec float64
}

// AssembleVideo renders the final video: each scene image held for its
// segment's narration duration, the narration track underneath, and the
// subtitles burned in.
func (s Service) AssembleVideo(ctx context.Context, input AssemblyInput) error {
	for _, path := range []string{input.AudioPath, input.SrtPath} {
		if _, err := os.Stat(path); err != nil {
			return apperrors.Wrap(apperrors.CodeAssetMissing, fmt.Sprintf("assembly asset missing: %s", path), err)
		}
	}

	clips, err := buildSceneClips(input.Rendered, input.Images)
	if err != nil {
		return err
	}

	settings := input.Settings.Normalized()
	args := buildFfmpegArgs(clips, input.AudioPath, input.SrtPath, input.OutputPath, settings)

	log.GetLogger().Info("AssembleVideo encoding",
		zap.Int("clips", len(clips)),
		zap.String("output", input.OutputPath))
	cmd := exec.CommandContext(ctx, storage.FfmpegPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("AssembleVideo ffmpeg error",
			zap.String("output", string(output)), zap.Error(err))
		return apperrors.WrapWithDetail(apperrors.CodeEncoderFailed, "video encoding failed", string(output), err)
	}

	if _, err = os.Stat(input.OutputPath); err != nil {
		return apperrors.Wrap(apperrors.CodeEncoderFailed, "encoder produced no output file", err)
	}
	return nil
}

// buildSceneClips pairs each audible segment with the image generated
// for it, matching on the original segment index. A segment without an
// image lends its duration to the previous clip so the timeline length
// is preserved; audible segments before the first image lend theirs to
// the first clip. Fails when no audible segment has an image, since
// there would be nothing to show.
func buildSceneClips(rendered []types.RenderedSegment, images []types.SceneImage) ([]sceneClip, error) {
	imageBySegment := make(map[int]string, len(images))
	for _, img := range images {
		if _, err := os.Stat(img.ImagePath); err != nil {
			log.GetLogger().Warn("buildSceneClips image file missing",
				zap.Int("segment", img.SegmentIndex), zap.String("path", img.ImagePath))
			continue
		}
		imageBySegment[img.SegmentIndex] = img.ImagePath
	}
	if len(imageBySegment) == 0 {
		return nil, apperrors.New(apperrors.CodeNoSceneImages, "no scene images available for assembly")
	}

	var clips []sceneClip
	var leadingSec float64
	for _, r := range rendered {
		if r.DurationMs <= 0 {
			continue
		}
		durationSec := float64(r.DurationMs) / 1000
		if durationSec < types.MinClipDurationSec {
			durationSec = types.MinClipDurationSec
		}

		path, ok := imageBySegment[r.Segment.Index]
		if !ok {
			if len(clips) == 0 {
				leadingSec += durationSec
			} else {
				clips[len(clips)-1].DurationSec += durationSec
			}
			continue
		}
		clips = append(clips, sceneClip{ImagePath: path, DurationSec: durationSec + leadingSec})
		leadingSec = 0
	}
	if len(clips) == 0 {
		return nil, apperrors.New(apperrors.CodeAssemblyFailed, "no audible segment has a scene image")
	}
	return clips, nil
}

// buildFfmpegArgs assembles the full encoder invocation: one looped
// image input per clip, the narration as the last input, a filter graph
// that scales/pads/trims/concats the clips and burns the subtitles, and
// the encoder settings.
func buildFfmpegArgs(clips []sceneClip, audioPath, srtPath, outputPath string, settings types.VideoAssemblySettings) []string {
	args := []string{"-y"}
	for _, clip := range clips {
		args = append(args,
			"-loop", "1",
			"-t", fmt.Sprintf("%.3f", clip.DurationSec),
			"-i", clip.ImagePath,
		)
	}
	args = append(args, "-i", audioPath)

	args = append(args, "-filter_complex", buildFilterGraph(clips, srtPath, settings))
	args = append(args,
		"-map", "[outv]",
		"-map", fmt.Sprintf("%d:a", len(clips)),
		"-c:v", settings.VideoCodec,
	)
	if settings.VideoCodec == "libx264" {
		args = append(args, "-crf", fmt.Sprintf("%d", settings.VideoQuality), "-preset", "medium")
	} else {
		args = append(args, "-b:v", settings.VideoBitrate)
	}
	args = append(args,
		"-c:a", settings.AudioCodec,
		"-b:a", settings.AudioBitrate,
		"-r", fmt.Sprintf("%d", settings.Fps),
		"-pix_fmt", "yuv420p",
		"-shortest",
		outputPath,
	)
	return args
}

// buildFilterGraph chains scale/pad/trim per clip, concats them, and
// burns the subtitles on top.
func buildFilterGraph(clips []sceneClip, srtPath string, settings types.VideoAssemblySettings) string {
	var sb strings.Builder
	for i, clip := range clips {
		fmt.Fprintf(&sb,
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,trim=duration=%.3f,setpts=PTS-STARTPTS[v%d];",
			i, settings.Width, settings.Height, settings.Width, settings.Height, clip.DurationSec, i)
	}
	for i := range clips {
		fmt.Fprintf(&sb, "[v%d]", i)
	}
	fmt.Fprintf(&sb, "concat=n=%d:v=1:a=0[concatv];", len(clips))
	fmt.Fprintf(&sb, "[concatv]subtitles='%s':force_style='%s'[outv]",
		escapeSubtitlePath(srtPath), subtitleStyle(settings))
	return sb.String()
}

// subtitleStyle renders the force_style clause from the settings.
func subtitleStyle(settings types.VideoAssemblySettings) string {
	return fmt.Sprintf("FontName=%s,FontSize=%d,PrimaryColour=%s,OutlineColour=%s,Outline=%d",
		settings.SubtitleFont,
		settings.SubtitleSize,
		toASSColor(settings.SubtitleColor),
		toASSColor(settings.SubtitleBorder),
		settings.SubtitleBorderSize)
}

var namedASSColors = map[string]string{
	"white":  "&H00FFFFFF",
	"black":  "&H00000000",
	"red":    "&H000000FF",
	"green":  "&H0000FF00",
	"blue":   "&H00FF0000",
	"yellow": "&H0000FFFF",
	"cyan":   "&H00FFFF00",
}

// toASSColor converts a color name or "#RRGGBB" to the ASS &HAABBGGRR
// form libass expects. Note the byte order flip: ASS stores blue first.
func toASSColor(color string) string {
	color = strings.ToLower(strings.TrimSpace(color))
	if ass, ok := namedASSColors[color]; ok {
		return ass
	}
	if strings.HasPrefix(color, "#") && len(color) == 7 {
		r, g, b := color[1:3], color[3:5], color[5:7]
		return fmt.Sprintf("&H00%s%s%s", strings.ToUpper(b), strings.ToUpper(g), strings.ToUpper(r))
	}
	return namedASSColors["white"]
}

// escapeSubtitlePath quotes the subtitle filename for use inside a
// filter graph. Windows drive colons and backslashes need escaping.
func escapeSubtitlePath(path string) string {
	if runtime.GOOS == "windows" {
		path = strings.ReplaceAll(path, `\`, `\\`)
		path = strings.ReplaceAll(path, ":", `\:`)
		return path
	}
	return strings.ReplaceAll(path, "'", `\'`)
}

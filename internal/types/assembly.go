package types

import "strings"

// Video assembly defaults. Any omitted or invalid settings field falls
// back to these.
const (
	DefaultVideoWidth         = 1920
	DefaultVideoHeight        = 1080
	DefaultVideoFps           = 30
	DefaultVideoCodec         = "libx264"
	DefaultAudioCodec         = "aac"
	DefaultVideoBitrate       = "4M"
	DefaultAudioBitrate       = "192k"
	DefaultVideoQuality       = 23 // CRF for libx264
	DefaultSubtitleFont       = "Arial"
	DefaultSubtitleSize       = 24
	DefaultSubtitleColor      = "white"
	DefaultSubtitleBorder     = "black"
	DefaultSubtitleBorderSize = 2
	DefaultTransitionDuration = 1.0

	// MinClipDurationSec floors subtitle-derived clip durations to avoid
	// zero-length clips in the filter graph.
	MinClipDurationSec = 0.1
)

// VideoAssemblySettings controls canvas, encoder and subtitle styling of
// the assembled video.
type VideoAssemblySettings struct {
	Width              int
	Height             int
	Fps                int
	VideoCodec         string
	AudioCodec         string
	VideoBitrate       string
	AudioBitrate       string
	VideoQuality       int
	TransitionDuration float64
	SubtitleFont       string
	SubtitleSize       int
	SubtitleColor      string
	SubtitleBorder     string
	SubtitleBorderSize int
}

// DefaultVideoAssemblySettings returns the documented defaults.
func DefaultVideoAssemblySettings() VideoAssemblySettings {
	return VideoAssemblySettings{
		Width:              DefaultVideoWidth,
		Height:             DefaultVideoHeight,
		Fps:                DefaultVideoFps,
		VideoCodec:         DefaultVideoCodec,
		AudioCodec:         DefaultAudioCodec,
		VideoBitrate:       DefaultVideoBitrate,
		AudioBitrate:       DefaultAudioBitrate,
		VideoQuality:       DefaultVideoQuality,
		TransitionDuration: DefaultTransitionDuration,
		SubtitleFont:       DefaultSubtitleFont,
		SubtitleSize:       DefaultSubtitleSize,
		SubtitleColor:      DefaultSubtitleColor,
		SubtitleBorder:     DefaultSubtitleBorder,
		SubtitleBorderSize: DefaultSubtitleBorderSize,
	}
}

// Normalized returns a copy with every invalid field replaced by its
// default.
func (s VideoAssemblySettings) Normalized() VideoAssemblySettings {
	d := DefaultVideoAssemblySettings()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.Fps <= 0 {
		s.Fps = d.Fps
	}
	if strings.TrimSpace(s.VideoCodec) == "" {
		s.VideoCodec = d.VideoCodec
	}
	if strings.TrimSpace(s.AudioCodec) == "" {
		s.AudioCodec = d.AudioCodec
	}
	if strings.TrimSpace(s.VideoBitrate) == "" {
		s.VideoBitrate = d.VideoBitrate
	}
	if strings.TrimSpace(s.AudioBitrate) == "" {
		s.AudioBitrate = d.AudioBitrate
	}
	if s.VideoQuality <= 0 || s.VideoQuality > 51 {
		s.VideoQuality = d.VideoQuality
	}
	if s.TransitionDuration < 0 {
		s.TransitionDuration = d.TransitionDuration
	}
	if strings.TrimSpace(s.SubtitleFont) == "" {
		s.SubtitleFont = d.SubtitleFont
	}
	if s.SubtitleSize <= 0 {
		s.SubtitleSize = d.SubtitleSize
	}
	if strings.TrimSpace(s.SubtitleColor) == "" {
		s.SubtitleColor = d.SubtitleColor
	}
	if strings.TrimSpace(s.SubtitleBorder) == "" {
		s.SubtitleBorder = d.SubtitleBorder
	}
	if s.SubtitleBorderSize < 0 {
		s.SubtitleBorderSize = d.SubtitleBorderSize
	}
	return s
}

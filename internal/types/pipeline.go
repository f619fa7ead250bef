package types

// Script text conventions produced by the language model and consumed by
// the parser.
const (
	// VisualPromptMarker prefixes a scene description line. The line
	// itself never becomes a segment; it attaches to the next dialogue
	// line.
	VisualPromptMarker = "VISUAL_PROMPT:"

	// NoVisualPrompt is the sentinel for segments without an embedded
	// scene description.
	NoVisualPrompt = "no prompt"

	// DefaultSpeaker is used when a dialogue line carries no speaker
	// label.
	DefaultSpeaker = "Narrator"

	// UnknownStyle / UnknownTone fill in when the metadata line omits a
	// field.
	UnknownStyle = "Unknown"
	UnknownTone  = "Unknown"
)

// ScriptMetadata is parsed from the script's mandatory first line and
// shared by all segments of a run.
type ScriptMetadata struct {
	Style string
	Tone  string
}

// ScriptSegment is one speaker-attributed dialogue line plus its attached
// visual prompt. Segments preserve source line order and are read-only
// after parsing.
type ScriptSegment struct {
	Index        int
	Speaker      string
	Text         string
	VisualPrompt string
}

// HasVisualPrompt reports whether an embedded scene description is
// attached.
func (s ScriptSegment) HasVisualPrompt() bool {
	return s.VisualPrompt != "" && s.VisualPrompt != NoVisualPrompt
}

// RenderedSegment is a segment after audio synthesis. DurationMs of 0
// marks a failed segment: it contributes no subtitle entry and no audio.
type RenderedSegment struct {
	Segment    ScriptSegment
	VoiceId    string
	DurationMs int
	PCM        []byte
}

// SubtitleEntry is one block of the subtitle timeline. Indexes are
// 1-based and contiguous over non-zero-duration segments only; the
// timeline is zero-gap: entry N+1 starts where entry N ends.
type SubtitleEntry struct {
	Index   int
	StartMs int
	EndMs   int
	Text    string
}

// DurationMs returns the entry's time span.
func (e SubtitleEntry) DurationMs() int {
	return e.EndMs - e.StartMs
}

// SceneImage pairs a segment with its generated image, if any. A missing
// image is tolerated downstream; the segment simply has no visual.
type SceneImage struct {
	SegmentIndex int
	ImagePath    string
}

package service

import (
	"regexp"
	"strings"

	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"
)

var (
	styleLineRegexp = regexp.MustCompile(`(?i)^\s*style\s*:`)
	styleRegexp     = regexp.MustCompile(`(?i)style\s*:\s*([^,]+)`)
	toneRegexp      = regexp.MustCompile(`(?i)tone\s*:\s*(.+)`)
)

// ParseScript splits raw script text into ordered segments. The first
// line carries style/tone metadata, VISUAL_PROMPT lines attach to the
// next dialogue line, and everything else is dialogue with an optional
// "Speaker:" label.
func ParseScript(script string) (types.ScriptMetadata, []types.ScriptSegment, error) {
	metadata := types.ScriptMetadata{Style: types.UnknownStyle, Tone: types.UnknownTone}

	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	if len(lines) == 0 {
		return metadata, nil, apperrors.New(apperrors.CodeScriptEmpty, "script has no content")
	}

	// The first non-blank line is always the metadata line, even when it
	// carries no recognizable style or tone.
	if m := styleRegexp.FindStringSubmatch(lines[0]); m != nil {
		metadata.Style = strings.TrimSpace(m[1])
	}
	if m := toneRegexp.FindStringSubmatch(lines[0]); m != nil {
		metadata.Tone = strings.TrimSpace(m[1])
	}
	rest := lines[1:]

	segments := make([]types.ScriptSegment, 0, len(rest))
	pendingPrompt := types.NoVisualPrompt
	for _, line := range rest {
		if strings.HasPrefix(line, types.VisualPromptMarker) {
			prompt := strings.TrimSpace(strings.TrimPrefix(line, types.VisualPromptMarker))
			if prompt != "" {
				pendingPrompt = prompt
			}
			continue
		}

		speaker, text := splitSpeaker(line)
		segments = append(segments, types.ScriptSegment{
			Index:        len(segments),
			Speaker:      speaker,
			Text:         text,
			VisualPrompt: pendingPrompt,
		})
		pendingPrompt = types.NoVisualPrompt
	}

	return metadata, segments, nil
}

// splitSpeaker extracts a leading "Name:" label. A label is a short run
// of words before the first colon; anything longer is treated as prose
// that happens to contain a colon.
func splitSpeaker(line string) (speaker, text string) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return types.DefaultSpeaker, line
	}
	label := strings.TrimSpace(line[:idx])
	if label == "" || len(label) >= 30 || len(strings.Fields(label)) > 3 {
		return types.DefaultSpeaker, line
	}
	body := strings.TrimSpace(line[idx+1:])
	if body == "" {
		return types.DefaultSpeaker, line
	}
	return label, body
}

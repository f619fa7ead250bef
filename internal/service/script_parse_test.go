package service

import (
	"testing"

	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"

	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	script := `Style: Epic Fantasy, Tone: Mysterious

VISUAL_PROMPT: A dark forest shrouded in mist.
Elara: The path ends here.
Narrator: She stepped into the shadows.
`

	metadata, segments, err := ParseScript(script)
	require.NoError(t, err)
	require.Equal(t, "Epic Fantasy", metadata.Style)
	require.Equal(t, "Mysterious", metadata.Tone)

	require.Len(t, segments, 2)
	require.Equal(t, 0, segments[0].Index)
	require.Equal(t, "Elara", segments[0].Speaker)
	require.Equal(t, "The path ends here.", segments[0].Text)
	require.Equal(t, "A dark forest shrouded in mist.", segments[0].VisualPrompt)
	require.True(t, segments[0].HasVisualPrompt())

	require.Equal(t, 1, segments[1].Index)
	require.Equal(t, "Narrator", segments[1].Speaker)
	require.Equal(t, types.NoVisualPrompt, segments[1].VisualPrompt)
	require.False(t, segments[1].HasVisualPrompt())
}

func TestParseScriptMetadataVariants(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		wantStyle string
		wantTone  string
	}{
		{
			name:      "case insensitive",
			script:    "style: noir, TONE: grim\nA line of story.",
			wantStyle: "noir",
			wantTone:  "grim",
		},
		{
			name:      "missing tone",
			script:    "Style: Comedy\nA line of story.",
			wantStyle: "Comedy",
			wantTone:  types.UnknownTone,
		},
		{
			name:      "prose first line",
			script:    "Just a story line without any header.\nHero: On we go.",
			wantStyle: types.UnknownStyle,
			wantTone:  types.UnknownTone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, _, err := ParseScript(tt.script)
			require.NoError(t, err)
			require.Equal(t, tt.wantStyle, metadata.Style)
			require.Equal(t, tt.wantTone, metadata.Tone)
		})
	}
}

func TestParseScriptFirstLineNeverDialogue(t *testing.T) {
	_, segments, err := ParseScript("Hello there, friends.\nHero: I am ready.")
	require.NoError(t, err)
	require.Len(t, segments, 1)
	require.Equal(t, 0, segments[0].Index)
	require.Equal(t, "Hero", segments[0].Speaker)
	require.Equal(t, "I am ready.", segments[0].Text)
}

func TestParseScriptEmpty(t *testing.T) {
	_, _, err := ParseScript("   \n\n  ")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.CodeScriptEmpty))
}

func TestParseScriptMetadataOnly(t *testing.T) {
	_, segments, err := ParseScript("Style: Drama, Tone: Sad")
	require.NoError(t, err)
	require.Empty(t, segments)
}

func TestParseScriptVisualPromptResets(t *testing.T) {
	script := `Style: A, Tone: B
VISUAL_PROMPT: First scene.
One: Hello.
Two: World.
VISUAL_PROMPT: Second scene.
Three: Again.
`
	_, segments, err := ParseScript(script)
	require.NoError(t, err)
	require.Len(t, segments, 3)
	require.Equal(t, "First scene.", segments[0].VisualPrompt)
	require.Equal(t, types.NoVisualPrompt, segments[1].VisualPrompt)
	require.Equal(t, "Second scene.", segments[2].VisualPrompt)
}

func TestSplitSpeaker(t *testing.T) {
	tests := []struct {
		line        string
		wantSpeaker string
		wantText    string
	}{
		{"Elara: The path ends here.", "Elara", "The path ends here."},
		{"Old Man Jenkins: Get off my lawn.", "Old Man Jenkins", "Get off my lawn."},
		{"It was late: far too late to turn back now.", "It was late", "far too late to turn back now."},
		{"The clock on the wall struck twelve: midnight at last.", types.DefaultSpeaker, "The clock on the wall struck twelve: midnight at last."},
		{"No colon at all in this line.", types.DefaultSpeaker, "No colon at all in this line."},
		{"One two three four: too many words.", types.DefaultSpeaker, "One two three four: too many words."},
	}
	for _, tt := range tests {
		speaker, text := splitSpeaker(tt.line)
		require.Equal(t, tt.wantSpeaker, speaker, tt.line)
		require.Equal(t, tt.wantText, text, tt.line)
	}
}

func TestValidateScript(t *testing.T) {
	require.NoError(t, validateScript("Style: A, Tone: B\nHero: A line."))
	require.True(t, apperrors.Is(validateScript(""), apperrors.CodeScriptEmpty))
	require.True(t, apperrors.Is(validateScript("Hero: A line without metadata."), apperrors.CodeScriptFormatInvalid))
	require.True(t, apperrors.Is(validateScript("Style: A, Tone: B\nVISUAL_PROMPT: only scenes"), apperrors.CodeScriptFormatInvalid))
}

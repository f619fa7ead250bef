package service

import (
	"testing"

	"storyforge/internal/types"

	"github.com/stretchr/testify/require"
)

func renderedWithDurations(durations ...int) []types.RenderedSegment {
	rendered := make([]types.RenderedSegment, len(durations))
	for i, d := range durations {
		rendered[i] = types.RenderedSegment{
			Segment:    types.ScriptSegment{Index: i, Speaker: "S", Text: "line"},
			DurationMs: d,
		}
	}
	return rendered
}

func TestBuildTimelineZeroGap(t *testing.T) {
	entries := BuildTimeline(renderedWithDurations(1200, 800, 1500))
	require.Len(t, entries, 3)
	require.Equal(t, 0, entries[0].StartMs)
	require.Equal(t, 1200, entries[0].EndMs)
	require.Equal(t, 1200, entries[1].StartMs)
	require.Equal(t, 2000, entries[1].EndMs)
	require.Equal(t, 2000, entries[2].StartMs)
	require.Equal(t, 3500, entries[2].EndMs)
}

func TestBuildTimelineSkipsFailedSegments(t *testing.T) {
	entries := BuildTimeline(renderedWithDurations(1200, 0, 800))
	require.Len(t, entries, 2)

	require.Equal(t, 1, entries[0].Index)
	require.Equal(t, 0, entries[0].StartMs)
	require.Equal(t, 1200, entries[0].EndMs)

	// The failed segment consumes no time and no index.
	require.Equal(t, 2, entries[1].Index)
	require.Equal(t, 1200, entries[1].StartMs)
	require.Equal(t, 2000, entries[1].EndMs)
}

func TestBuildTimelineText(t *testing.T) {
	rendered := []types.RenderedSegment{
		{
			Segment:    types.ScriptSegment{Index: 0, Speaker: "Elara", Text: "The path ends here."},
			DurationMs: 1000,
		},
	}
	entries := BuildTimeline(rendered)
	require.Equal(t, "Elara: The path ends here.", entries[0].Text)
}

func TestBuildTimelineEmpty(t *testing.T) {
	require.Empty(t, BuildTimeline(nil))
	require.Empty(t, BuildTimeline(renderedWithDurations(0, 0)))
}

func TestSerializeSRT(t *testing.T) {
	entries := []types.SubtitleEntry{
		{Index: 1, StartMs: 0, EndMs: 1200, Text: "A: Hello."},
		{Index: 2, StartMs: 1200, EndMs: 3661500, Text: "B: Goodbye."},
	}
	srt := SerializeSRT(entries)
	require.Contains(t, srt, "1\n00:00:00,000 --> 00:00:01,200\nA: Hello.\n")
	require.Contains(t, srt, "2\n00:00:01,200 --> 01:01:01,500\nB: Goodbye.\n")
}

func TestSRTRoundTrip(t *testing.T) {
	original := BuildTimeline(renderedWithDurations(1200, 800, 0, 2500))
	parsed, err := ParseSRT(SerializeSRT(original))
	require.NoError(t, err)
	require.Equal(t, original, parsed)
}

func TestParseSRTVariants(t *testing.T) {
	// Dot millisecond separator and CRLF line endings both occur in the
	// wild.
	content := "1\r\n00:00:00.000 --> 00:00:01.500\r\nfirst line\r\nsecond line\r\n\r\n2\r\n00:00:01,500 --> 00:00:02,000\r\nnext\r\n"
	entries, err := ParseSRT(content)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1500, entries[0].EndMs)
	require.Equal(t, "first line second line", entries[0].Text)
}

func TestParseSRTMalformed(t *testing.T) {
	_, err := ParseSRT("1\nnot a time line\nsome text\n")
	require.Error(t, err)
}

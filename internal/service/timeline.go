package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"
)

// BuildTimeline lays rendered segments end to end into a zero-gap
// subtitle timeline. Entry N+1 starts exactly where entry N ends.
// Segments that produced no audio are skipped entirely: they consume no
// time and no index.
func BuildTimeline(rendered []types.RenderedSegment) []types.SubtitleEntry {
	entries := make([]types.SubtitleEntry, 0, len(rendered))
	cursor := 0
	for _, r := range rendered {
		if r.DurationMs <= 0 {
			continue
		}
		entries = append(entries, types.SubtitleEntry{
			Index:   len(entries) + 1,
			StartMs: cursor,
			EndMs:   cursor + r.DurationMs,
			Text:    fmt.Sprintf("%s: %s", r.Segment.Speaker, r.Segment.Text),
		})
		cursor += r.DurationMs
	}
	return entries
}

// SerializeSRT renders the timeline in SubRip format.
func SerializeSRT(entries []types.SubtitleEntry) string {
	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n",
			entry.Index, formatSrtTime(entry.StartMs), formatSrtTime(entry.EndMs), entry.Text)
	}
	return sb.String()
}

func formatSrtTime(ms int) string {
	h := ms / 3600000
	m := ms % 3600000 / 60000
	s := ms % 60000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

var srtTimeLineRegexp = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// ParseSRT reads SubRip text back into timeline entries. Multi-line cue
// text is joined with spaces.
func ParseSRT(content string) ([]types.SubtitleEntry, error) {
	var entries []types.SubtitleEntry
	blocks := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		timeLineIdx := 1
		if srtTimeLineRegexp.MatchString(strings.TrimSpace(lines[0])) {
			timeLineIdx = 0
		}
		m := srtTimeLineRegexp.FindStringSubmatch(strings.TrimSpace(lines[timeLineIdx]))
		if m == nil {
			return nil, apperrors.New(apperrors.CodeSubtitleInvalid, fmt.Sprintf("malformed time line in block %q", lines[timeLineIdx]))
		}

		entries = append(entries, types.SubtitleEntry{
			Index:   len(entries) + 1,
			StartMs: srtTimeToMs(m[1], m[2], m[3], m[4]),
			EndMs:   srtTimeToMs(m[5], m[6], m[7], m[8]),
			Text:    strings.Join(lines[timeLineIdx+1:], " "),
		})
	}
	return entries, nil
}

func srtTimeToMs(h, m, s, ms string) int {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(s)
	msi, _ := strconv.Atoi(ms)
	return hi*3600000 + mi*60000 + si*1000 + msi
}

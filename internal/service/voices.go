package service

import (
	"github.com/samber/lo"

	"storyforge/internal/types"
)

// AssignVoices maps each distinct speaker to a prebuilt voice,
// round-robin over the catalog in first-seen order. The narrator keeps
// its dedicated voice and does not consume a catalog slot. Assignment is
// deterministic for a given segment order.
func (s Service) AssignVoices(segments []types.ScriptSegment) map[string]string {
	speakers := lo.Uniq(lo.Map(segments, func(segment types.ScriptSegment, _ int) string {
		return segment.Speaker
	}))

	// The narrator's dedicated voice is withheld from the rotation so no
	// other speaker ends up sharing it.
	catalog := lo.Filter(s.VoiceCatalog, func(voice string, _ int) bool {
		return voice != s.NarratorVoice
	})
	if len(catalog) == 0 {
		catalog = s.VoiceCatalog
	}

	voiceMap := make(map[string]string, len(speakers))
	next := 0
	for _, speaker := range speakers {
		switch {
		case speaker == types.DefaultSpeaker:
			voiceMap[speaker] = s.NarratorVoice
		case len(catalog) == 0:
			voiceMap[speaker] = s.DefaultVoice
		default:
			voiceMap[speaker] = catalog[next%len(catalog)]
			next++
		}
	}
	return voiceMap
}

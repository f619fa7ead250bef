package storage

import (
	"fmt"
	"os/exec"
	"strings"
)

// Resolved encoder binary paths. Defaults assume PATH lookup; config may
// point at explicit locations.
var (
	FfmpegPath  = "ffmpeg"
	FfprobePath = "ffprobe"
)

// LocateBinaries resolves ffmpeg and ffprobe, honoring configured
// overrides, and fails when either is missing.
func LocateBinaries(configuredFfmpeg, configuredFfprobe string) error {
	resolved, err := resolveBinary("ffmpeg", configuredFfmpeg)
	if err != nil {
		return err
	}
	FfmpegPath = resolved

	resolved, err = resolveBinary("ffprobe", configuredFfprobe)
	if err != nil {
		return err
	}
	FfprobePath = resolved
	return nil
}

func resolveBinary(command, configured string) (string, error) {
	candidate := strings.TrimSpace(configured)
	if candidate == "" {
		candidate = command
	}

	resolved, err := exec.LookPath(candidate)
	if err != nil {
		return "", fmt.Errorf("%s not found (looked for %q): %w", command, candidate, err)
	}
	return resolved, nil
}

package appdirs

import (
	"path/filepath"
	"strings"
)

// Per-run artifact subdirectories under OutputDir. One run produces one
// script, one narration track, one subtitle file, and a set of images,
// all correlated by the run id in the file name.
const (
	ScriptDirName = "scripts"
	AudioDirName  = "audio"
	SrtDirName    = "srt"
	ImageDirName  = "images"
	VideoDirName  = "videos"
	TempDirName   = "tmp"

	dbFileName = "storyforge.db"
)

func OutputRootFor(paths Paths) string {
	return normalizeOutputDir(paths.OutputDir)
}

func ScriptDirFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), ScriptDirName)
}

func AudioDirFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), AudioDirName)
}

func SrtDirFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), SrtDirName)
}

func ImageDirFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), ImageDirName)
}

func VideoDirFor(paths Paths) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), VideoDirName)
}

// TempDirFor returns the scratch directory for per-segment decode
// artifacts of one run. Callers remove it when the run finishes.
func TempDirFor(paths Paths, runID string) string {
	return filepath.Join(normalizeOutputDir(paths.OutputDir), TempDirName, runID)
}

func DBPathFor(paths Paths) string {
	return filepath.Join(normalizeCacheDir(paths.CacheDir), dbFileName)
}

func normalizeOutputDir(dir string) string {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "outputs"
	}
	return trimmed
}

func normalizeCacheDir(dir string) string {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return "cache"
	}
	return trimmed
}

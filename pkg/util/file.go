package util

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafePathChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizePathName strips characters that are unsafe in file names or
// confuse ffmpeg argument parsing.
func SanitizePathName(name string) string {
	cleaned := unsafePathChars.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.Trim(cleaned, "._")
}

// CopyFile copies src to dst, creating parent directories.
func CopyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

// SaveBinaryFile writes data to path, creating parent directories.
func SaveBinaryFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TruncateString shortens s to at most max runes.
func TruncateString(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

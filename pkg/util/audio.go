package util

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"storyforge/internal/storage"
	"storyforge/log"

	"go.uber.org/zap"
)

const (
	DefaultBitsPerSample = 16
	DefaultSampleRate    = 24000
)

var (
	bitsRe = regexp.MustCompile(`L(\d+)`)
)

// ParseAudioMimeType extracts bits per sample and sample rate from a raw
// audio mime type such as "audio/L16;rate=24000". Missing parameters fall
// back to 16-bit / 24 kHz.
func ParseAudioMimeType(mimeType string) (bitsPerSample, rate int) {
	bitsPerSample = DefaultBitsPerSample
	rate = DefaultSampleRate

	for _, param := range strings.Split(mimeType, ";") {
		param = strings.TrimSpace(param)
		lower := strings.ToLower(param)
		if strings.HasPrefix(lower, "rate=") {
			if v, err := strconv.Atoi(param[len("rate="):]); err == nil && v > 0 {
				rate = v
			}
		} else if strings.HasPrefix(param, "audio/L") {
			if m := bitsRe.FindStringSubmatch(param); m != nil {
				if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
					bitsPerSample = v
				}
			}
		}
	}
	return bitsPerSample, rate
}

// IsRawAudioMime reports whether the declared mime type is headerless
// linear PCM that needs a synthesized WAV container before decoding.
func IsRawAudioMime(mimeType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(mimeType)), "audio/l")
}

// WrapPCMInWav prefixes raw mono PCM data with a RIFF/WAVE header so that
// standard decoders accept it. Bit depth and sample rate come from the
// declared mime type.
func WrapPCMInWav(pcm []byte, mimeType string) []byte {
	bitsPerSample, sampleRate := ParseAudioMimeType(mimeType)
	const numChannels = 1

	bytesPerSample := bitsPerSample / 8
	blockAlign := numChannels * bytesPerSample
	byteRate := sampleRate * blockAlign
	dataSize := uint32(len(pcm))

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(pcm)))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16)) // PCM fmt chunk size
	binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM format
	binary.Write(buf, binary.LittleEndian, uint16(numChannels))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, dataSize)
	buf.Write(pcm)
	return buf.Bytes()
}

// PCMDurationMs computes the playback duration of mono PCM data.
func PCMDurationMs(dataLen, sampleRate, bitsPerSample int) int {
	if sampleRate <= 0 || bitsPerSample <= 0 {
		return 0
	}
	bytesPerSecond := sampleRate * bitsPerSample / 8
	if bytesPerSecond == 0 {
		return 0
	}
	return int(int64(dataLen) * 1000 / int64(bytesPerSecond))
}

// GetAudioDuration returns the duration of an audio file in seconds via
// ffprobe.
func GetAudioDuration(filePath string) (float64, error) {
	cmdArgs := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	}
	cmd := exec.Command(storage.FfprobePath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("GetAudioDuration ffprobe failed",
			zap.String("file", filePath),
			zap.String("output", string(output)),
			zap.Error(err))
		return 0, fmt.Errorf("ffprobe duration of %s: %w", filePath, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", string(output), err)
	}
	return duration, nil
}

// DecodeToMonoPCM decodes any audio file ffmpeg understands into signed
// 16-bit little-endian mono PCM at the given sample rate.
func DecodeToMonoPCM(inputFile string, sampleRate int) ([]byte, error) {
	cmdArgs := []string{
		"-v", "error",
		"-i", inputFile,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"pipe:1",
	}
	cmd := exec.Command(storage.FfmpegPath, cmdArgs...)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		log.GetLogger().Error("DecodeToMonoPCM ffmpeg failed",
			zap.String("file", inputFile),
			zap.String("stderr", errBuf.String()),
			zap.Error(err))
		return nil, fmt.Errorf("decode %s to pcm: %w", inputFile, err)
	}
	return out.Bytes(), nil
}

// EncodeWavToMP3 compresses a WAV file into MP3 for the final narration
// track.
func EncodeWavToMP3(wavPath, mp3Path string) error {
	cmdArgs := []string{"-y", "-i", wavPath, "-codec:a", "libmp3lame", "-b:a", "192k", mp3Path}
	cmd := exec.Command(storage.FfmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("EncodeWavToMP3 ffmpeg failed",
			zap.String("wav", wavPath),
			zap.String("output", string(output)),
			zap.Error(err))
		return fmt.Errorf("encode %s to mp3: %w", wavPath, err)
	}
	return nil
}

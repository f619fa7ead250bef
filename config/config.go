package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storyforge/internal/appdirs"

	"github.com/BurntSushi/toml"
)

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

type AppConfig struct {
	Proxy string `toml:"proxy"`
}

type LlmConfig struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
}

type TtsConfig struct {
	BaseUrl           string   `toml:"base_url"`
	ApiKey            string   `toml:"api_key"`
	Model             string   `toml:"model"`
	RateLimitDelaySec float64  `toml:"rate_limit_delay_sec"`
	NarratorVoice     string   `toml:"narrator_voice"`
	DefaultVoice      string   `toml:"default_voice"`
	Voices            []string `toml:"voices"`
}

type ImageConfig struct {
	BaseUrl string `toml:"base_url"`
	ApiKey  string `toml:"api_key"`
	Model   string `toml:"model"`
	Enabled bool   `toml:"enabled"`
}

type SearchConfig struct {
	ApiKey     string `toml:"api_key"`
	Enabled    bool   `toml:"enabled"`
	MaxResults int    `toml:"max_results"`
}

type RetryConfig struct {
	MaxAttempts int     `toml:"max_attempts"`
	MinDelaySec float64 `toml:"min_delay_sec"`
	MaxDelaySec float64 `toml:"max_delay_sec"`
}

type VideoConfig struct {
	Width              int     `toml:"width"`
	Height             int     `toml:"height"`
	Fps                int     `toml:"fps"`
	VideoBitrate       string  `toml:"video_bitrate"`
	AudioBitrate       string  `toml:"audio_bitrate"`
	VideoQuality       int     `toml:"video_quality"`
	TransitionDuration float64 `toml:"transition_duration"`
	SubtitleFont       string  `toml:"subtitle_font"`
	SubtitleSize       int     `toml:"subtitle_size"`
	SubtitleColor      string  `toml:"subtitle_color"`
	SubtitleBorder     string  `toml:"subtitle_border"`
	SubtitleBorderSize int     `toml:"subtitle_border_size"`
	FfmpegPath         string  `toml:"ffmpeg_path"`
	FfprobePath        string  `toml:"ffprobe_path"`
}

type Config struct {
	Server ServerConfig `toml:"server"`
	App    AppConfig    `toml:"app"`
	Llm    LlmConfig    `toml:"llm"`
	Tts    TtsConfig    `toml:"tts"`
	Image  ImageConfig  `toml:"image"`
	Search SearchConfig `toml:"search"`
	Retry  RetryConfig  `toml:"retry"`
	Video  VideoConfig  `toml:"video"`
}

var Conf Config

// The Gemini prebuilt voice catalog. Speakers are assigned round-robin
// over this list in first-seen order.
var defaultVoiceCatalog = []string{
	"Zephyr", "Puck", "Umbriel", "Erinome", "Fable", "Adonis", "Aphrodite", "Apollo", "Artemis",
	"Athena", "Atlas", "Aura", "Boreas", "Castor", "Circe", "Daphne", "Echo", "Eros", "Freya",
	"Hades", "Hera", "Hermes", "Hestia", "Iris", "Janus", "Juno", "Loki", "Luna", "Mars",
	"Mercury", "Minerva", "Morpheus", "Nemesis", "Nereus", "Odin", "Orion", "Pan", "Persephone",
	"Phoebe", "Pluto", "Poseidon", "Rhea", "Selene", "Sol", "Terra", "Thalia", "Titan",
	"Venus", "Vesta", "Vulcan", "Zeus",
}

var resolveConfigPath = func() (string, error) {
	dirs, err := appdirs.Resolve()
	if err != nil {
		return "", err
	}
	return dirs.ConfigFile, nil
}

// ResolveConfigPath returns the effective config file location.
func ResolveConfigPath() (string, error) {
	return resolveConfigPath()
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8888,
		},
		Llm: LlmConfig{
			Model: "gemini-2.5-flash-preview-05-20",
		},
		Tts: TtsConfig{
			Model:             "gemini-2.5-flash-preview-tts",
			RateLimitDelaySec: 5,
			NarratorVoice:     "Umbriel",
			DefaultVoice:      "Erinome",
			Voices:            defaultVoiceCatalog,
		},
		Image: ImageConfig{
			Model:   "imagen-3.0-generate-002",
			Enabled: true,
		},
		Search: SearchConfig{
			MaxResults: 3,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			MinDelaySec: 2,
			MaxDelaySec: 30,
		},
		Video: VideoConfig{
			Width:              1920,
			Height:             1080,
			Fps:                30,
			VideoBitrate:       "4M",
			AudioBitrate:       "192k",
			VideoQuality:       23,
			TransitionDuration: 1.0,
			SubtitleFont:       "Arial",
			SubtitleSize:       24,
			SubtitleColor:      "white",
			SubtitleBorder:     "black",
			SubtitleBorderSize: 2,
		},
	}
}

// LoadOrCreateConfig loads the config file, writing the default config
// first when no file exists. Returns whether a new file was created.
func LoadOrCreateConfig() (bool, error) {
	configPath, err := resolveConfigPath()
	if err != nil {
		return false, err
	}

	if _, err = os.Stat(configPath); os.IsNotExist(err) {
		Conf = defaultConfig()
		applyEnvOverrides()
		if err = SaveConfig(); err != nil {
			return false, err
		}
		return true, nil
	} else if err != nil {
		return false, err
	}

	Conf = defaultConfig()
	if _, err = toml.DecodeFile(configPath, &Conf); err != nil {
		return false, fmt.Errorf("decode config file %s: %w", configPath, err)
	}
	normalizeConfig()
	applyEnvOverrides()
	return false, nil
}

// SaveConfig writes the current Conf to the config file, creating parent
// directories as needed.
func SaveConfig() error {
	configPath, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return toml.NewEncoder(file).Encode(Conf)
}

// CheckConfig validates that required collaborator credentials are set.
func CheckConfig() error {
	if strings.TrimSpace(Conf.Llm.ApiKey) == "" {
		return fmt.Errorf("llm.api_key is required (or set GEMINI_API_KEY)")
	}
	if strings.TrimSpace(Conf.Tts.ApiKey) == "" {
		return fmt.Errorf("tts.api_key is required (or set GEMINI_API_KEY)")
	}
	return nil
}

// normalizeConfig refills zero or invalid numeric fields with defaults.
// Unrecognized keys in the file are ignored by the decoder.
func normalizeConfig() {
	defaults := defaultConfig()
	if Conf.Server.Port <= 0 {
		Conf.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(Conf.Server.Host) == "" {
		Conf.Server.Host = defaults.Server.Host
	}
	if strings.TrimSpace(Conf.Llm.Model) == "" {
		Conf.Llm.Model = defaults.Llm.Model
	}
	if strings.TrimSpace(Conf.Tts.Model) == "" {
		Conf.Tts.Model = defaults.Tts.Model
	}
	if Conf.Tts.RateLimitDelaySec < 0 {
		Conf.Tts.RateLimitDelaySec = defaults.Tts.RateLimitDelaySec
	}
	if len(Conf.Tts.Voices) == 0 {
		Conf.Tts.Voices = defaults.Tts.Voices
	}
	if strings.TrimSpace(Conf.Tts.NarratorVoice) == "" {
		Conf.Tts.NarratorVoice = defaults.Tts.NarratorVoice
	}
	if strings.TrimSpace(Conf.Tts.DefaultVoice) == "" {
		Conf.Tts.DefaultVoice = defaults.Tts.DefaultVoice
	}
	if Conf.Search.MaxResults <= 0 {
		Conf.Search.MaxResults = defaults.Search.MaxResults
	}
	if Conf.Retry.MaxAttempts <= 0 {
		Conf.Retry.MaxAttempts = defaults.Retry.MaxAttempts
	}
	if Conf.Retry.MinDelaySec <= 0 {
		Conf.Retry.MinDelaySec = defaults.Retry.MinDelaySec
	}
	if Conf.Retry.MaxDelaySec < Conf.Retry.MinDelaySec {
		Conf.Retry.MaxDelaySec = defaults.Retry.MaxDelaySec
	}
	if Conf.Video.Width <= 0 {
		Conf.Video.Width = defaults.Video.Width
	}
	if Conf.Video.Height <= 0 {
		Conf.Video.Height = defaults.Video.Height
	}
	if Conf.Video.Fps <= 0 {
		Conf.Video.Fps = defaults.Video.Fps
	}
	if Conf.Video.TransitionDuration < 0 {
		Conf.Video.TransitionDuration = defaults.Video.TransitionDuration
	}
	if Conf.Video.SubtitleSize <= 0 {
		Conf.Video.SubtitleSize = defaults.Video.SubtitleSize
	}
	if Conf.Video.SubtitleBorderSize < 0 {
		Conf.Video.SubtitleBorderSize = defaults.Video.SubtitleBorderSize
	}
}

// applyEnvOverrides lets a single GEMINI_API_KEY cover the three Gemini
// collaborators, with BRAVE_API_KEY for search.
func applyEnvOverrides() {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		if Conf.Llm.ApiKey == "" {
			Conf.Llm.ApiKey = key
		}
		if Conf.Tts.ApiKey == "" {
			Conf.Tts.ApiKey = key
		}
		if Conf.Image.ApiKey == "" {
			Conf.Image.ApiKey = key
		}
	}
	if key := strings.TrimSpace(os.Getenv("BRAVE_API_KEY")); key != "" && Conf.Search.ApiKey == "" {
		Conf.Search.ApiKey = key
		Conf.Search.Enabled = true
	}
}

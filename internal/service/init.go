package service

import (
	"time"

	"storyforge/config"
	"storyforge/internal/types"
	"storyforge/log"
	"storyforge/pkg/brave"
	"storyforge/pkg/gemini"
	"storyforge/pkg/openai"
	"storyforge/pkg/retry"

	"go.uber.org/zap"
)

type Service struct {
	ScriptGenerator types.ScriptGenerator
	TtsClient       types.Ttser
	ImageClient     types.ImageGenerator
	Searcher        types.WebSearcher

	RetryPolicy    retry.Policy
	VoiceCatalog   []string
	NarratorVoice  string
	DefaultVoice   string
	RateLimitDelay time.Duration
	SearchResults  int
}

func NewService() *Service {
	var imageClient types.ImageGenerator
	if config.Conf.Image.Enabled {
		imageClient = gemini.NewImageClient(config.Conf.Image.BaseUrl, config.Conf.Image.ApiKey, config.Conf.Image.Model)
	}

	var searcher types.WebSearcher
	if config.Conf.Search.Enabled && config.Conf.Search.ApiKey != "" {
		searcher = brave.NewClient(config.Conf.Search.ApiKey)
	}

	log.GetLogger().Info("service initialized",
		zap.String("llm model", config.Conf.Llm.Model),
		zap.String("tts model", config.Conf.Tts.Model),
		zap.Bool("image enabled", imageClient != nil),
		zap.Bool("search enabled", searcher != nil))

	return &Service{
		ScriptGenerator: openai.NewClient(config.Conf.Llm.BaseUrl, config.Conf.Llm.ApiKey, config.Conf.Llm.Model, config.Conf.App.Proxy),
		TtsClient:       gemini.NewTtsClient(config.Conf.Tts.BaseUrl, config.Conf.Tts.ApiKey, config.Conf.Tts.Model),
		ImageClient:     imageClient,
		Searcher:        searcher,
		RetryPolicy: retry.Policy{
			MaxAttempts: config.Conf.Retry.MaxAttempts,
			MinDelay:    time.Duration(config.Conf.Retry.MinDelaySec * float64(time.Second)),
			MaxDelay:    time.Duration(config.Conf.Retry.MaxDelaySec * float64(time.Second)),
		},
		VoiceCatalog:   config.Conf.Tts.Voices,
		NarratorVoice:  config.Conf.Tts.NarratorVoice,
		DefaultVoice:   config.Conf.Tts.DefaultVoice,
		RateLimitDelay: time.Duration(config.Conf.Tts.RateLimitDelaySec * float64(time.Second)),
		SearchResults:  config.Conf.Search.MaxResults,
	}
}

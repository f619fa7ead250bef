// Package gemini provides thin clients for the Gemini speech and image
// generation APIs.
package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"storyforge/log"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// TtsClient implements types.Ttser against the Gemini TTS model. The API
// returns headerless linear PCM with a mime type like
// "audio/L16;rate=24000"; callers wrap it before decoding.
type TtsClient struct {
	restyClient *resty.Client
	apiKey      string
	model       string
}

func NewTtsClient(baseUrl, apiKey, model string) *TtsClient {
	if baseUrl == "" {
		baseUrl = defaultBaseURL
	}
	return &TtsClient{
		restyClient: resty.New().SetBaseURL(baseUrl).SetTimeout(120 * time.Second),
		apiKey:      apiKey,
		model:       model,
	}
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Synthesize implements types.Ttser.
func (c *TtsClient) Synthesize(ctx context.Context, text, voice string) ([]byte, string, error) {
	reqBody := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: text}}},
		},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	var respBody generateContentResponse
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(fmt.Sprintf("/models/%s:generateContent", c.model))
	if err != nil {
		return nil, "", fmt.Errorf("tts request failed: %w", err)
	}
	if resp.IsError() {
		if respBody.Error != nil {
			return nil, "", fmt.Errorf("tts api error %d (%s): %s", respBody.Error.Code, respBody.Error.Status, respBody.Error.Message)
		}
		return nil, "", fmt.Errorf("tts api error: status %d", resp.StatusCode())
	}

	for _, candidate := range respBody.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, "", fmt.Errorf("decode tts audio payload: %w", err)
			}
			log.GetLogger().Debug("gemini tts response",
				zap.String("voice", voice),
				zap.String("mime", p.InlineData.MimeType),
				zap.Int("bytes", len(audio)))
			return audio, p.InlineData.MimeType, nil
		}
	}

	return nil, "", fmt.Errorf("tts response contained no audio data")
}

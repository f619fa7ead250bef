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

// ImageClient implements types.ImageGenerator against the Imagen predict
// API.
type ImageClient struct {
	restyClient *resty.Client
	apiKey      string
	model       string
}

func NewImageClient(baseUrl, apiKey, model string) *ImageClient {
	if baseUrl == "" {
		baseUrl = defaultBaseURL
	}
	return &ImageClient{
		restyClient: resty.New().SetBaseURL(baseUrl).SetTimeout(120 * time.Second),
		apiKey:      apiKey,
		model:       model,
	}
}

type predictRequest struct {
	Instances  []predictInstance `json:"instances"`
	Parameters predictParameters `json:"parameters"`
}

type predictInstance struct {
	Prompt string `json:"prompt"`
}

type predictParameters struct {
	SampleCount      int    `json:"sampleCount"`
	AspectRatio      string `json:"aspectRatio,omitempty"`
	OutputMimeType   string `json:"outputMimeType,omitempty"`
	PersonGeneration string `json:"personGeneration,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
		MimeType           string `json:"mimeType"`
	} `json:"predictions"`
	Error *apiError `json:"error"`
}

// GenerateImage implements types.ImageGenerator.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	reqBody := predictRequest{
		Instances: []predictInstance{{Prompt: prompt}},
		Parameters: predictParameters{
			SampleCount:      1,
			AspectRatio:      "16:9",
			OutputMimeType:   "image/jpeg",
			PersonGeneration: "ALLOW_ADULT",
		},
	}

	var respBody predictResponse
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetQueryParam("key", c.apiKey).
		SetBody(reqBody).
		SetResult(&respBody).
		SetError(&respBody).
		Post(fmt.Sprintf("/models/%s:predict", c.model))
	if err != nil {
		return nil, fmt.Errorf("image request failed: %w", err)
	}
	if resp.IsError() {
		if respBody.Error != nil {
			return nil, fmt.Errorf("image api error %d (%s): %s", respBody.Error.Code, respBody.Error.Status, respBody.Error.Message)
		}
		return nil, fmt.Errorf("image api error: status %d", resp.StatusCode())
	}

	if len(respBody.Predictions) == 0 {
		return nil, fmt.Errorf("image response contained no predictions")
	}

	data, err := base64.StdEncoding.DecodeString(respBody.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}

	log.GetLogger().Debug("gemini image response",
		zap.Int("bytes", len(data)),
		zap.String("mime", respBody.Predictions[0].MimeType))
	return data, nil
}

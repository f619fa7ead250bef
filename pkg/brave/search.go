// Package brave wraps the Brave Search API used to enrich script
// prompts with factual context.
package brave

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storyforge/internal/types"

	"github.com/go-resty/resty/v2"
)

const searchURL = "https://api.search.brave.com/res/v1/web/search"

// Client implements types.WebSearcher.
type Client struct {
	restyClient *resty.Client
	apiKey      string
}

func NewClient(apiKey string) *Client {
	return &Client{
		restyClient: resty.New().SetTimeout(30 * time.Second),
		apiKey:      apiKey,
	}
}

type searchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			Url         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search implements types.WebSearcher.
func (c *Client) Search(ctx context.Context, query string, count int) ([]types.SearchResult, error) {
	if count <= 0 {
		count = 3
	}

	var respBody searchResponse
	resp, err := c.restyClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("X-Subscription-Token", c.apiKey).
		SetQueryParam("q", query).
		SetQueryParam("count", strconv.Itoa(count)).
		SetResult(&respBody).
		Get(searchURL)
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("web search failed: status %d", resp.StatusCode())
	}

	results := make([]types.SearchResult, 0, count)
	for _, item := range respBody.Web.Results {
		if len(results) >= count {
			break
		}
		results = append(results, types.SearchResult{
			Title:       item.Title,
			Url:         item.Url,
			Description: item.Description,
		})
	}
	return results, nil
}

// FormatResults renders search hits as prompt context.
func FormatResults(results []types.SearchResult) string {
	if len(results) == 0 {
		return "No results found"
	}

	var sb strings.Builder
	for i, result := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		description := result.Description
		if description == "" {
			description = "No description"
		}
		fmt.Fprintf(&sb, "%d. [%s](%s)\n   %s", i+1, result.Title, result.Url, description)
	}
	return sb.String()
}

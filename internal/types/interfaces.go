package types

import "context"

// ScriptGenerator is the language-model boundary: given a prompt, return
// raw script text conforming to the documented format, or fail.
type ScriptGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Ttser is the text-to-speech boundary: given text and a voice id,
// return raw audio bytes plus the declared mime type, or fail.
type Ttser interface {
	Synthesize(ctx context.Context, text, voice string) (audio []byte, mimeType string, err error)
}

// ImageGenerator is the image boundary: given a prompt, return encoded
// image bytes, or fail.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// SearchResult is one hit from the web-search collaborator.
type SearchResult struct {
	Title       string
	Url         string
	Description string
}

// WebSearcher is the optional search boundary used to enrich the script
// prompt.
type WebSearcher interface {
	Search(ctx context.Context, query string, count int) ([]SearchResult, error)
}

package service

import (
	"context"
	"fmt"
	"strings"

	apperrors "storyforge/pkg/errors"

	"storyforge/internal/types"
	"storyforge/log"
	"storyforge/pkg/brave"

	"go.uber.org/zap"
)

// GenerateScript asks the language model for a story script about the
// subject and returns the raw script text. Generation retries when the
// model's output fails format validation, since a malformed script would
// poison every later stage.
func (s Service) GenerateScript(ctx context.Context, subject string) (string, error) {
	prompt := fmt.Sprintf(types.StoryScriptPrompt, subject)
	if searchContext := s.buildSearchContext(ctx, subject); searchContext != "" {
		prompt += fmt.Sprintf(types.StoryScriptSearchContext, searchContext)
	}

	var script string
	err := s.RetryPolicy.Do(ctx, func() error {
		text, err := s.ScriptGenerator.GenerateText(ctx, prompt)
		if err != nil {
			log.GetLogger().Warn("GenerateScript completion error", zap.Error(err))
			return err
		}
		if err = validateScript(text); err != nil {
			log.GetLogger().Warn("GenerateScript validation error",
				zap.String("head", firstLine(text)), zap.Error(err))
			return err
		}
		script = text
		return nil
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeScriptGenFailed, "script generation failed", err)
	}
	return script, nil
}

// buildSearchContext is best effort: a failed or disabled search never
// blocks generation.
func (s Service) buildSearchContext(ctx context.Context, subject string) string {
	if s.Searcher == nil {
		return ""
	}
	results, err := s.Searcher.Search(ctx, subject, s.SearchResults)
	if err != nil {
		log.GetLogger().Warn("GenerateScript search error", zap.String("subject", subject), zap.Error(err))
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	return brave.FormatResults(results)
}

// validateScript checks the contract the parser depends on: a metadata
// first line and at least one dialogue line.
func validateScript(script string) error {
	trimmed := strings.TrimSpace(script)
	if trimmed == "" {
		return apperrors.New(apperrors.CodeScriptEmpty, "model returned an empty script")
	}
	if !styleLineRegexp.MatchString(firstLine(trimmed)) {
		return apperrors.New(apperrors.CodeScriptFormatInvalid, "script does not start with a style line")
	}
	lines := strings.Split(trimmed, "\n")
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, types.VisualPromptMarker) {
			continue
		}
		return nil
	}
	return apperrors.New(apperrors.CodeScriptFormatInvalid, "script contains no dialogue lines")
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

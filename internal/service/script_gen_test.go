package service

import (
	"context"
	"errors"
	"testing"

	"storyforge/internal/mocks"
	"storyforge/internal/types"
	apperrors "storyforge/pkg/errors"
	"storyforge/pkg/retry"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validScript = "Style: Epic, Tone: Grim\nHero: We ride at dawn.\n"

func TestGenerateScript(t *testing.T) {
	gen := new(mocks.MockScriptGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return(validScript, nil)

	s := Service{ScriptGenerator: gen, RetryPolicy: retry.Policy{MaxAttempts: 1}}
	script, err := s.GenerateScript(context.Background(), "a knight's last ride")
	require.NoError(t, err)
	require.Equal(t, validScript, script)
}

func TestGenerateScriptRetriesOnInvalidFormat(t *testing.T) {
	gen := new(mocks.MockScriptGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return("no metadata line here", nil).Once()
	gen.On("GenerateText", mock.Anything, mock.Anything).Return(validScript, nil).Once()

	s := Service{ScriptGenerator: gen, RetryPolicy: retry.Policy{MaxAttempts: 2, MinDelay: 1, MaxDelay: 1}}
	script, err := s.GenerateScript(context.Background(), "subject")
	require.NoError(t, err)
	require.Equal(t, validScript, script)
	gen.AssertExpectations(t)
}

func TestGenerateScriptExhaustsRetries(t *testing.T) {
	gen := new(mocks.MockScriptGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return("", errors.New("model unavailable"))

	s := Service{ScriptGenerator: gen, RetryPolicy: retry.Policy{MaxAttempts: 2, MinDelay: 1, MaxDelay: 1}}
	_, err := s.GenerateScript(context.Background(), "subject")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.CodeScriptGenFailed))
	gen.AssertNumberOfCalls(t, "GenerateText", 2)
}

func TestGenerateScriptWithSearchContext(t *testing.T) {
	searcher := new(mocks.MockWebSearcher)
	searcher.On("Search", mock.Anything, "the moon landing", 3).Return([]types.SearchResult{
		{Title: "Apollo 11", Url: "https://example.com/apollo", Description: "First crewed landing."},
	}, nil)

	gen := new(mocks.MockScriptGenerator)
	gen.On("GenerateText", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return(validScript, nil)

	s := Service{
		ScriptGenerator: gen,
		Searcher:        searcher,
		SearchResults:   3,
		RetryPolicy:     retry.Policy{MaxAttempts: 1},
	}
	_, err := s.GenerateScript(context.Background(), "the moon landing")
	require.NoError(t, err)

	prompt := gen.Calls[0].Arguments.String(1)
	require.Contains(t, prompt, "Apollo 11")
	require.Contains(t, prompt, "https://example.com/apollo")
	searcher.AssertExpectations(t)
}

func TestGenerateScriptSearchFailureIgnored(t *testing.T) {
	searcher := new(mocks.MockWebSearcher)
	searcher.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	gen := new(mocks.MockScriptGenerator)
	gen.On("GenerateText", mock.Anything, mock.Anything).Return(validScript, nil)

	s := Service{
		ScriptGenerator: gen,
		Searcher:        searcher,
		RetryPolicy:     retry.Policy{MaxAttempts: 1},
	}
	script, err := s.GenerateScript(context.Background(), "subject")
	require.NoError(t, err)
	require.Equal(t, validScript, script)
}

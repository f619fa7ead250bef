// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"storyforge/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockScriptGenerator is a mock implementation of types.ScriptGenerator
type MockScriptGenerator struct {
	mock.Mock
}

func (m *MockScriptGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockTtser is a mock implementation of types.Ttser
type MockTtser struct {
	mock.Mock
}

func (m *MockTtser) Synthesize(ctx context.Context, text, voice string) ([]byte, string, error) {
	args := m.Called(ctx, text, voice)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

// MockImageGenerator is a mock implementation of types.ImageGenerator
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockWebSearcher is a mock implementation of types.WebSearcher
type MockWebSearcher struct {
	mock.Mock
}

func (m *MockWebSearcher) Search(ctx context.Context, query string, count int) ([]types.SearchResult, error) {
	args := m.Called(ctx, query, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.SearchResult), args.Error(1)
}

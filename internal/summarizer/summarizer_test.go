package summarizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMockSummarizeTakesLeadingSentences(t *testing.T) {
	two := 2
	result, err := mockBackend{}.Summarize(context.Background(), "Alpha. Beta. Gamma. Delta.", Request{LineCount: &two})
	require.NoError(t, err)
	require.Equal(t, "Alpha. Beta.", result.Summary)
	require.Equal(t, "mock", result.Provider)
	require.NotNil(t, result.Tokens)
	require.Equal(t, 4, *result.Tokens)
}

func TestMockSummarizeDefaultsToThreeSentences(t *testing.T) {
	result, err := mockBackend{}.Summarize(context.Background(), "Alpha. Beta. Gamma. Delta.", Request{})
	require.NoError(t, err)
	require.Equal(t, "Alpha. Beta. Gamma.", result.Summary)
}

func TestMockSummarizeClampsToAvailableSentences(t *testing.T) {
	ten := 10
	result, err := mockBackend{}.Summarize(context.Background(), "Only one here.", Request{LineCount: &ten})
	require.NoError(t, err)
	require.Equal(t, "Only one here.", result.Summary)
}

func TestNewPrefersExplicitName(t *testing.T) {
	backend := New("mock", Config{Provider: "local"})
	require.Equal(t, "mock", backend.Name())
}

func TestNewUsesConfiguredProvider(t *testing.T) {
	backend := New("", Config{Provider: "local"})
	require.Equal(t, "local", backend.Name())
}

func TestNewProbesCredentials(t *testing.T) {
	require.Equal(t, "openai", New("", Config{OpenAI: ChatProfileConfig{APIKey: "k"}}).Name())
	require.Equal(t, "groq", New("", Config{Groq: ChatProfileConfig{APIKey: "k"}}).Name())
	require.Equal(t, "gemini", New("", Config{Gemini: ChatProfileConfig{APIKey: "k"}}).Name())
	require.Equal(t, "openai", New("", Config{
		OpenAI: ChatProfileConfig{APIKey: "a"},
		Groq:   ChatProfileConfig{APIKey: "b"},
	}).Name())
}

func TestNewFallsBackToMock(t *testing.T) {
	require.Equal(t, "mock", New("", Config{}).Name())
	require.Equal(t, "mock", New("no-such-backend", Config{}).Name())
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/generativelanguage/v1beta"

	apperrors "cryptovibe/internal/errors"
)

func TestGrokClient_DemoWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	c := NewGrokClient("", srv.URL, time.Second)
	out, err := c.Analyze(context.Background(), GrokRequest{Prompt: "why?", SelectedText: "SOL"})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "Selected: SOL")
	assert.Contains(t, out, "Prompt: why?")
	assert.Contains(t, out, "XAI_API_KEY")
}

func TestGrokClient_Analyze(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"high risk"}}]}`))
	}))
	defer srv.Close()

	c := NewGrokClient("secret", srv.URL, time.Second)
	out, err := c.Analyze(context.Background(), GrokRequest{Prompt: "entry?", SelectedText: "BTC 60k"})

	require.NoError(t, err)
	assert.Equal(t, "high risk", out)
	assert.Equal(t, GrokModel, got.Model)
	assert.Equal(t, 0.7, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Selected text: BTC 60k\nQuestion: entry?", got.Messages[1].Content)
}

func TestGrokClient_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	out, err := NewGrokClient("k", srv.URL, time.Second).Analyze(context.Background(), GrokRequest{})
	require.NoError(t, err)
	assert.Equal(t, "No response from Grok. DYOR!", out)
}

func TestGrokUserPrompt_Screenshot(t *testing.T) {
	p := GrokUserPrompt(GrokRequest{SelectedText: "chart", IncludeScreenshot: true, Prompt: "ignored"})
	assert.Contains(t, p, "chart(Screenshot attached)")
	assert.NotContains(t, p, "ignored")
}

func TestGeminiClient_Analyze(t *testing.T) {
	var got generativelanguage.GenerateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", r.URL.Path)
		assert.Equal(t, "k3y", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"• support at 58k"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("k3y", srv.URL+"/", time.Second)
	out, err := c.Analyze(context.Background(), GeminiRequest{Prompt: "  outlook? ", Asset: "SOL/USDT", Indicators: "RSI"})

	require.NoError(t, err)
	assert.Equal(t, "• support at 58k", out)
	require.NotNil(t, got.GenerationConfig)
	assert.InDelta(t, 0.4, got.GenerationConfig.Temperature, 1e-9)
	assert.EqualValues(t, 500, got.GenerationConfig.MaxOutputTokens)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "user", got.Contents[0].Role)
	require.Len(t, got.Contents[0].Parts, 1)
	text := got.Contents[0].Parts[0].Text
	assert.Contains(t, text, "Current asset: SOL/USDT.")
	assert.Contains(t, text, "Indicators on screen: RSI.")
	assert.Contains(t, text, "\n\nUser: outlook?")
}

func TestGeminiClient_DemoWithoutKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	defer srv.Close()

	out, err := NewGeminiClient("", srv.URL+"/", time.Second).
		Analyze(context.Background(), GeminiRequest{Asset: "BTC", Indicators: "MACD"})

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "Fenrir AI Analysis for BTC")
	assert.Contains(t, out, "Indicators: MACD")
}

func TestGeminiClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "provider status with json error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
			},
			want: "provider error: 429 quota exceeded",
		},
		{
			name: "provider status with plain body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = w.Write([]byte("upstream down"))
			},
			want: "provider error: 502 upstream down",
		},
		{
			name: "undecodable body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte("<html>"))
			},
			want: "decode error",
		},
		{
			name: "no candidates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"candidates":[]}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			out, err := NewGeminiClient("k", srv.URL+"/", time.Second).Analyze(context.Background(), GeminiRequest{})
			if tt.want == "" {
				require.NoError(t, err)
				assert.Equal(t, "No response from Gemini. DYOR!", out)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNetworkErrorHidesKey(t *testing.T) {
	_, err := NewGeminiClient("topsecret", "http://127.0.0.1:1/", time.Second).
		Analyze(context.Background(), GeminiRequest{})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "network error")
	assert.NotContains(t, err.Error(), "topsecret")
}

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	apperrors "cryptovibe/internal/errors"
)

const (
	GeminiModel = "models/gemini-pro"

	geminiTemperature     = 0.4
	geminiMaxOutputTokens = 500
	geminiNoResponse      = "No response from Gemini. DYOR!"
)

// GeminiRequest asks for a short technical analysis of an asset.
type GeminiRequest struct {
	Prompt     string
	Asset      string
	Indicators string
}

// GeminiClient calls generateContent through the Generative Language API client.
type GeminiClient struct {
	svc     *generativelanguage.Service
	initErr error
	timeout time.Duration
}

// NewGeminiClient returns a client authenticated with apiKey. endpoint
// overrides the API base URL; empty uses Google's. Without a key no service is
// built and Analyze answers with the demo text.
func NewGeminiClient(apiKey, endpoint string, timeout time.Duration) *GeminiClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &GeminiClient{timeout: timeout}
	if apiKey == "" {
		return c
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}
	c.svc, c.initErr = generativelanguage.NewService(context.Background(), opts...)
	return c
}

// Analyze returns the model's answer, or the demo text when no key is set.
func (c *GeminiClient) Analyze(ctx context.Context, r GeminiRequest) (string, error) {
	if c.svc == nil && c.initErr == nil {
		return GeminiDemo(r), nil
	}
	if c.initErr != nil {
		return "", fmt.Errorf("%w: client init: %v", apperrors.ErrProviderUnavailable, c.initErr)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &generativelanguage.GenerateContentRequest{
		Contents: []*generativelanguage.Content{{
			Role:  "user",
			Parts: []*generativelanguage.Part{{Text: GeminiSystemPrompt(r) + "\n\nUser: " + strings.TrimSpace(r.Prompt)}},
		}},
		GenerationConfig: &generativelanguage.GenerationConfig{
			Temperature:     geminiTemperature,
			MaxOutputTokens: geminiMaxOutputTokens,
		},
	}

	resp, err := c.svc.Models.GenerateContent(GeminiModel, req).Context(ctx).Do()
	if err != nil {
		return "", geminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 ||
		strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text) == "" {
		return geminiNoResponse, nil
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// geminiError sorts client failures into the same provider error messages
// the Grok client produces.
func geminiError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		detail := apiErr.Message
		if detail == "" {
			detail = apiErr.Body
		}
		if len(detail) > maxErrorBody {
			detail = detail[:maxErrorBody]
		}
		return fmt.Errorf("%w: provider error: %d %s", apperrors.ErrProviderUnavailable,
			apiErr.Code, strings.TrimSpace(detail))
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%w: decode error: %v", apperrors.ErrProviderUnavailable, err)
	}
	return fmt.Errorf("%w: network error: %v", apperrors.ErrProviderUnavailable, redact(err))
}

// GeminiSystemPrompt frames the analyst persona for the given asset.
func GeminiSystemPrompt(r GeminiRequest) string {
	return fmt.Sprintf("You are Fenrir AI, a Senior Technical Analyst specializing in cryptocurrency markets. "+
		"Current asset: %s. "+
		"Indicators on screen: %s. "+
		"Provide a concise, direct technical analysis. "+
		"Use bullet points. "+
		"Be specific about support/resistance levels. "+
		"End with DYOR. "+
		"Keep response under 150 words for voice synthesis.",
		r.Asset, r.Indicators)
}

// GeminiDemo is returned when GEMINI_API_KEY is not configured.
func GeminiDemo(r GeminiRequest) string {
	return fmt.Sprintf("Fenrir AI Analysis for %s\n\nIndicators: %s\n\n"+
		"• Please add GEMINI_API_KEY to the environment for real AI analysis\n"+
		"• Get free API key from: https://aistudio.google.com/app/apikey\n\n"+
		"Current analysis for %s based on %s:\n\n"+
		"• Price action showing momentum\n• Key support levels holding\n• Wait for confirmation before entry\n\nDYOR!",
		r.Asset, r.Indicators, r.Asset, r.Indicators)
}

package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultGrokURL = "https://api.x.ai/v1/chat/completions"
	GrokModel      = "grok-beta"

	grokTemperature = 0.7
	grokNoResponse  = "No response from Grok. DYOR!"

	grokSystemPrompt = "You're a traditional professional of risk analysis and on chain analyst using " +
		"blockchain protocols and explorers official free apis and really calculating the risk and " +
		"possible PnL. Provide detailed analysis with specific numbers, calculations, and risk assessments."
)

// GrokRequest asks for a risk analysis of a selected piece of text.
type GrokRequest struct {
	Prompt            string
	SelectedText      string
	IncludeScreenshot bool
}

// GrokClient calls the x.ai chat completions API.
type GrokClient struct {
	apiKey string
	url    string
	http   *http.Client
}

// NewGrokClient returns a client for url (DefaultGrokURL when empty).
func NewGrokClient(apiKey, url string, timeout time.Duration) *GrokClient {
	if url == "" {
		url = DefaultGrokURL
	}
	return &GrokClient{apiKey: apiKey, url: url, http: newHTTPClient(timeout)}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze returns the model's answer, or the demo text when no key is set.
func (c *GrokClient) Analyze(ctx context.Context, r GrokRequest) (string, error) {
	if c.apiKey == "" {
		return GrokDemo(r), nil
	}

	payload := chatRequest{
		Model: GrokModel,
		Messages: []chatMessage{
			{Role: "system", Content: grokSystemPrompt},
			{Role: "user", Content: GrokUserPrompt(r)},
		},
		Temperature: grokTemperature,
	}

	var out chatResponse
	headers := map[string]string{"Authorization": "Bearer " + c.apiKey}
	if err := postJSON(ctx, c.http, c.url, headers, payload, &out); err != nil {
		return "", err
	}

	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return grokNoResponse, nil
	}
	return out.Choices[0].Message.Content, nil
}

// GrokUserPrompt builds the user message sent to the model.
func GrokUserPrompt(r GrokRequest) string {
	if r.IncludeScreenshot {
		return r.SelectedText + "(Screenshot attached) Help me out, explain me wtf is all of this, " +
			"what am I doing, should I continue? Analyze the screenshot and provide detailed risk assessment."
	}
	return fmt.Sprintf("Selected text: %s\nQuestion: %s", r.SelectedText, r.Prompt)
}

// GrokDemo is returned when XAI_API_KEY is not configured.
func GrokDemo(r GrokRequest) string {
	return fmt.Sprintf("Fenrir Grok Analysis\n\n"+
		"Please add XAI_API_KEY to the environment\nGet from: https://x.ai/\n\n"+
		"Selected: %s\nPrompt: %s\n\n"+
		"• Risk analysis requires real API\n• Please configure XAI_API_KEY\n\nDYOR!",
		r.SelectedText, r.Prompt)
}

// Package gemini implements pagesum.SummarizerBackend using Google Gemini.
package gemini

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/pagesum"
	"google.golang.org/genai"
)

// DefaultTimeout bounds a single summary request.
const DefaultTimeout = 120 * time.Second

// Ensure Backend implements pagesum.SummarizerBackend at compile time.
var _ pagesum.SummarizerBackend = (*Backend)(nil)

// Backend sends summary requests to the Gemini API. The system message
// becomes the system instruction and the user message the prompt.
type Backend struct {
	client *genai.Client
}

// NewBackend creates a Backend authenticated with cfg.APIKey. A non-empty
// cfg.BaseURL overrides the API endpoint.
func NewBackend(ctx context.Context, cfg *pagesum.Config, timeout time.Duration) (*Backend, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, pagesum.Errorf(pagesum.EAIREQUEST, "create gemini client: %v", err)
	}
	return &Backend{client: client}, nil
}

// Summarize generates a summary for req. A response without text yields a
// SummaryResponse with no choices.
func (b *Backend) Summarize(ctx context.Context, req *pagesum.SummaryRequest) (*pagesum.SummaryResponse, error) {
	result, err := b.client.Models.GenerateContent(ctx, req.Model,
		[]*genai.Content{genai.NewContentFromText(req.UserContent(), genai.RoleUser)},
		BuildConfig(req),
	)
	if err != nil {
		return nil, pagesum.Errorf(pagesum.EAIREQUEST, "%v", err)
	}
	if result == nil {
		return nil, pagesum.Errorf(pagesum.EAIREQUEST, "gemini returned nil result")
	}

	resp := &pagesum.SummaryResponse{}
	if text := result.Text(); text != "" {
		resp.Choices = append(resp.Choices, pagesum.Choice{
			Message: pagesum.ChoiceMessage{Content: text},
		})
	}
	return resp, nil
}

// BuildConfig returns the GenerateContentConfig for req.
func BuildConfig(req *pagesum.SummaryRequest) *genai.GenerateContentConfig {
	temp := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if prompt := req.SystemPrompt(); prompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: prompt}},
		}
	}
	return config
}

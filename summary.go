package pagesum

import "context"

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SummaryRequest is a chat-completion style summarization request.
type SummaryRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

// NewSummaryRequest builds a request with the configured system instruction
// followed by content as the user message.
func NewSummaryRequest(cfg *Config, content string) *SummaryRequest {
	return &SummaryRequest{
		Model: cfg.Model,
		Messages: []Message{
			{Role: RoleSystem, Content: cfg.SystemPrompt},
			{Role: RoleUser, Content: content},
		},
		Temperature: cfg.Temperature,
	}
}

// SystemPrompt returns the content of the first system message.
func (r *SummaryRequest) SystemPrompt() string {
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// UserContent returns the content of the last user message.
func (r *SummaryRequest) UserContent() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// SummaryResponse is the subset of a chat-completion response that is read.
type SummaryResponse struct {
	Choices []Choice `json:"choices"`
}

// Choice is a single completion choice.
type Choice struct {
	Message ChoiceMessage `json:"message"`
}

// ChoiceMessage holds the generated text of a choice.
type ChoiceMessage struct {
	Content string `json:"content"`
}

// FirstContent returns the content of the first choice.
// Returns EAIREQUEST if the response holds no choices.
func (r *SummaryResponse) FirstContent() (string, error) {
	if r == nil || len(r.Choices) == 0 {
		return "", Errorf(EAIREQUEST, "empty result")
	}
	return r.Choices[0].Message.Content, nil
}

// SummarizerBackend sends summary requests to an LLM provider.
type SummarizerBackend interface {
	Summarize(ctx context.Context, req *SummaryRequest) (*SummaryResponse, error)
}

// Summarizer turns cleaned content into a summary using cfg.
type Summarizer interface {
	// Summarize returns EAIREQUEST for a missing API key, a failed backend
	// request, or an empty response.
	Summarize(ctx context.Context, content string, cfg *Config) (string, error)
}

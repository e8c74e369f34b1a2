package ai

import "fmt"

// Settings selects and configures a Model backend.
type Settings struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// NewModel creates the Model for the configured provider.
func NewModel(s Settings) (Model, error) {
	switch s.Provider {
	case "", "openai":
		return NewClient(s.APIKey, s.Model, s.BaseURL), nil
	case "anthropic":
		return NewAnthropicModel(s.APIKey, s.Model, s.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", s.Provider)
	}
}

package llm

import (
	"context"
	"net/http"

	"github.com/dodai/navigator/internal/config"
)

// FromConfig builds the Completer selected by cfg. It returns nil, nil when the
// selected provider has no API key, which callers treat as "remote disabled".
func FromConfig(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	if !cfg.RemoteConfigured() {
		return nil, nil
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, GeminiConfig{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, httpClient)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:   cfg.APIKey,
			BaseURL:  cfg.BaseURL,
			Model:    cfg.Model,
			SiteURL:  cfg.SiteURL,
			SiteName: cfg.SiteName,
		}, httpClient), nil
	}
}

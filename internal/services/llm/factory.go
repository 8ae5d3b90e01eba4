package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/sahamlabs/emiten/internal/common"
)

// NewCollectionFromConfig builds the provider fallback chain in the
// configured order, skipping providers whose API key is absent. An empty
// chain is not an error: the service runs fine without generation, only
// the LLM-backed endpoints refuse.
func NewCollectionFromConfig(cfg *common.Config, logger arbor.ILogger) *Collection {
	providers := make([]Provider, 0, len(cfg.LLM.Providers))

	for _, name := range cfg.LLM.Providers {
		provider, err := newProvider(name, cfg, logger)
		if err != nil {
			logger.Warn().Err(err).Str("provider", name).Msg("Skipping LLM provider")
			continue
		}
		providers = append(providers, provider)
		logger.Info().Str("provider", name).Msg("Registered LLM provider")
	}

	if len(providers) == 0 {
		logger.Warn().Msg("No LLM providers available, generation endpoints disabled")
	}

	return NewCollection(providers, cfg.LLM.RatePerMinute, logger)
}

func newProvider(name string, cfg *common.Config, logger arbor.ILogger) (Provider, error) {
	switch name {
	case "claude":
		return NewClaudeService(&cfg.Claude, logger)
	case "gemini":
		return NewGeminiService(&cfg.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", name)
	}
}

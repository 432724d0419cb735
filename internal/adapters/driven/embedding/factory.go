// Package embedding provides factory functions for creating embedding
// service adapters.
package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/embedding/ollama"
	"github.com/lexra-labs/lexra-cli/internal/adapters/driven/embedding/openai"
	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateService creates the appropriate embedding service based on settings.
func CreateService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: no embedding provider configured, edit config.toml",
			domain.ErrEmbeddingFailed)
	}

	switch settings.Provider {
	case domain.EmbeddingProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.EmbeddingProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			Dimensions:        settings.Dimensions,
			RequestsPerSecond: settings.RequestsPerSecond,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateAndValidateService creates an embedding service and validates
// connectivity. Returns the service if successful, or an error with guidance.
func CreateAndValidateService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateService(settings)
	if err != nil {
		return nil, err
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingFailed, err)
	}

	return svc, nil
}

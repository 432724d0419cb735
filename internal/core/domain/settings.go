package domain

const unknownDescription = "Unknown"

// GateMetric selects which relevance signal the grounding gate
// compares against the threshold. Dense cosine, normalized BM25 and
// fused RRF scores live on different scales, so the choice is explicit
// configuration, never a guess.
type GateMetric string

// Available gate metrics.
const (
	// GateMetricCosine gates on the best dense cosine similarity
	// among the fused candidates (0-1).
	GateMetricCosine GateMetric = "cosine"

	// GateMetricBM25 gates on the best sparse BM25 score, saturated
	// onto (0, 1) by score/(score+1).
	GateMetricBM25 GateMetric = "bm25"

	// GateMetricFused gates on the best fused RRF score. Note the
	// RRF scale: a chunk ranked first by both paths scores 2/(k+1).
	GateMetricFused GateMetric = "fused"
)

// IsValid returns true if the gate metric is recognised.
func (m GateMetric) IsValid() bool {
	switch m {
	case GateMetricCosine, GateMetricBM25, GateMetricFused:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m GateMetric) String() string {
	return string(m)
}

// Description returns a human-readable description of the metric.
func (m GateMetric) Description() string {
	switch m {
	case GateMetricCosine:
		return "Dense cosine similarity (0-1)"
	case GateMetricBM25:
		return "Saturated BM25 (0-1)"
	case GateMetricFused:
		return "Fused RRF score"
	default:
		return unknownDescription
	}
}

// EmbeddingProvider identifies an embedding service provider.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the embedding provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds configuration for an embedding service.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider EmbeddingProvider

	// Model is the embedding model name. Empty means the provider
	// default.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey authenticates cloud providers. Unused by Ollama.
	APIKey string

	// Dimensions is the embedding vector size. Zero means the
	// provider default for the model.
	Dimensions int

	// RequestsPerSecond caps the request rate during bulk ingestion.
	// Zero means the provider default.
	RequestsPerSecond float64
}

// IsConfigured returns true if the settings name a valid provider with
// the credentials it needs.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider == EmbeddingProviderOpenAI && s.APIKey == "" {
		return false
	}
	return true
}

// Settings is the full application configuration: where data lives,
// how the engine is tuned and which embedding service to use.
type Settings struct {
	// DataDir is where bundles are stored. Empty means ~/.lexra/data.
	DataDir string

	Engine    EngineConfig
	Embedding EmbeddingSettings
}

// DefaultSettings returns settings with engine defaults and the local
// Ollama provider.
func DefaultSettings() Settings {
	return Settings{
		Engine: DefaultEngineConfig(),
		Embedding: EmbeddingSettings{
			Provider: EmbeddingProviderOllama,
		},
	}
}

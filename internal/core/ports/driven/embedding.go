package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The engine requires the exact same embedding function at bundle-build
// time and at query time; the bundle manifest pins the model name and
// dimension so the lifecycle manager can refuse a mismatched pairing.
//
// Implementations may include:
//   - Ollama (nomic-embed-text, all-minilm, paraphrase-multilingual)
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g., 384, 1536).
	// This must match the bundle's recorded dimension.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request. Used at startup before committing to a build.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

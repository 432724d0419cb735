package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
	"github.com/lexra-labs/lexra-cli/internal/core/ports/driven"
)

// Ensure ConfigStore implements the interface.
var _ driven.SettingsStore = (*ConfigStore)(nil)

// ConfigStore is a file-based implementation of driven.SettingsStore
// using TOML. Settings live in a single file within the lexra config
// directory.
type ConfigStore struct {
	mu       sync.Mutex
	filePath string
}

// fileSettings is the on-disk TOML schema. It is kept separate from
// the domain types so the file format can evolve independently.
type fileSettings struct {
	DataDir   string        `toml:"data_dir,omitempty"`
	Engine    fileEngine    `toml:"engine,omitempty"`
	Embedding fileEmbedding `toml:"embedding,omitempty"`
}

type fileEngine struct {
	ChunkSize          int     `toml:"chunk_size,omitempty"`
	ChunkOverlap       int     `toml:"chunk_overlap,omitempty"`
	EmbeddingDimension int     `toml:"embedding_dimension,omitempty"`
	BM25K1             float64 `toml:"bm25_k1,omitempty"`
	BM25B              float64 `toml:"bm25_b,omitempty"`
	RRFK               int     `toml:"rrf_k,omitempty"`
	KDense             int     `toml:"k_dense,omitempty"`
	KSparse            int     `toml:"k_sparse,omitempty"`
	KFinal             int     `toml:"k_final,omitempty"`
	DenseWeight        float64 `toml:"dense_weight,omitempty"`
	SparseWeight       float64 `toml:"sparse_weight,omitempty"`
	RelevanceThreshold float64 `toml:"relevance_threshold,omitempty"`
	RelevanceMetric    string  `toml:"relevance_metric,omitempty"`
}

type fileEmbedding struct {
	Provider          string  `toml:"provider,omitempty"`
	Model             string  `toml:"model,omitempty"`
	BaseURL           string  `toml:"base_url,omitempty"`
	APIKey            string  `toml:"api_key,omitempty"`
	Dimensions        int     `toml:"dimensions,omitempty"`
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.lexra/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".lexra")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
	}, nil
}

// Load reads settings from the TOML file. A missing file yields the
// defaults; any value the file does not set stays at its default.
func (s *ConfigStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file yet - that's fine, run on defaults
			return settings, nil
		}
		return settings, err
	}

	var fs fileSettings
	if err := toml.Unmarshal(data, &fs); err != nil {
		return settings, fmt.Errorf("parsing %s: %w", s.filePath, err)
	}

	applyFile(&settings, fs)
	settings.Engine = settings.Engine.Normalized()

	if !settings.Embedding.Provider.IsValid() {
		return settings, fmt.Errorf("%s: unknown embedding provider %q",
			s.filePath, fs.Embedding.Provider)
	}

	return settings, nil
}

// Save persists the settings to disk.
func (s *ConfigStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return err
	}

	// Write with restricted permissions: the file may hold an API key
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}

// applyFile overrides defaults with whatever the file sets. Zero
// values mean "not set" and leave the default in place.
func applyFile(settings *domain.Settings, fs fileSettings) {
	if fs.DataDir != "" {
		settings.DataDir = fs.DataDir
	}

	e := &settings.Engine
	if fs.Engine.ChunkSize > 0 {
		e.ChunkSize = fs.Engine.ChunkSize
	}
	if fs.Engine.ChunkOverlap > 0 {
		e.ChunkOverlap = fs.Engine.ChunkOverlap
	}
	if fs.Engine.EmbeddingDimension > 0 {
		e.EmbeddingDimension = fs.Engine.EmbeddingDimension
	}
	if fs.Engine.BM25K1 > 0 {
		e.BM25K1 = fs.Engine.BM25K1
	}
	if fs.Engine.BM25B > 0 {
		e.BM25B = fs.Engine.BM25B
	}
	if fs.Engine.RRFK > 0 {
		e.RRFK = fs.Engine.RRFK
	}
	if fs.Engine.KDense > 0 {
		e.KDense = fs.Engine.KDense
	}
	if fs.Engine.KSparse > 0 {
		e.KSparse = fs.Engine.KSparse
	}
	if fs.Engine.KFinal > 0 {
		e.KFinal = fs.Engine.KFinal
	}
	if fs.Engine.DenseWeight > 0 {
		e.DenseWeight = fs.Engine.DenseWeight
	}
	if fs.Engine.SparseWeight > 0 {
		e.SparseWeight = fs.Engine.SparseWeight
	}
	if fs.Engine.RelevanceThreshold > 0 {
		e.RelevanceThreshold = fs.Engine.RelevanceThreshold
	}
	if fs.Engine.RelevanceMetric != "" {
		e.RelevanceMetric = domain.GateMetric(fs.Engine.RelevanceMetric)
	}

	m := &settings.Embedding
	if fs.Embedding.Provider != "" {
		m.Provider = domain.EmbeddingProvider(fs.Embedding.Provider)
	}
	if fs.Embedding.Model != "" {
		m.Model = fs.Embedding.Model
	}
	if fs.Embedding.BaseURL != "" {
		m.BaseURL = fs.Embedding.BaseURL
	}
	if fs.Embedding.APIKey != "" {
		m.APIKey = fs.Embedding.APIKey
	}
	if fs.Embedding.Dimensions > 0 {
		m.Dimensions = fs.Embedding.Dimensions
	}
	if fs.Embedding.RequestsPerSecond > 0 {
		m.RequestsPerSecond = fs.Embedding.RequestsPerSecond
	}
}

func toFile(settings domain.Settings) fileSettings {
	return fileSettings{
		DataDir: settings.DataDir,
		Engine: fileEngine{
			ChunkSize:          settings.Engine.ChunkSize,
			ChunkOverlap:       settings.Engine.ChunkOverlap,
			EmbeddingDimension: settings.Engine.EmbeddingDimension,
			BM25K1:             settings.Engine.BM25K1,
			BM25B:              settings.Engine.BM25B,
			RRFK:               settings.Engine.RRFK,
			KDense:             settings.Engine.KDense,
			KSparse:            settings.Engine.KSparse,
			KFinal:             settings.Engine.KFinal,
			DenseWeight:        settings.Engine.DenseWeight,
			SparseWeight:       settings.Engine.SparseWeight,
			RelevanceThreshold: settings.Engine.RelevanceThreshold,
			RelevanceMetric:    settings.Engine.RelevanceMetric.String(),
		},
		Embedding: fileEmbedding{
			Provider:          settings.Embedding.Provider.String(),
			Model:             settings.Embedding.Model,
			BaseURL:           settings.Embedding.BaseURL,
			APIKey:            settings.Embedding.APIKey,
			Dimensions:        settings.Embedding.Dimensions,
			RequestsPerSecond: settings.Embedding.RequestsPerSecond,
		},
	}
}

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Generates vector embeddings. The same service must
//     be used at build time and at query time.
//   - VectorIndex: Dense similarity search over one bundle's vectors.
//   - SparseIndex: BM25 lexical search over the same chunks.
//   - BundleStore: Persists and reloads index bundles atomically.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

// Package domain defines the core business entities for Lexra.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested source text with metadata
//   - Chunk: A fixed-size overlapping text window, the atomic retrievable unit
//   - RetrievalResult / FusedResult: Ranked candidates per path / after rank fusion
//   - Grounding: The citation-tagged context handed to a downstream generator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

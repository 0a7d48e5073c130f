// Package domain defines the core business entities for ragindex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source text held in memory for one indexing run
//   - Segment: A window of words produced by the segmenter
//   - Chunk: A persisted row of the chunks table
//   - EmbeddingSlot: The vector slot reserved for a chunk
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

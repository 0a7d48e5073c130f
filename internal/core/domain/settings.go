package domain

import "fmt"

const unknownDescription = "Unknown"

// Default indexing settings.
const (
	// DefaultChunkSize is the default number of words per chunk.
	DefaultChunkSize = 800

	// DefaultOverlap is the default number of words shared by neighbouring
	// chunks. It only takes effect in ChunkModeOverlap.
	DefaultOverlap = 0

	// DefaultDBPath is the default destination store file.
	DefaultDBPath = "rag_vectors.db"
)

// ChunkMode selects the segmentation boundary policy.
type ChunkMode string

// Available chunk modes.
const (
	// ChunkModeStrict cuts fixed, non-overlapping windows. Overlap is ignored.
	ChunkModeStrict ChunkMode = "strict"

	// ChunkModeOverlap cuts sliding windows that share Overlap words.
	ChunkModeOverlap ChunkMode = "overlap"
)

// IsValid returns true if the chunk mode is recognised.
func (m ChunkMode) IsValid() bool {
	switch m {
	case ChunkModeStrict, ChunkModeOverlap:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m ChunkMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m ChunkMode) Description() string {
	switch m {
	case ChunkModeStrict:
		return "Strict (fixed windows, no overlap)"
	case ChunkModeOverlap:
		return "Overlap (sliding windows)"
	default:
		return unknownDescription
	}
}

// ChunkSettings configures the segmenter.
type ChunkSettings struct {
	Size    int
	Overlap int
	Mode    ChunkMode
}

// DefaultChunkSettings returns the built-in segmentation settings.
func DefaultChunkSettings() ChunkSettings {
	return ChunkSettings{
		Size:    DefaultChunkSize,
		Overlap: DefaultOverlap,
		Mode:    ChunkModeStrict,
	}
}

// Validate checks the settings and returns an error wrapping
// ErrInvalidArgument when they cannot be used.
func (s ChunkSettings) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("%w: chunk size must be > 0, got %d", ErrInvalidArgument, s.Size)
	}
	if !s.Mode.IsValid() {
		return fmt.Errorf("%w: unknown chunk mode %q", ErrInvalidArgument, s.Mode)
	}
	if s.Overlap < 0 {
		return fmt.Errorf("%w: overlap must be >= 0, got %d", ErrInvalidArgument, s.Overlap)
	}
	if s.Mode == ChunkModeOverlap && s.Overlap >= s.Size {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			ErrInvalidArgument, s.Overlap, s.Size)
	}
	return nil
}

// OverlapIgnored reports whether a configured overlap will have no effect.
func (s ChunkSettings) OverlapIgnored() bool {
	return s.Mode == ChunkModeStrict && s.Overlap > 0
}

package domain

import "time"

// Document is a source text loaded in full for a single indexing run.
// It is never persisted; only the chunks derived from it are.
type Document struct {
	// Path is the location the text was read from.
	Path string

	// Book is the identifier stored on every chunk of this document.
	Book string

	// Content is the full decoded text.
	Content string

	// ReadAt is when the source was loaded.
	ReadAt time.Time
}

// Segment is a contiguous window of words cut from a document.
// Start and End are word offsets (End exclusive), not character offsets.
type Segment struct {
	Start int
	End   int
	Text  string
}

// Words returns the number of words covered by the segment.
func (s Segment) Words() int {
	return s.End - s.Start
}

// Chunk represents a row of the chunks table.
// The column names start_page/end_page are kept for compatibility with
// existing readers; without page metadata they hold the chunk's 1-based
// sequence number within its book.
type Chunk struct {
	// ID is the store-assigned identity. Zero until inserted.
	ID int64

	// Book identifies the owning document.
	Book string

	// StartPos is stored in start_page.
	StartPos int

	// EndPos is stored in end_page.
	EndPos int

	// Text is the word-joined chunk content.
	Text string
}

// EmbeddingSlot is the vector slot keyed by a chunk's identity.
// A nil Embedding means the chunk is indexed but not yet embedded.
type EmbeddingSlot struct {
	ChunkID   int64
	Embedding []float32
}

// HasVector reports whether the slot holds a vector.
func (s EmbeddingSlot) HasVector() bool {
	return len(s.Embedding) > 0
}

// BookStats summarises what the store holds for one book.
type BookStats struct {
	Book     string `json:"book"`
	Chunks   int    `json:"chunks"`
	Embedded int    `json:"embedded"`
}

// Pending returns how many chunks still have no vector.
func (b BookStats) Pending() int {
	return b.Chunks - b.Embedded
}

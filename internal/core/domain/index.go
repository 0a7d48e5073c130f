package domain

import "time"

// IndexRequest describes one indexing run.
type IndexRequest struct {
	// SourcePath is the document to read.
	SourcePath string

	// Book is the identifier stored on every chunk. When empty the
	// source filename stem is used.
	Book string

	// Chunking configures the segmenter.
	Chunking ChunkSettings
}

// IndexResult reports the outcome of a successful run.
type IndexResult struct {
	// RunID identifies the run in logs.
	RunID string

	// Book is the identifier the chunks were stored under.
	Book string

	// Characters is the decoded length of the source text.
	Characters int

	// Words is the number of words found in the source.
	Words int

	// Segments is the number of chunks the segmenter produced.
	Segments int

	// Inserted is the number of chunk rows committed to the store.
	Inserted int

	// Duration is the wall time of the run.
	Duration time.Duration
}

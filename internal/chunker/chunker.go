// Package chunker splits document text into word-count segments.
package chunker

import (
	"strings"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// Segmenter cuts text into windows of words.
// It holds no state beyond its settings and is safe for concurrent use.
type Segmenter struct {
	size    int
	overlap int
	mode    domain.ChunkMode
}

// New creates a segmenter from validated settings.
// Returns an error wrapping domain.ErrInvalidArgument for unusable settings.
func New(settings domain.ChunkSettings) (*Segmenter, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &Segmenter{
		size: settings.Size,
		mode: settings.Mode,
	}
	// Strict mode never shares words between chunks.
	if settings.Mode == domain.ChunkModeOverlap {
		s.overlap = settings.Overlap
	}
	return s, nil
}

// Segment splits text on whitespace runs and groups the words into windows.
// Each segment's text is its words joined by a single space, so original
// spacing and line breaks are not preserved. Text without words yields nil.
func (s *Segmenter) Segment(text string) []domain.Segment {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.size - s.overlap
	segments := make([]domain.Segment, 0, (len(words)+step-1)/step)

	for start := 0; start < len(words); start += step {
		end := start + s.size
		if end > len(words) {
			end = len(words)
		}

		segments = append(segments, domain.Segment{
			Start: start,
			End:   end,
			Text:  strings.Join(words[start:end], " "),
		})

		// The window reached the last word; any later window would sit
		// entirely inside this one.
		if end == len(words) {
			break
		}
	}

	return segments
}

// Segment splits text into fixed, non-overlapping windows of chunkSize words.
// The overlap argument is accepted for compatibility and ignored.
func Segment(text string, chunkSize, overlap int) ([]domain.Segment, error) {
	s, err := New(domain.ChunkSettings{
		Size:    chunkSize,
		Overlap: overlap,
		Mode:    domain.ChunkModeStrict,
	})
	if err != nil {
		return nil, err
	}
	return s.Segment(text), nil
}

// CountWords returns the number of whitespace-separated words in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

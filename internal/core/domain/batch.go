package domain

// BatchSize returns how many rows are committed together when inserting
// total chunks: about a tenth of the total, never less than one.
func BatchSize(total int) int {
	size := total / 10
	if size < 1 {
		return 1
	}
	return size
}

// BatchCount returns the number of commits needed for total chunks.
func BatchCount(total int) int {
	if total <= 0 {
		return 0
	}
	size := BatchSize(total)
	return (total + size - 1) / size
}

// Progress is a point-in-time view of an insert run.
type Progress struct {
	// Done is the number of rows committed so far.
	Done int

	// Total is the number of rows the run will insert.
	Total int

	// Batch is the 1-based index of the batch just committed.
	Batch int

	// Batches is the total number of batches.
	Batches int
}

// Percent returns the completed share as an integer percentage.
func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 100
	}
	return 100 * p.Done / p.Total
}

// ProgressAt computes the progress after done of total rows are committed.
func ProgressAt(done, total int) Progress {
	p := Progress{Done: done, Total: total, Batches: BatchCount(total)}
	if done > 0 {
		size := BatchSize(total)
		p.Batch = (done + size - 1) / size
	}
	return p
}

// ProgressFunc receives progress after each committed batch.
type ProgressFunc func(Progress)

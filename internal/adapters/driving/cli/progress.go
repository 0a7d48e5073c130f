package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/tasha-health/ragindex/internal/core/domain"
)

// progressReporter renders batch commits. On a terminal it draws a bar;
// elsewhere it prints one line per batch so logs stay readable.
type progressReporter struct {
	w     io.Writer
	quiet bool
	tty   bool
	bar   *progressbar.ProgressBar
	last  domain.Progress
}

func newProgressReporter(w io.Writer, quiet bool) *progressReporter {
	return &progressReporter{w: w, quiet: quiet, tty: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Update is a domain.ProgressFunc.
func (r *progressReporter) Update(p domain.Progress) {
	r.last = p
	if r.quiet {
		return
	}

	if !r.tty {
		fmt.Fprintf(r.w, "Committed batch %d/%d: %d/%d chunks (%d%%)\n",
			p.Batch, p.Batches, p.Done, p.Total, p.Percent())
		return
	}

	if r.bar == nil {
		r.bar = progressbar.NewOptions(p.Total,
			progressbar.OptionSetWriter(r.w),
			progressbar.OptionShowBytes(false),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetDescription("Inserting"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(r.w)
			}),
		)
	}
	_ = r.bar.Set(p.Done)
}

// Finish closes an unfinished bar so the next line starts clean.
func (r *progressReporter) Finish() {
	if r.bar != nil && r.last.Done < r.last.Total {
		fmt.Fprintln(r.w)
	}
}

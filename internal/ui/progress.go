package ui

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress tracks URLs processed during a run
type Progress interface {
	// Step marks one URL done and shows desc next to the bar
	Step(desc string)
	// Done finishes and clears the bar
	Done()
}

// NewProgress returns a bar over total URLs drawn on w, or a no-op when
// disabled or total is zero
func NewProgress(w io.Writer, total int, enabled bool) Progress {
	if !enabled || total <= 0 {
		return nopProgress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("scraping"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
	return &barProgress{bar: bar}
}

type barProgress struct {
	bar *progressbar.ProgressBar
}

func (p *barProgress) Step(desc string) {
	p.bar.Describe(desc)
	_ = p.bar.Add(1)
}

func (p *barProgress) Done() {
	_ = p.bar.Finish()
}

type nopProgress struct{}

func (nopProgress) Step(string) {}
func (nopProgress) Done()       {}

package utils

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Progress tracks completed searches. It renders a bar on stderr only when
// stderr is a terminal; otherwise every call is a no-op.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a Progress over total steps.
func NewProgress(total int, description string) *Progress {
	p := &Progress{}
	if isatty.IsTerminal(os.Stderr.Fd()) {
		p.bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}
	return p
}

// Step advances the bar by one.
func (p *Progress) Step() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Add(1)
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	if p == nil || p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

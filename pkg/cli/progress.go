package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter renders the advancing state of a watched order.
type ProgressReporter interface {
	Update(status string, percent int)
	Finish(status string)
	Error(err error)
}

// barWidth is the character width of the rendered progress bar.
const barWidth = 30

// BarProgress renders a single-line progress bar, rewriting the line in
// place on each update.
type BarProgress struct {
	mu      sync.Mutex
	writer  io.Writer
	started time.Time
	last    string
}

// NewProgressReporter creates a progress reporter writing to w.
// If w is nil, it defaults to os.Stdout.
func NewProgressReporter(w io.Writer) ProgressReporter {
	if w == nil {
		w = os.Stdout
	}
	return &BarProgress{
		writer:  w,
		started: time.Now(),
	}
}

// Update redraws the bar with the current status and percentage.
func (p *BarProgress) Update(status string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := barWidth * percent / 100
	bar := strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled)
	elapsed := time.Since(p.started).Round(time.Second)

	line := fmt.Sprintf("[%s] %3d%%  %-12s %s", bar, percent, status, elapsed)
	p.render(line)
}

// Finish completes the bar and moves to the next line.
func (p *BarProgress) Finish(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	elapsed := time.Since(p.started).Round(time.Second)
	line := fmt.Sprintf("[%s] 100%%  %-12s %s", strings.Repeat("=", barWidth), status, elapsed)
	p.render(line)
	fmt.Fprintln(p.writer)
}

// Error abandons the bar and reports the failure on its own line.
func (p *BarProgress) Error(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.writer, "\nwatch failed: %v\n", err)
}

func (p *BarProgress) render(line string) {
	// Pad with spaces so a shorter line fully overwrites the previous one.
	padding := ""
	if n := len(p.last) - len(line); n > 0 {
		padding = strings.Repeat(" ", n)
	}
	fmt.Fprintf(p.writer, "\r%s%s", line, padding)
	p.last = line
}

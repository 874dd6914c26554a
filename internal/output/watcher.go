package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

const (
	BarWidth        = 20
	DefaultInterval = 500 * time.Millisecond
)

type flusher interface {
	Flush() error
}

// Watcher samples the number of jobs still waiting in a queue and keeps a single-line
// progress bar up to date. It is the only writer of progress text to its sink.
type Watcher struct {
	out      io.Writer
	total    int
	depth    func() int
	interval time.Duration

	lastBar string
	percent int
	done    bool
}

// NewWatcher returns a Watcher over total jobs. depth reports how many jobs have not been
// picked up yet. A nil out writes to stdout and a zero interval uses DefaultInterval.
func NewWatcher(out io.Writer, total int, depth func() int, interval time.Duration) *Watcher {
	if out == nil {
		out = os.Stdout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		out:      out,
		total:    total,
		depth:    depth,
		interval: interval,
	}
}

// Run renders until the depth reaches zero, then writes the final 100% bar and a line break.
func (w *Watcher) Run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		w.refresh()
		w.render()
		if w.done {
			w.write("\n")
			return
		}
		<-ticker.C
	}
}

// Percent returns the last computed completion percentage.
func (w *Watcher) Percent() int {
	return w.percent
}

func (w *Watcher) refresh() {
	numLeft := w.depth()
	if numLeft <= 0 || w.total <= 0 {
		w.done = true
		w.percent = 100
		return
	}
	pct := 100 * (w.total - numLeft) / w.total
	// depth only shrinks, but never let a bad sample move the bar backwards
	w.percent = max(w.percent, min(max(pct, 0), 100))
}

func (w *Watcher) render() {
	bar := Bar(w.percent)
	if w.lastBar != "" {
		w.write("\r" + strings.Repeat(" ", len(w.lastBar)) + "\r")
	}
	w.write(bar)
	w.lastBar = bar
}

func (w *Watcher) write(s string) {
	io.WriteString(w.out, s)
	if f, ok := w.out.(flusher); ok {
		f.Flush()
	}
}

// Bar formats percent as a fixed-width bar, e.g. "|##########          | 50%".
func Bar(percent int) string {
	percent = min(max(percent, 0), 100)
	filled := BarWidth * percent / 100
	return fmt.Sprintf("|%s%s| %d%%", strings.Repeat("#", filled), strings.Repeat(" ", BarWidth-filled), percent)
}

// Package progress renders adapter progress on stderr for interactive runs.
// Non-interactive runs (hooks, CI) get a no-op manager.
package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Manager creates progress tasks.
type Manager interface {
	StartTask(description string, total int) Task
	Close()
}

// Task tracks one unit of work.
type Task interface {
	Increment(n int)
	Complete()
}

// NewManager returns an interactive bar manager when enabled and attached to
// a terminal, and a no-op otherwise.
func NewManager(enabled bool) Manager {
	if enabled && isInteractive() {
		return &barManager{writer: os.Stderr}
	}
	return &noOpManager{}
}

func isInteractive() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

type barManager struct {
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

func (m *barManager) StartTask(description string, total int) Task {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(m.writer),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	m.bars = append(m.bars, bar)
	return &barTask{bar: bar}
}

func (m *barManager) Close() {
	for _, bar := range m.bars {
		_ = bar.Finish()
	}
	m.bars = nil
}

type barTask struct {
	bar *progressbar.ProgressBar
}

func (t *barTask) Increment(n int) { _ = t.bar.Add(n) }
func (t *barTask) Complete()       { _ = t.bar.Finish() }

type noOpManager struct{}

func (*noOpManager) StartTask(string, int) Task { return noOpTask{} }
func (*noOpManager) Close()                     {}

type noOpTask struct{}

func (noOpTask) Increment(int) {}
func (noOpTask) Complete()     {}

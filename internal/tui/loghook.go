package tui

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

// heldLogs is a logrus hook that keeps formatted lines in memory while a
// spinner owns the terminal. Only the newest max lines are kept.
type heldLogs struct {
	mu        sync.Mutex
	formatter log.Formatter
	max       int
	lines     []string
	dropped   int
}

func newHeldLogs(formatter log.Formatter, max int) *heldLogs {
	if max < 1 {
		max = 1
	}
	return &heldLogs{formatter: formatter, max: max}
}

func (h *heldLogs) Levels() []log.Level { return log.AllLevels }

func (h *heldLogs) Fire(entry *log.Entry) error {
	line := fmt.Sprintf("[%s] %s", entry.Level, entry.Message)
	if h.formatter != nil {
		if b, err := h.formatter.Format(entry); err == nil {
			line = strings.TrimRight(string(b), "\r\n")
		}
	}
	line = logLevelStyle(entry.Level.String()).Render(line)

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.lines) == h.max {
		copy(h.lines, h.lines[1:])
		h.lines = h.lines[:h.max-1]
		h.dropped++
	}
	h.lines = append(h.lines, line)
	return nil
}

// take returns the held lines, prefixed by a note when older lines were
// dropped, and empties the buffer.
func (h *heldLogs) take() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.lines)+1)
	if h.dropped > 0 {
		out = append(out, logWarnStyle.Render(fmt.Sprintf("(%d earlier log lines dropped)", h.dropped)))
	}
	out = append(out, h.lines...)
	h.lines, h.dropped = nil, 0
	return out
}

package pipeline

import (
	"io"
	"log"
)

var progressLogger *log.Logger

// SetLogWriter configures the pipeline's progress log stream.
// Pass nil to disable logging; the default is disabled.
func SetLogWriter(w io.Writer) {
	if w == nil {
		progressLogger = nil
		return
	}
	progressLogger = log.New(w, "[mosaic] ", log.LstdFlags|log.Lmicroseconds)
}

// logf logs to the progress stream (per-realization timing, run totals).
func logf(format string, args ...interface{}) {
	if progressLogger != nil {
		progressLogger.Printf(format, args...)
	}
}

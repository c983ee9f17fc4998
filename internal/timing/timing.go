// Package timing records elapsed-time checkpoints for a single run.
package timing

import (
	"sync"
	"time"

	"github.com/alexander-akhmetov/llmc/internal/debug"
)

var (
	mu        sync.Mutex
	startTime = time.Now()
	lastTime  = startTime
)

// Log records a checkpoint in the debug log with the time since the
// previous checkpoint and since process start.
func Log(label string) {
	if !debug.Enabled() {
		return
	}
	sinceLast, sinceStart := mark(time.Now())
	debug.Logw("timing", "label", label,
		"since_last_ms", sinceLast.Milliseconds(),
		"total_ms", sinceStart.Milliseconds())
}

func mark(now time.Time) (sinceLast, sinceStart time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	sinceLast = now.Sub(lastTime)
	sinceStart = now.Sub(startTime)
	lastTime = now
	return sinceLast, sinceStart
}

package runtime

import (
	"sync"
	"time"

	logpkg "github.com/rzbill/cliphist/pkg/log"
)

// storageMetrics aggregates pebble observations and logs them at debug level
// when the runtime closes.
type storageMetrics struct {
	logger logpkg.Logger

	mu         sync.Mutex
	reads      int
	readBytes  int
	writes     int
	writeBytes int
	commits    int
	commitTime time.Duration
}

func (m *storageMetrics) ObserveWrite(_ time.Duration, bytes int) {
	m.mu.Lock()
	m.writes++
	m.writeBytes += bytes
	m.mu.Unlock()
}

func (m *storageMetrics) ObserveRead(_ time.Duration, bytes int) {
	m.mu.Lock()
	m.reads++
	m.readBytes += bytes
	m.mu.Unlock()
}

func (m *storageMetrics) ObserveBatchCommit(elapsed time.Duration, numOps int, bytes int) {
	m.mu.Lock()
	m.commits++
	m.commitTime += elapsed
	m.mu.Unlock()
	m.logger.Debug("batch committed",
		logpkg.Int("ops", numOps),
		logpkg.Int("bytes", bytes),
		logpkg.Duration("elapsed", elapsed))
}

func (m *storageMetrics) report() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reads+m.writes+m.commits == 0 {
		return
	}
	m.logger.Debug("storage totals",
		logpkg.Int("reads", m.reads),
		logpkg.Int("read_bytes", m.readBytes),
		logpkg.Int("writes", m.writes),
		logpkg.Int("write_bytes", m.writeBytes),
		logpkg.Int("commits", m.commits),
		logpkg.Duration("commit_time", m.commitTime))
}

package diagnostics

import "sync"

// LogBuffer keeps the most recent request lines for the debug endpoint.
type LogBuffer struct {
	mu    sync.RWMutex
	data  []string
	next  int
	total int
}

// NewLogBuffer builds buffer holding up to limit lines.
func NewLogBuffer(limit int) *LogBuffer {
	if limit <= 0 {
		limit = 100
	}
	return &LogBuffer{data: make([]string, limit)}
}

// Append stores new log line, evicting the oldest when full.
func (b *LogBuffer) Append(entry string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[b.next] = entry
	b.next = (b.next + 1) % len(b.data)
	if b.total < len(b.data) {
		b.total++
	}
}

// Snapshot returns lines oldest first.
func (b *LogBuffer) Snapshot() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, b.total)
	start := (b.next - b.total + len(b.data)) % len(b.data)
	for i := 0; i < b.total; i++ {
		out = append(out, b.data[(start+i)%len(b.data)])
	}
	return out
}

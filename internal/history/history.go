package history

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries a session keeps.
const DefaultCapacity = 5

// Entry is one past prediction as shown in the history list.
type Entry struct {
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
	BMI           float64   `json:"bmi" yaml:"bmi"`
	Category      string    `json:"category" yaml:"category"`
	CategoryLabel string    `json:"category_label" yaml:"category_label"`
	Confidence    int       `json:"confidence" yaml:"confidence"`
}

// Buffer is a bounded, ordered list of entries. When full, adding an entry
// evicts the oldest one.
type Buffer struct {
	entries  []Entry
	capacity int
	mu       sync.RWMutex
}

// New creates a buffer holding at most capacity entries. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Add appends e and returns the entry evicted to make room, if any.
func (b *Buffer) Add(e Entry) (evicted *Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == b.capacity {
		oldest := b.entries[0]
		evicted = &oldest
		copy(b.entries, b.entries[1:])
		b.entries = b.entries[:len(b.entries)-1]
	}
	b.entries = append(b.entries, e)
	return evicted
}

// Entries returns a copy of the buffer, oldest first.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Latest returns entries newest first, the order the result page displays.
func (b *Buffer) Latest() []Entry {
	entries := b.Entries()
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *Buffer) Cap() int {
	return b.capacity
}

// Clear removes every entry.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}

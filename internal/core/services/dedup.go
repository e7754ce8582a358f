package services

// DefaultDedupCapacity is the retention window of the dedup filter. Beyond
// this window redelivery of an old event is indistinguishable from a new one,
// which is the accepted best-effort tradeoff.
const DefaultDedupCapacity = 100

// DedupFilter is a bounded set of recently seen notification identity keys.
// Eviction is FIFO by insertion order, not LRU: once capacity is exceeded the
// oldest-inserted key becomes eligible for redelivery again.
//
// Not safe for concurrent use; the dispatcher owns it exclusively.
type DedupFilter struct {
	capacity int
	ring     []string
	next     int
	seen     map[string]struct{}
}

// NewDedupFilter creates a filter retaining up to capacity identity keys.
func NewDedupFilter(capacity int) *DedupFilter {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &DedupFilter{
		capacity: capacity,
		ring:     make([]string, 0, capacity),
		seen:     make(map[string]struct{}, capacity),
	}
}

// ShouldProcess reports whether the identity key is novel. A duplicate leaves
// the filter unchanged; a novel key is recorded, evicting the oldest entry if
// the filter is full. Must be consulted before any side effect or history
// append.
func (f *DedupFilter) ShouldProcess(key string) bool {
	if _, dup := f.seen[key]; dup {
		return false
	}

	if len(f.ring) < f.capacity {
		f.ring = append(f.ring, key)
		f.next = len(f.ring) % f.capacity
	} else {
		delete(f.seen, f.ring[f.next])
		f.ring[f.next] = key
		f.next = (f.next + 1) % f.capacity
	}

	f.seen[key] = struct{}{}
	return true
}

// Len returns the number of retained keys.
func (f *DedupFilter) Len() int {
	return len(f.seen)
}

// Clear drops all retained keys. Called on session teardown.
func (f *DedupFilter) Clear() {
	f.ring = f.ring[:0]
	f.next = 0
	f.seen = make(map[string]struct{}, f.capacity)
}

package core

import (
	"container/list"
	"encoding/binary"
	"hash/fnv"
	"sync"
)

// HitRecord is returned by VisitedStates.Add when the incoming state
// matches one already in the store.
type HitRecord struct {
	// CanonicalNum is the num of the state originally inserted; the
	// caller should treat this as the state actually reached.
	CanonicalNum int64
}

// visitedEntry is the lightweight record VisitedStates retains for a
// previously-seen state: just enough to decide equality against future
// candidates without holding the whole State (and its snapshot) alive.
type visitedEntry struct {
	num           int64
	actorCount    int
	heapBytesUsed int64
	snapshot      Snapshot
}

// VisitedStates is a bounded, content-addressed store of previously seen
// system snapshots, used for state-equality reduction.
//
// Candidate lookup is O(1) amortized: states are bucketed by an FNV-1a hash
// of (actorCount, heapBytesUsed), and the expensive Snapshot.Equal compare
// only runs against entries in a matching bucket.
type VisitedStates struct {
	mu      sync.Mutex
	cap     int
	buckets map[uint64][]*visitedEntry
	order   *list.List // insertion order, front = oldest, for eviction
	index   map[*visitedEntry]*list.Element
}

// NewVisitedStates creates a store bounded to at most capacity entries. A
// capacity of 0 means unbounded (the caller is expected to have already
// decided state-equality reduction is enabled; MaxVisitedStates == 0 at the
// explorer config level disables this store entirely instead).
func NewVisitedStates(capacity int) *VisitedStates {
	return &VisitedStates{
		cap:     capacity,
		buckets: make(map[uint64][]*visitedEntry),
		order:   list.New(),
		index:   make(map[*visitedEntry]*list.Element),
	}
}

func bucketKey(actorCount int, heapBytesUsed int64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(int64(actorCount)))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(heapBytesUsed))
	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// Add inserts state if no equal state is already present, returning nil.
// If an equal state is present, returns a HitRecord naming its canonical
// num and leaves the store unmodified.
func (v *VisitedStates) Add(s *State) *HitRecord {
	v.mu.Lock()
	defer v.mu.Unlock()

	key := bucketKey(s.ActorCount(), s.HeapBytesUsed())
	bucket := v.buckets[key]

	if snap := s.SystemState(); snap != nil {
		for _, e := range bucket {
			if e.actorCount == s.ActorCount() && e.heapBytesUsed == s.HeapBytesUsed() && e.snapshot != nil && e.snapshot.Equal(snap) {
				return &HitRecord{CanonicalNum: e.num}
			}
		}
	}

	entry := &visitedEntry{
		num:           s.Num(),
		actorCount:    s.ActorCount(),
		heapBytesUsed: s.HeapBytesUsed(),
		snapshot:      s.SystemState(),
	}
	v.buckets[key] = append(bucket, entry)
	v.index[entry] = v.order.PushBack(entry)

	v.evictLocked()
	return nil
}

// Len returns the number of entries currently retained.
func (v *VisitedStates) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.order.Len()
}

func (v *VisitedStates) evictLocked() {
	if v.cap <= 0 {
		return
	}
	for v.order.Len() > v.cap {
		front := v.order.Front()
		if front == nil {
			return
		}
		entry := front.Value.(*visitedEntry)
		v.order.Remove(front)
		delete(v.index, entry)

		key := bucketKey(entry.actorCount, entry.heapBytesUsed)
		bucket := v.buckets[key]
		for i, e := range bucket {
			if e == entry {
				v.buckets[key] = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
	}
}

package chat

import "sync"

const lockStripes = 64

// keyedMutex serializes work on a per-message basis. Keys are hashed
// onto a fixed set of stripes, so unrelated messages rarely contend and
// operations on the same message never interleave.
type keyedMutex struct {
	stripes [lockStripes]sync.Mutex
}

func (km *keyedMutex) lock(key int64) *sync.Mutex {
	mu := &km.stripes[uint64(key)%lockStripes]
	mu.Lock()
	return mu
}

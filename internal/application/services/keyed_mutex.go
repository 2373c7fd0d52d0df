package services

import "sync"

// keyedMutex provides mutual exclusion per string key. It backs the
// per-station serialization of consensus recomputes and the per-coordinate-
// bucket serialization of reconciliation, both of which are scan-then-write
// sequences that would otherwise race under concurrent requests.
type keyedMutex struct {
	locks sync.Map // key -> *sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock function.
func (m *keyedMutex) Lock(key string) func() {
	value, _ := m.locks.LoadOrStore(key, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

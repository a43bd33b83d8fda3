package votes

import "sync"

// keyedMutex serializes work per key. Entries are reference counted so the
// map does not grow with every vote id ever seen.
type keyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	refs int
	mu   sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{entries: make(map[string]*lockEntry)}
}

// lock blocks until the key's mutex is held and returns the unlock func.
func (km *keyedMutex) lock(key string) (unlock func()) {
	km.mu.Lock()
	e, ok := km.entries[key]
	if !ok {
		e = &lockEntry{}
		km.entries[key] = e
	}
	e.refs++
	km.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		km.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(km.entries, key)
		}
		km.mu.Unlock()
	}
}

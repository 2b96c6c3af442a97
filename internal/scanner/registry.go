package scanner

import "sync"

// scanState pairs a scan with the mutex that guards it. The engine
// goroutine driving the scan is the only writer; readers take the lock
// and copy.
type scanState struct {
	mu   sync.Mutex
	scan Scan
}

func (st *scanState) snapshot() Scan {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.scan.clone()
}

// Registry holds scan state in memory, split into active (still
// progressing) and completed (reached a terminal state) sets. It is
// created at startup and injected wherever scans are looked up.
type Registry struct {
	mu        sync.RWMutex
	active    map[string]*scanState
	completed map[string]*scanState
}

func NewRegistry() *Registry {
	return &Registry{
		active:    make(map[string]*scanState),
		completed: make(map[string]*scanState),
	}
}

func (r *Registry) add(st *scanState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active[st.scan.ID] = st
}

// get looks the scan up in both sets.
func (r *Registry) get(id string) (*scanState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if st, ok := r.active[id]; ok {
		return st, true
	}
	st, ok := r.completed[id]
	return st, ok
}

// complete moves a scan from the active set to the completed set.
func (r *Registry) complete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if st, ok := r.active[id]; ok {
		delete(r.active, id)
		r.completed[id] = st
	}
}

// ActiveCount reports how many scans are still progressing.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}

// CompletedCount reports how many scans have reached a terminal state.
func (r *Registry) CompletedCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.completed)
}

package usecase

import (
	"sort"
	"sync"
)

// InFlight counts pending workflows per lead. It is advisory: nothing blocks on it,
// callers read Busy to decide whether to offer the action again.
type InFlight struct {
	mu      sync.Mutex
	pending map[string]int
}

func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[string]int)}
}

// Begin marks leadID busy and returns the matching release func.
func (f *InFlight) Begin(leadID string) func() {
	f.mu.Lock()
	f.pending[leadID]++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.pending[leadID] <= 1 {
				delete(f.pending, leadID)
				return
			}
			f.pending[leadID]--
		})
	}
}

func (f *InFlight) Busy(leadID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[leadID] > 0
}

// Leads returns the busy lead ids, sorted.
func (f *InFlight) Leads() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.pending))
	for id := range f.pending {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

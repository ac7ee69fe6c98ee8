package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

// LeadStore holds the session's leads in memory. Mutations run a pure transform
// of the current value under the lock, so readers never see a half-applied update.
type LeadStore struct {
	mu      sync.RWMutex
	order   []string
	leads   map[string]entity.Lead
	version uint64

	now   func() time.Time
	newID func() string
}

func NewLeadStore() *LeadStore {
	return &LeadStore{
		leads: make(map[string]entity.Lead),
		now:   time.Now,
		newID: func() string { return "ix_" + uuid.New().String() },
	}
}

// Load replaces the store contents. Nothing changes when a lead is invalid.
func (s *LeadStore) Load(initial []entity.Lead) error {
	order := make([]string, 0, len(initial))
	leads := make(map[string]entity.Lead, len(initial))

	for _, l := range initial {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lead %q: %w", l.ID, err)
		}
		if _, dup := leads[l.ID]; dup {
			return fmt.Errorf("duplicate lead id %q", l.ID)
		}
		order = append(order, l.ID)
		leads[l.ID] = l.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.leads = leads
	s.version++
	return nil
}

func (s *LeadStore) Get(id string) (entity.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.leads[id]
	if !ok {
		return entity.Lead{}, false
	}
	return l.Clone(), true
}

// List returns copies of every lead in load order.
func (s *LeadStore) List() []entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Lead, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.leads[id].Clone())
	}
	return out
}

// Version increases on every applied mutation.
func (s *LeadStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *LeadStore) ApplyQualification(id string, score int, reasons, disqualifiers []string) (entity.Lead, bool) {
	return s.update(id, func(l entity.Lead, stamp entity.InteractionStamp) entity.Lead {
		return l.Qualify(score, reasons, disqualifiers, stamp)
	})
}

func (s *LeadStore) AdvanceStage(id string) (entity.Lead, bool) {
	return s.update(id, func(l entity.Lead, stamp entity.InteractionStamp) entity.Lead {
		return l.Advance(stamp)
	})
}

func (s *LeadStore) LogEmail(id, subject, body, cta string) (entity.Lead, bool) {
	draft := entity.EmailDraft{Subject: subject, Body: body, CTA: cta}
	return s.update(id, func(l entity.Lead, stamp entity.InteractionStamp) entity.Lead {
		return l.LogEmail(draft, stamp)
	})
}

// update is a no-op for unknown ids.
func (s *LeadStore) update(id string, fn func(entity.Lead, entity.InteractionStamp) entity.Lead) (entity.Lead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.leads[id]
	if !ok {
		return entity.Lead{}, false
	}

	next := fn(current, s.stamp)
	s.leads[id] = next
	s.version++
	return next.Clone(), true
}

func (s *LeadStore) stamp(kind entity.InteractionType, content string) entity.Interaction {
	return entity.Interaction{
		ID:        s.newID(),
		Type:      kind,
		Timestamp: s.now().UTC(),
		Content:   content,
	}
}

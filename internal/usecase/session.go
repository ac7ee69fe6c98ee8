package usecase

import (
	"maps"
	"sync"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/query"
)

// ViewListener is told about every change of the effective query parameters.
type ViewListener func(p query.Params)

// Session is the state of one dashboard: effective filters, the last error and notice,
// pending drafts and proposed slots per lead, and the busy registry.
type Session struct {
	mu        sync.RWMutex
	params    query.Params
	rawSearch string
	errMsg    string
	notice    string
	drafts    map[string]entity.EmailDraft
	slots     map[string][]entity.Slot

	inflight  *InFlight
	debouncer *query.Debouncer
	listener  ViewListener
}

func NewSession(debounce time.Duration, listener ViewListener) *Session {
	s := &Session{
		params:   query.DefaultParams(),
		drafts:   make(map[string]entity.EmailDraft),
		slots:    make(map[string][]entity.Slot),
		inflight: NewInFlight(),
		listener: listener,
	}
	s.debouncer = query.NewDebouncer(debounce, s.applySearch)
	return s
}

// SessionState is a point-in-time copy for the API.
type SessionState struct {
	Params    query.Params                 `json:"params"`
	RawSearch string                       `json:"rawSearch"`
	Error     string                       `json:"error,omitempty"`
	Notice    string                       `json:"notice,omitempty"`
	Busy      []string                     `json:"busy"`
	Drafts    map[string]entity.EmailDraft `json:"drafts"`
	Slots     map[string][]entity.Slot     `json:"slots"`
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return SessionState{
		Params:    s.params,
		RawSearch: s.rawSearch,
		Error:     s.errMsg,
		Notice:    s.notice,
		Busy:      s.inflight.Leads(),
		Drafts:    maps.Clone(s.drafts),
		Slots:     maps.Clone(s.slots),
	}
}

func (s *Session) Params() query.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetFilters applies stage, threshold and sort immediately. The search term is untouched.
func (s *Session) SetFilters(stage entity.Stage, minScore int, sort query.SortDirection) {
	s.mu.Lock()
	s.params.Stage = stage
	s.params.MinScore = minScore
	s.params.Sort = sort
	p := s.params
	s.mu.Unlock()

	s.notify(p)
}

// TypeSearch records a keystroke. The effective term follows after the debounce window.
func (s *Session) TypeSearch(raw string) {
	s.mu.Lock()
	s.rawSearch = raw
	s.mu.Unlock()

	s.debouncer.Push(raw)
}

func (s *Session) applySearch(raw string) {
	s.mu.Lock()
	s.params.Search = query.NormalizeSearch(raw)
	p := s.params
	s.mu.Unlock()

	s.notify(p)
}

func (s *Session) notify(p query.Params) {
	if s.listener != nil {
		s.listener(p)
	}
}

// Close drops any pending search keystroke.
func (s *Session) Close() {
	s.debouncer.Stop()
}

// SetError replaces any unacknowledged error.
func (s *Session) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

func (s *Session) DismissError() {
	s.SetError("")
}

func (s *Session) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Session) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}

func (s *Session) Draft(leadID string) (entity.EmailDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[leadID]
	return d, ok
}

func (s *Session) SetDraft(leadID string, d entity.EmailDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[leadID] = d
}

func (s *Session) DiscardDraft(leadID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, leadID)
}

func (s *Session) Slots(leadID string) ([]entity.Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.slots[leadID]
	return sl, ok
}

func (s *Session) setSlots(leadID string, slots []entity.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[leadID] = slots
}

func (s *Session) Busy(leadID string) bool {
	return s.inflight.Busy(leadID)
}

func (s *Session) begin(leadID string) func() {
	return s.inflight.Begin(leadID)
}

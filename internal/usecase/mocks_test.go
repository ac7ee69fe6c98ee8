package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, lead entity.Lead) (entity.Qualification, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(entity.Qualification), args.Error(1)
}

type MockDrafter struct {
	mock.Mock
}

func (m *MockDrafter) Draft(ctx context.Context, lead entity.Lead) (entity.EmailDraft, error) {
	args := m.Called(ctx, lead)
	return args.Get(0).(entity.EmailDraft), args.Error(1)
}

type MockSlotProvider struct {
	mock.Mock
}

func (m *MockSlotProvider) ProposeSlots(ctx context.Context, timezone string) ([]entity.Slot, error) {
	args := m.Called(ctx, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Slot), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLeadEvent(ctx context.Context, evt entity.LeadEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type MockOutreachSender struct {
	mock.Mock
}

func (m *MockOutreachSender) SendOutreach(to, name string, draft entity.EmailDraft) error {
	args := m.Called(to, name, draft)
	return args.Error(0)
}

// fakeMetrics records calls so tests can assert on outcomes.
type fakeMetrics struct {
	mu           sync.Mutex
	workflows    []string
	integrations []string
}

func (f *fakeMetrics) RecordWorkflow(workflow, outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workflows = append(f.workflows, workflow+":"+outcome)
}

func (f *fakeMetrics) RecordIntegrationError(service string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.integrations = append(f.integrations, service)
}

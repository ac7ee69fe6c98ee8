package usecase

import (
	"context"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

// LeadStore is the canonical session collection. Unknown ids are a no-op (ok == false).
type LeadStore interface {
	Get(id string) (entity.Lead, bool)
	List() []entity.Lead
	ApplyQualification(id string, score int, reasons, disqualifiers []string) (entity.Lead, bool)
	AdvanceStage(id string) (entity.Lead, bool)
	LogEmail(id, subject, body, cta string) (entity.Lead, bool)
}

// Scorer calls the scoring service. Errors are returned as-is; the dispatcher decides the fallback.
type Scorer interface {
	Score(ctx context.Context, lead entity.Lead) (entity.Qualification, error)
}

type Drafter interface {
	Draft(ctx context.Context, lead entity.Lead) (entity.EmailDraft, error)
}

type SlotProvider interface {
	ProposeSlots(ctx context.Context, timezone string) ([]entity.Slot, error)
}

type EventPublisher interface {
	PublishLeadEvent(ctx context.Context, evt entity.LeadEvent) error
}

type OutreachSender interface {
	SendOutreach(to, name string, draft entity.EmailDraft) error
}

// Metrics is the subset of instrumentation the dispatcher reports to.
type Metrics interface {
	RecordWorkflow(workflow, outcome string)
	RecordIntegrationError(service string)
}

type noopMetrics struct{}

func (noopMetrics) RecordWorkflow(string, string) {}
func (noopMetrics) RecordIntegrationError(string) {}

type noopPublisher struct{}

func (noopPublisher) PublishLeadEvent(context.Context, entity.LeadEvent) error { return nil }

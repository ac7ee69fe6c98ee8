package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

const (
	NoticeQualified   = "Lead qualified"
	NoticeEmailLogged = "Email logged & stage updated"
	NoticeEmailSent   = "Email sent & logged"
)

// Dispatcher runs the lead workflows. Each one reads the current lead, calls its
// collaborator without holding any lock, and folds the result back into the store.
// Two workflows on the same lead may overlap; the later completion wins.
type Dispatcher struct {
	Store    LeadStore
	Scorer   Scorer
	Drafter  Drafter
	Slots    SlotProvider
	Events   EventPublisher
	Mailer   OutreachSender
	Session  *Session
	Metrics  Metrics
	Timezone string

	now func() time.Time
}

func NewDispatcher(
	store LeadStore,
	scorer Scorer,
	drafter Drafter,
	slots SlotProvider,
	events EventPublisher,
	mailer OutreachSender, // nil when SMTP is not configured
	session *Session,
	metrics Metrics,
	timezone string,
) *Dispatcher {
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Dispatcher{
		Store:    store,
		Scorer:   scorer,
		Drafter:  drafter,
		Slots:    slots,
		Events:   events,
		Mailer:   mailer,
		Session:  session,
		Metrics:  metrics,
		Timezone: timezone,
		now:      time.Now,
	}
}

type QualifyOutput struct {
	Lead          entity.Lead          `json:"lead"`
	Qualification entity.Qualification `json:"qualification"`
}

// Qualify scores the lead and applies the result. A scoring failure never reaches
// the caller: it resolves to the fallback qualification, flagged Degraded.
// The workflow outlives the caller's context; only its values are kept.
func (d *Dispatcher) Qualify(ctx context.Context, leadID string) (*QualifyOutput, error) {
	ctx = context.WithoutCancel(ctx)
	lead, ok := d.Store.Get(leadID)
	if !ok {
		return nil, d.fail("qualify", leadNotFound(leadID))
	}

	done := d.Session.begin(leadID)
	defer done()

	q, err := d.Scorer.Score(ctx, lead)
	if err != nil {
		log.Printf("⚠️ scoring failed for lead %s: %v", leadID, err)
		d.Metrics.RecordIntegrationError("scoring")
		q = entity.FallbackQualification()
	}

	updated, ok := d.Store.ApplyQualification(leadID, q.Score, q.Reasons, q.Disqualifiers)
	if !ok {
		return nil, d.fail("qualify", leadNotFound(leadID))
	}
	q.Score = updated.Score

	d.publish(ctx, entity.EventLeadQualified, updated)
	d.Session.SetNotice(NoticeQualified)
	d.Metrics.RecordWorkflow("qualify", outcome(q.Degraded))

	return &QualifyOutput{Lead: updated, Qualification: q}, nil
}

type ComposeOutput struct {
	LeadID   string            `json:"leadId"`
	Draft    entity.EmailDraft `json:"draft"`
	Degraded bool              `json:"degraded"`
}

// Compose asks for an outreach draft and keeps it as the lead's pending draft.
// A drafting failure yields an empty draft rather than an error.
func (d *Dispatcher) Compose(ctx context.Context, leadID string) (*ComposeOutput, error) {
	ctx = context.WithoutCancel(ctx)
	lead, ok := d.Store.Get(leadID)
	if !ok {
		return nil, d.fail("compose", leadNotFound(leadID))
	}

	done := d.Session.begin(leadID)
	defer done()

	out := &ComposeOutput{LeadID: leadID}
	draft, err := d.Drafter.Draft(ctx, lead)
	if err != nil {
		log.Printf("⚠️ drafting failed for lead %s: %v", leadID, err)
		d.Metrics.RecordIntegrationError("drafting")
		draft = entity.EmailDraft{}
		out.Degraded = true
	}
	out.Draft = draft

	d.Session.SetDraft(leadID, draft)
	d.Metrics.RecordWorkflow("compose", outcome(out.Degraded))
	return out, nil
}

// ProposeSlots fetches candidate meeting windows. Unlike scoring and drafting,
// a failure here is reported; the store is never touched either way.
func (d *Dispatcher) ProposeSlots(ctx context.Context, leadID string) ([]entity.Slot, error) {
	ctx = context.WithoutCancel(ctx)
	if _, ok := d.Store.Get(leadID); !ok {
		return nil, d.fail("slots", leadNotFound(leadID))
	}

	done := d.Session.begin(leadID)
	defer done()

	slots, err := d.Slots.ProposeSlots(ctx, d.Timezone)
	if err != nil {
		d.Metrics.RecordIntegrationError("slots")
		return nil, d.fail("slots", &TechnicalError{
			Code:    CodeSlotsUnavailable,
			Message: err.Error(),
			Err:     err,
		})
	}

	d.Session.setSlots(leadID, slots)
	d.Metrics.RecordWorkflow("slots", "ok")
	return slots, nil
}

// Advance moves the lead one stage forward. Unknown ids are a silent no-op.
func (d *Dispatcher) Advance(ctx context.Context, leadID string) (*entity.Lead, bool) {
	updated, ok := d.Store.AdvanceStage(leadID)
	if !ok {
		return nil, false
	}

	d.publish(ctx, entity.EventLeadStageAdvance, updated)
	d.Metrics.RecordWorkflow("advance", "ok")
	return &updated, true
}

// LogEmail records draft on the lead, or the pending draft when draft is nil.
// It returns (nil, nil) when the lead does not exist, with or without a draft.
func (d *Dispatcher) LogEmail(ctx context.Context, leadID string, draft *entity.EmailDraft) (*entity.Lead, error) {
	if _, ok := d.Store.Get(leadID); !ok {
		return nil, nil
	}
	if draft == nil {
		pending, ok := d.Session.Draft(leadID)
		if !ok {
			return nil, d.fail("log_email", noDraft(leadID))
		}
		draft = &pending
	}

	updated, ok := d.logEmail(ctx, leadID, *draft)
	if !ok {
		return nil, nil
	}
	d.Session.SetNotice(NoticeEmailLogged)
	d.Metrics.RecordWorkflow("log_email", "ok")
	return updated, nil
}

// SendDraft mails the pending draft to the lead and then logs it.
func (d *Dispatcher) SendDraft(ctx context.Context, leadID string) (*entity.Lead, error) {
	ctx = context.WithoutCancel(ctx)
	if d.Mailer == nil {
		return nil, d.fail("send_email", &TechnicalError{
			Code:    CodeMailNotConfigured,
			Message: "Email sending is not configured.",
		})
	}

	lead, ok := d.Store.Get(leadID)
	if !ok {
		return nil, d.fail("send_email", leadNotFound(leadID))
	}
	draft, ok := d.Session.Draft(leadID)
	if !ok {
		return nil, d.fail("send_email", noDraft(leadID))
	}
	if lead.Email == "" {
		return nil, d.fail("send_email", &DomainError{
			Code:    CodeLeadHasNoEmail,
			Message: fmt.Sprintf("%s has no email address.", lead.Name),
		})
	}

	done := d.Session.begin(leadID)
	defer done()

	if err := d.Mailer.SendOutreach(lead.Email, lead.Name, draft); err != nil {
		d.Metrics.RecordIntegrationError("smtp")
		return nil, d.fail("send_email", &TechnicalError{
			Code:    CodeMailFailed,
			Message: "Failed to send email.",
			Err:     err,
		})
	}

	updated, ok := d.logEmail(ctx, leadID, draft)
	if !ok {
		return nil, nil
	}
	d.Session.SetNotice(NoticeEmailSent)
	d.Metrics.RecordWorkflow("send_email", "ok")
	return updated, nil
}

func (d *Dispatcher) logEmail(ctx context.Context, leadID string, draft entity.EmailDraft) (*entity.Lead, bool) {
	updated, ok := d.Store.LogEmail(leadID, draft.Subject, draft.Body, draft.CTA)
	if !ok {
		return nil, false
	}
	d.Session.DiscardDraft(leadID)
	d.publish(ctx, entity.EventLeadEmailLogged, updated)
	return &updated, true
}

// publish never fails the workflow: the store already changed.
func (d *Dispatcher) publish(ctx context.Context, typ entity.LeadEventType, lead entity.Lead) {
	evt := entity.LeadEvent{
		ID:          ulid.Make().String(),
		Type:        typ,
		LeadID:      lead.ID,
		Company:     lead.Company,
		Stage:       lead.Stage,
		Score:       lead.Score,
		Interaction: lead.Interactions[0],
		At:          d.now().UTC(),
	}
	if err := d.Events.PublishLeadEvent(ctx, evt); err != nil {
		log.Printf("⚠️ lead %s changed but event %s was not published: %v", lead.ID, typ, err)
	}
}

// fail surfaces err as the session error, replacing any previous one.
func (d *Dispatcher) fail(workflow string, err error) error {
	d.Session.SetError(err.Error())
	d.Metrics.RecordWorkflow(workflow, "error")
	return err
}

func leadNotFound(leadID string) error {
	return &DomainError{
		Code:    CodeLeadNotFound,
		Message: fmt.Sprintf("Lead %s not found.", leadID),
		Err:     entity.ErrLeadNotFound,
	}
}

func noDraft(leadID string) error {
	return &DomainError{
		Code:    CodeNoDraft,
		Message: fmt.Sprintf("No draft pending for lead %s.", leadID),
		Err:     entity.ErrNoDraft,
	}
}

func outcome(degraded bool) string {
	if degraded {
		return "degraded"
	}
	return "ok"
}

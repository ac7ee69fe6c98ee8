package entity

import (
	"strings"
	"time"
)

// Qualification is the outcome of scoring a lead.
// Degraded marks the fallback used when the scoring service could not be reached;
// the values are still applied so the lead shows the same result the user saw.
type Qualification struct {
	Score         int      `json:"score"`
	Reasons       []string `json:"reasons"`
	Disqualifiers []string `json:"disqualifiers,omitempty"`
	Degraded      bool     `json:"degraded"`
}

// FallbackQualification is what a failed scoring call resolves to.
func FallbackQualification() Qualification {
	return Qualification{
		Score:         0,
		Reasons:       []string{"Error fetching score"},
		Disqualifiers: []string{},
		Degraded:      true,
	}
}

// EmailDraft is an outreach email as produced by the drafting service.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	CTA     string `json:"cta"`
}

// Content joins the draft with blank lines, as stored on the email interaction.
func (d EmailDraft) Content() string {
	return strings.Join([]string{d.Subject, d.Body, d.CTA}, "\n\n")
}

func (d EmailDraft) IsEmpty() bool {
	return d.Subject == "" && d.Body == "" && d.CTA == ""
}

// Slot is a candidate meeting window.
type Slot struct {
	StartISO string `json:"startISO"`
	EndISO   string `json:"endISO"`
}

type LeadEventType string

const (
	EventLeadQualified    LeadEventType = "lead.qualified"
	EventLeadStageAdvance LeadEventType = "lead.stage_advanced"
	EventLeadEmailLogged  LeadEventType = "lead.email_logged"
)

// LeadEvent describes one applied store mutation.
type LeadEvent struct {
	ID          string        `json:"id"`
	Type        LeadEventType `json:"type"`
	LeadID      string        `json:"lead_id"`
	Company     string        `json:"company"`
	Stage       Stage         `json:"stage"`
	Score       int           `json:"score"`
	Interaction Interaction   `json:"interaction"`
	At          time.Time     `json:"at"`
}

package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	MinScore = 0
	MaxScore = 100

	// QualifyThreshold is the score from which a New lead becomes Qualified.
	QualifyThreshold = 70
	// LowIntentThreshold marks genuine scores that get the low-intent disqualifier.
	LowIntentThreshold = 40

	LowIntentDisqualifier = "Low intent signals"
	LeadCreatedContent    = "Lead created"
)

var (
	ErrLeadNotFound = errors.New("lead not found")
	ErrNoDraft      = errors.New("no pending draft for lead")
)

// Profile groups the optional descriptive attributes of a lead.
// Empty strings and nil pointers mean "absent".
type Profile struct {
	Title     string   `json:"title,omitempty"`
	Email     string   `json:"email,omitempty"`
	Website   string   `json:"website,omitempty"`
	Industry  string   `json:"industry,omitempty"`
	Size      *int     `json:"size,omitempty"`    // employees
	Revenue   *float64 `json:"revenue,omitempty"` // $M
	TechStack []string `json:"techStack,omitempty"`
	Location  string   `json:"location,omitempty"`
}

// Lead is one sales prospect.
type Lead struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
	Profile
	Score        int           `json:"score"`
	Stage        Stage         `json:"stage"`
	Interactions []Interaction `json:"interactions"`
}

// Factory
func NewLead(id, name, company string, profile Profile, score int, stage Stage, createdAt time.Time) (*Lead, error) {
	lead := &Lead{
		ID:      id,
		Name:    name,
		Company: company,
		Profile: profile,
		Score:   score,
		Stage:   stage,
		Interactions: []Interaction{
			{
				ID:        "ix_" + id,
				Type:      InteractionSystem,
				Timestamp: createdAt,
				Content:   LeadCreatedContent,
			},
		},
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(l.Company) == "" {
		return errors.New("company is required")
	}
	if l.Score < MinScore || l.Score > MaxScore {
		return fmt.Errorf("score must be between %d and %d", MinScore, MaxScore)
	}
	if !l.Stage.Valid() {
		return fmt.Errorf("unknown stage %q", l.Stage)
	}
	if l.Size != nil && *l.Size < 0 {
		return errors.New("size must not be negative")
	}
	if len(l.Interactions) == 0 {
		return errors.New("lead must have at least one interaction")
	}
	return nil
}

// Clone returns a deep copy; callers may mutate it freely.
func (l Lead) Clone() Lead {
	out := l
	out.TechStack = slices.Clone(l.TechStack)
	if l.Size != nil {
		v := *l.Size
		out.Size = &v
	}
	if l.Revenue != nil {
		v := *l.Revenue
		out.Revenue = &v
	}
	out.Interactions = make([]Interaction, len(l.Interactions))
	for i, ix := range l.Interactions {
		if ix.Meta != nil {
			meta := make(map[string]any, len(ix.Meta))
			for k, v := range ix.Meta {
				meta[k] = v
			}
			ix.Meta = meta
		}
		out.Interactions[i] = ix
	}
	return out
}

// SearchText is the space-joined set of searchable fields, skipping absent ones.
func (l Lead) SearchText() string {
	parts := make([]string, 0, 5)
	for _, s := range []string{l.Name, l.Company, l.Title, l.Industry, l.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// The transforms below are pure: they never touch l and return the next value.

// Qualify applies a scoring result. Stage only moves New -> Qualified; there is no demotion.
func (l Lead) Qualify(score int, reasons, disqualifiers []string, stamp InteractionStamp) Lead {
	next := l.Clone()
	next.Score = ClampScore(score)
	if next.Score >= QualifyThreshold && l.Stage == StageNew {
		next.Stage = StageQualified
	}
	next.prepend(stamp(InteractionNote, QualificationNote(next.Score, reasons, disqualifiers)))
	return next
}

// Advance moves one stage forward. At the last stage the stage stays put but
// the system interaction is still appended.
func (l Lead) Advance(stamp InteractionStamp) Lead {
	next := l.Clone()
	next.Stage = l.Stage.Next()
	next.prepend(stamp(InteractionSystem, StageNote(next.Stage)))
	return next
}

// LogEmail records an outbound email. Only a New lead moves, and only to Contacted.
func (l Lead) LogEmail(draft EmailDraft, stamp InteractionStamp) Lead {
	next := l.Clone()
	if l.Stage == StageNew {
		next.Stage = StageContacted
	}
	next.prepend(stamp(InteractionEmail, draft.Content()))
	return next
}

func (l *Lead) prepend(ix Interaction) {
	l.Interactions = append([]Interaction{ix}, l.Interactions...)
}

func ClampScore(score int) int {
	return max(MinScore, min(MaxScore, score))
}

func QualificationNote(score int, reasons, disqualifiers []string) string {
	note := fmt.Sprintf("Qualification: %d — %s", score, strings.Join(reasons, "; "))
	if len(disqualifiers) > 0 {
		note += "; disq: " + strings.Join(disqualifiers, ", ")
	}
	return note
}

func StageNote(stage Stage) string {
	return "Stage → " + string(stage)
}

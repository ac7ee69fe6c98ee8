// Package query derives the dashboard view from the lead collection.
// Everything here is pure and recomputed from scratch on each call.
package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

// AllStages disables the stage filter.
const AllStages entity.Stage = "All"

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Params are the view inputs. The zero value matches every lead, sorted descending.
type Params struct {
	Stage    entity.Stage  `json:"stage"`
	MinScore int           `json:"minScore"`
	Search   string        `json:"search"`
	Sort     SortDirection `json:"sort"`
}

func DefaultParams() Params {
	return Params{Stage: AllStages, Sort: SortDesc}
}

// NormalizeSearch trims and case-folds a raw search term.
func NormalizeSearch(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func ParseStageFilter(raw string) (entity.Stage, error) {
	if raw == "" || raw == string(AllStages) {
		return AllStages, nil
	}
	return entity.ParseStage(raw)
}

func ParseSort(raw string) (SortDirection, error) {
	switch SortDirection(strings.ToLower(raw)) {
	case "", SortDesc:
		return SortDesc, nil
	case SortAsc:
		return SortAsc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", raw)
}

// Apply filters by stage, score threshold and search term, then stable-sorts by score.
// The input slice is not modified.
func Apply(leads []entity.Lead, p Params) []entity.Lead {
	term := NormalizeSearch(p.Search)

	out := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if p.Stage != "" && p.Stage != AllStages && l.Stage != p.Stage {
			continue
		}
		if l.Score < p.MinScore {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(l.SearchText()), term) {
			continue
		}
		out = append(out, l)
	}

	slices.SortStableFunc(out, func(a, b entity.Lead) int {
		if p.Sort == SortAsc {
			return cmp.Compare(a.Score, b.Score)
		}
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

// Stats backs the dashboard summary cards.
type Stats struct {
	Total     int                  `json:"total"`
	Qualified int                  `json:"qualified"`
	Contacted int                  `json:"contacted"`
	ByStage   map[entity.Stage]int `json:"byStage"`
}

func Summarize(leads []entity.Lead) Stats {
	st := Stats{
		Total:   len(leads),
		ByStage: make(map[entity.Stage]int, len(entity.StageOrder)),
	}
	for _, s := range entity.StageOrder {
		st.ByStage[s] = 0
	}
	for _, l := range leads {
		st.ByStage[l.Stage]++
	}
	st.Qualified = st.ByStage[entity.StageQualified]
	st.Contacted = st.ByStage[entity.StageContacted]
	return st
}

package entity

import (
	"fmt"
	"slices"
)

// Stage is the pipeline position of a lead.
type Stage string

const (
	StageNew       Stage = "New"
	StageContacted Stage = "Contacted"
	StageQualified Stage = "Qualified"
	StageMeeting   Stage = "Meeting"
	StageWon       Stage = "Won"
	StageLost      Stage = "Lost"
)

// StageOrder is the fixed progression used by Advance.
var StageOrder = []Stage{
	StageNew,
	StageContacted,
	StageQualified,
	StageMeeting,
	StageWon,
	StageLost,
}

func (s Stage) Valid() bool {
	return slices.Contains(StageOrder, s)
}

// Rank returns the position of s in StageOrder, or -1 for an unknown stage.
func (s Stage) Rank() int {
	return slices.Index(StageOrder, s)
}

// Next returns the following stage, saturating at the last one.
func (s Stage) Next() Stage {
	i := s.Rank()
	if i < 0 {
		return s
	}
	return StageOrder[min(i+1, len(StageOrder)-1)]
}

func ParseStage(raw string) (Stage, error) {
	s := Stage(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown stage %q", raw)
	}
	return s, nil
}

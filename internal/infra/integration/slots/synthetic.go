package slots

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

const (
	DefaultFailureRate = 0.05
	DefaultLatency     = 220 * time.Millisecond

	slotCount    = 4
	slotLength   = 30 * time.Minute
	firstHour    = 10
	isoUTCMillis = "2006-01-02T15:04:05.000Z07:00"
)

var ErrSimulatedFailure = errors.New("random failure occurred")

// Synthetic stands in for a calendar backend: one slot per weekday starting today,
// at 10:00, 11:00, 12:00 and 13:00 local time.
type Synthetic struct {
	FailureRate float64
	Latency     time.Duration

	now  func() time.Time
	roll func() float64
}

func NewSynthetic(failureRate float64, latency time.Duration) *Synthetic {
	return &Synthetic{
		FailureRate: failureRate,
		Latency:     latency,
		now:         time.Now,
		roll:        rand.Float64,
	}
}

func (s *Synthetic) ProposeSlots(ctx context.Context, timezone string) ([]entity.Slot, error) {
	if s.Latency > 0 {
		timer := time.NewTimer(s.Latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.roll() < s.FailureRate {
		return nil, ErrSimulatedFailure
	}

	return Generate(s.now(), loadLocation(timezone)), nil
}

// Generate walks forward from the day of now, skipping weekends. The n-th slot
// found starts at 10+n o'clock in loc.
func Generate(now time.Time, loc *time.Location) []entity.Slot {
	now = now.In(loc)
	day := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, loc)

	slots := make([]entity.Slot, 0, slotCount)
	for len(slots) < slotCount {
		if wd := day.Weekday(); wd != time.Saturday && wd != time.Sunday {
			start := time.Date(day.Year(), day.Month(), day.Day(), firstHour+len(slots), 0, 0, 0, loc)
			end := start.Add(slotLength)
			slots = append(slots, entity.Slot{
				StartISO: start.UTC().Format(isoUTCMillis),
				EndISO:   end.UTC().Format(isoUTCMillis),
			})
		}
		day = day.AddDate(0, 0, 1)
	}
	return slots
}

func loadLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

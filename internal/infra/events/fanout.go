package events

import (
	"context"
	"errors"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
)

type Publisher interface {
	PublishLeadEvent(ctx context.Context, evt entity.LeadEvent) error
}

// Fanout delivers every event to each sink in order. A failing sink does not
// stop the others; all failures are joined.
type Fanout []Publisher

func (f Fanout) PublishLeadEvent(ctx context.Context, evt entity.LeadEvent) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.PublishLeadEvent(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

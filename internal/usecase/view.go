package usecase

import (
	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/query"
)

// View runs the query engine over the current store with the session's effective parameters.
func (d *Dispatcher) View() []entity.Lead {
	return query.Apply(d.Store.List(), d.Session.Params())
}

// Query runs the engine with explicit parameters, bypassing the session.
func (d *Dispatcher) Query(p query.Params) []entity.Lead {
	return query.Apply(d.Store.List(), p)
}

func (d *Dispatcher) Stats() query.Stats {
	return query.Summarize(d.Store.List())
}

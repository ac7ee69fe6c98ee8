package worker

import (
	"context"
	"log"
	"time"

	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/query"
)

type LeadSource interface {
	List() []entity.Lead
	Version() uint64
}

// StatsSink receives a fresh summary whenever the pipeline changed since the last tick.
type StatsSink func(query.Stats)

type PipelineStatsWorker struct {
	source       LeadSource
	tickInterval time.Duration
	sinks        []StatsSink

	lastVersion uint64
	reported    bool
}

func NewPipelineStatsWorker(source LeadSource, interval time.Duration, sinks ...StatsSink) *PipelineStatsWorker {
	return &PipelineStatsWorker{
		source:       source,
		tickInterval: interval,
		sinks:        sinks,
	}
}

func (w *PipelineStatsWorker) Start(ctx context.Context) error {
	log.Printf("🕒 Pipeline stats worker started (every %s)", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh()

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Pipeline stats worker stopped")
			return nil
		case <-ticker.C:
			w.refresh()
		}
	}
}

// refresh reports only when the store version moved.
func (w *PipelineStatsWorker) refresh() bool {
	v := w.source.Version()
	if w.reported && v == w.lastVersion {
		return false
	}

	stats := query.Summarize(w.source.List())
	for _, sink := range w.sinks {
		sink(stats)
	}
	w.lastVersion, w.reported = v, true

	log.Printf("📊 pipeline v%d: %d leads, %d qualified, %d contacted", v, stats.Total, stats.Qualified, stats.Contacted)
	return true
}

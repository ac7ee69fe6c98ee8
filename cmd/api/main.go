package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/sdr-dashboard/internal/config"
	"github.com/xavierca1/sdr-dashboard/internal/entity"
	"github.com/xavierca1/sdr-dashboard/internal/infra/database"
	"github.com/xavierca1/sdr-dashboard/internal/infra/events"
	"github.com/xavierca1/sdr-dashboard/internal/infra/http/handlers"
	httpmw "github.com/xavierca1/sdr-dashboard/internal/infra/http/middleware"
	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/drafting"
	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/scoring"
	"github.com/xavierca1/sdr-dashboard/internal/infra/integration/slots"
	"github.com/xavierca1/sdr-dashboard/internal/infra/mail"
	"github.com/xavierca1/sdr-dashboard/internal/infra/memory"
	"github.com/xavierca1/sdr-dashboard/internal/infra/queue"
	"github.com/xavierca1/sdr-dashboard/internal/infra/worker"
	"github.com/xavierca1/sdr-dashboard/internal/query"
	"github.com/xavierca1/sdr-dashboard/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Lead store
	store := memory.NewLeadStore()
	if err := store.Load(entity.SeedLeads(time.Now())); err != nil {
		log.Fatalf("❌ failed to seed leads: %v", err)
	}

	// 2. Event sinks: SSE always, then the broker or the journal
	hub := events.NewHub()
	sinks := events.Fanout{hub}

	var db *sql.DB
	var journal *database.ActivityRepository
	var activityReader handlers.ActivityReader
	if cfg.DatabaseURL != "" {
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ database unavailable: %v", err)
		}
		defer db.Close()

		journal = database.NewActivityRepository(db)
		if err := journal.Migrate(ctx); err != nil {
			log.Fatalf("❌ %v", err)
		}
		activityReader = journal
	}

	var rabbit *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer rabbit.Close()
		sinks = append(sinks, queue.NewProducer(rabbit.Ch))
	} else if journal != nil {
		sinks = append(sinks, journal)
	}

	// 3. Collaborators
	scorer := scoring.NewClient(cfg.ScoringURL, cfg.CollaboratorTimeout)
	drafter := drafting.NewClient(cfg.DraftingURL, cfg.CollaboratorTimeout)

	var slotProvider usecase.SlotProvider = slots.NewSynthetic(cfg.SlotFailureRate, slots.DefaultLatency)
	if cfg.SlotsURL != "" {
		slotProvider = slots.NewClient(cfg.SlotsURL, cfg.CollaboratorTimeout)
	}

	var mailer usecase.OutreachSender
	if cfg.MailEnabled() {
		mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
	}

	// 4. Session + dispatcher
	var dispatcher *usecase.Dispatcher
	session := usecase.NewSession(cfg.SearchDebounce, func(p query.Params) {
		httpmw.RecordViewRecompute()
		hub.PublishView(events.ViewChanged{Params: p, Leads: dispatcher.Query(p)})
	})
	defer session.Close()

	dispatcher = usecase.NewDispatcher(
		store, scorer, drafter, slotProvider, sinks, mailer, session, httpmw.Recorder{}, cfg.Timezone,
	)

	// 5. Handlers
	limiter := httpmw.NewRateLimiter(cfg.RateLimitPerMinute)
	var amqpConn *amqp091.Connection
	if rabbit != nil {
		amqpConn = rabbit.Conn
	}
	router := newRouter(routes{
		leads:    handlers.NewLeadHandler(dispatcher),
		activity: handlers.NewActivityHandler(store, activityReader),
		sessions: handlers.NewSessionHandler(dispatcher),
		events:   handlers.NewEventsHandler(hub),
		health: handlers.NewHealthHandler(db, amqpConn, map[string]string{
			"scoring":  cfg.ScoringURL,
			"drafting": cfg.DraftingURL,
			"slots":    cfg.SlotsURL,
			"smtp":     cfg.MailHost,
		}),
		limiter:        limiter,
		allowedOrigins: cfg.AllowedOrigins,
	})

	// 6. Background work
	statsWorker := worker.NewPipelineStatsWorker(store, cfg.StatsInterval,
		func(s query.Stats) { httpmw.SetLeadsByStage(s.ByStage) },
		func(s query.Stats) { hub.PublishJSON("stats", s) },
	)

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// streams end when the server shuts down
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		log.Printf("🔥 SDR dashboard API listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return statsWorker.Start(gctx) })
	g.Go(func() error { return limiter.Run(gctx, 10*time.Minute) })

	if rabbit != nil && journal != nil {
		activity := queue.NewWorker(rabbit.Ch, journal)
		g.Go(func() error { return activity.Start(gctx, queue.QueueName) })
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("❌ %v", err)
	}
	log.Println("👋 shut down cleanly")
}

package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Pranshu23x/project-server/internal/config"
	"github.com/Pranshu23x/project-server/internal/database"
	"github.com/Pranshu23x/project-server/internal/event_bus"
	"github.com/Pranshu23x/project-server/internal/gemini"
	"github.com/Pranshu23x/project-server/internal/metrics"
	"github.com/Pranshu23x/project-server/internal/utils"
	"github.com/Pranshu23x/project-server/pkg/ask"
	"github.com/Pranshu23x/project-server/pkg/credential"
	"github.com/Pranshu23x/project-server/pkg/google"
	"github.com/Pranshu23x/project-server/pkg/intent"
	"github.com/Pranshu23x/project-server/pkg/schedule"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	CredentialStore credential.Store

	GoogleAuth      *google.Auth
	CalendarGateway *google.CalendarGateway
	AuthHandler     *google.AuthHandler

	Gemini    *gemini.Client
	Extractor *intent.Extractor

	Materializer    *schedule.Materializer
	ScheduleService *schedule.Service
	ScheduleHandler *schedule.Handler

	AskService *ask.Service
	AskHandler *ask.Handler

	closers []func()
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()
	deps.Registry = prometheus.NewRegistry()
	m, err := metrics.New(deps.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	deps.Metrics = m
	subscribeAuditLog(deps.EventBus)

	store, err := buildCredentialStore(ctx, cfg, deps)
	if err != nil {
		return nil, err
	}
	deps.CredentialStore = store

	if cfg.Google.ClientId == "" || cfg.Google.ClientSecret == "" {
		log.Warn("Google OAuth client credentials are not configured; /auth/url will fail")
	}
	deps.GoogleAuth = google.NewAuth(cfg.Google, cfg.OAuthRedirectUrl())
	deps.CalendarGateway = google.NewCalendarGateway()
	deps.AuthHandler = google.NewAuthHandler(deps.GoogleAuth, deps.CredentialStore, deps.EventBus)

	if cfg.Gemini.ApiKey == "" {
		log.Warn("Gemini API key is not configured; scheduling and questions will fail")
	}
	deps.Gemini = gemini.NewClient(cfg.Gemini, &http.Client{})
	deps.Extractor = intent.NewExtractor(deps.Gemini)

	location, err := cfg.Scheduler.ResolveLocation()
	if err != nil {
		deps.Close()
		return nil, err
	}
	log.Infof("Scheduling events in timezone %s", location)
	deps.Materializer = schedule.NewMaterializer(location, cfg.Scheduler.DefaultSummary)
	deps.ScheduleService = schedule.NewService(
		deps.CredentialStore,
		deps.GoogleAuth,
		deps.Extractor,
		deps.Materializer,
		deps.CalendarGateway,
		deps.Clock,
		deps.EventBus,
		deps.Metrics,
	)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService, cfg.Scheduler.Timeout)

	deps.AskService = ask.NewService(deps.Gemini)
	deps.AskHandler = ask.NewHandler(deps.AskService)

	return deps, nil
}

func buildCredentialStore(ctx context.Context, cfg config.Application, deps *Dependencies) (credential.Store, error) {
	switch cfg.Store.Driver {
	case "", "memory":
		log.Info("Using in-memory credential store; credentials are lost on restart")
		return credential.NewMemoryStore(), nil
	case "postgres":
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(cfg.Database); err != nil {
			pool.Close()
			return nil, err
		}
		deps.closers = append(deps.closers, pool.Close)
		log.Infof("Using Postgres credential store at %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
		return credential.NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown credential store driver %q", cfg.Store.Driver)
	}
}

// subscribeAuditLog records credential lifecycle and scheduling outcomes.
func subscribeAuditLog(bus *event_bus.EventBus) {
	event_bus.SubscribeTyped(bus, event_bus.ScheduleSucceeded, func(e event_bus.EventT[event_bus.EventScheduled]) error {
		log.WithFields(log.Fields{
			"userId":  e.Data.UserId,
			"eventId": e.Data.EventId,
			"start":   e.Data.Start,
			"tz":      e.Data.TimeZone,
		}).Info("event scheduled")
		return nil
	})
	event_bus.SubscribeTyped(bus, event_bus.ScheduleFailed, func(e event_bus.EventT[event_bus.SchedulingFailed]) error {
		log.WithFields(log.Fields{
			"userId":  e.Data.UserId,
			"outcome": e.Data.Outcome,
		}).Warn("scheduling failed")
		return nil
	})
	for _, eventType := range []event_bus.EventType{event_bus.CredentialStored, event_bus.CredentialRevoked} {
		event_bus.SubscribeTyped(bus, eventType, func(e event_bus.EventT[event_bus.CredentialChanged]) error {
			log.WithFields(log.Fields{
				"userId": e.Data.UserId,
				"reason": e.Data.Reason,
			}).Infof("%s", e.Type)
			return nil
		})
	}
}

// Close releases resources opened while building dependencies.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

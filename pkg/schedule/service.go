package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/Pranshu23x/project-server/internal/event_bus"
	"github.com/Pranshu23x/project-server/internal/metrics"
	"github.com/Pranshu23x/project-server/internal/utils"
	"github.com/Pranshu23x/project-server/pkg/calendar"
	"github.com/Pranshu23x/project-server/pkg/credential"
	"github.com/Pranshu23x/project-server/pkg/google"
	"github.com/Pranshu23x/project-server/pkg/intent"
	log "github.com/sirupsen/logrus"
)

var ErrValidation = errors.New("userQuery and userId are required")

type Outcome string

const (
	OutcomeScheduled        Outcome = "scheduled"
	OutcomeUnauthenticated  Outcome = "unauthenticated"
	OutcomeAuthExpired      Outcome = "auth_expired"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeFailed           Outcome = "failed"
)

// Result is the terminal state of one scheduling request. Err is set for
// every outcome except OutcomeScheduled and OutcomeUnauthenticated.
type Result struct {
	Outcome  Outcome
	Event    calendar.Event
	Inserted calendar.Inserted
	Err      error
}

type IntentExtractor interface {
	Extract(ctx context.Context, utterance string, now time.Time) (intent.EventIntent, error)
}

type Authorizer interface {
	Client(ctx context.Context, cred credential.Credential) *google.AuthorizedClient
}

type CalendarGateway interface {
	Insert(ctx context.Context, client *google.AuthorizedClient, event calendar.Event) (calendar.Inserted, error)
}

type Service struct {
	store        credential.Store
	auth         Authorizer
	extractor    IntentExtractor
	materializer *Materializer
	gateway      CalendarGateway
	clock        utils.Clock
	bus          *event_bus.EventBus
	metrics      *metrics.Metrics
}

func NewService(
	store credential.Store,
	auth Authorizer,
	extractor IntentExtractor,
	materializer *Materializer,
	gateway CalendarGateway,
	clock utils.Clock,
	bus *event_bus.EventBus,
	m *metrics.Metrics,
) *Service {
	return &Service{
		store:        store,
		auth:         auth,
		extractor:    extractor,
		materializer: materializer,
		gateway:      gateway,
		clock:        clock,
		bus:          bus,
		metrics:      m,
	}
}

// Schedule runs extraction, materialization and insertion for one request.
// The only returned error is ErrValidation; every other failure is reported
// through Result.Outcome. Nothing is retried.
func (s *Service) Schedule(ctx context.Context, userId string, userQuery string) (Result, error) {
	if userId == "" || userQuery == "" {
		return Result{}, ErrValidation
	}

	cred, found, err := s.store.Get(ctx, userId)
	if err != nil {
		return s.finish(ctx, userId, Result{Outcome: OutcomeFailed, Err: err}), nil
	}
	if !found {
		log.Debugf("no credential for user %s", userId)
		return s.finish(ctx, userId, Result{Outcome: OutcomeUnauthenticated}), nil
	}

	now := s.clock.Now().In(s.materializer.Location())

	started := time.Now()
	extracted, err := s.extractor.Extract(ctx, userQuery, now)
	s.metrics.ObserveUpstream("extract", err, time.Since(started))
	if err != nil {
		return s.finish(ctx, userId, Result{Outcome: OutcomeFailed, Err: err}), nil
	}

	event := s.materializer.Materialize(extracted, userQuery, now)

	client := s.auth.Client(ctx, cred)
	started = time.Now()
	inserted, err := s.gateway.Insert(ctx, client, event)
	s.metrics.ObserveUpstream("insert", err, time.Since(started))

	switch {
	case err == nil:
		s.writeBack(ctx, userId, cred, client)
		return s.finish(ctx, userId, Result{Outcome: OutcomeScheduled, Event: event, Inserted: inserted}), nil
	case google.IsKind(err, google.KindAuthExpired):
		if delErr := s.store.Delete(ctx, userId); delErr != nil {
			log.Errorf("failed to delete expired credential for user %s: %v", userId, delErr)
		}
		s.publish(ctx, event_bus.CredentialRevoked, event_bus.CredentialChanged{UserId: userId, Reason: "expired"})
		s.metrics.IncCredentialEvent("expired")
		return s.finish(ctx, userId, Result{Outcome: OutcomeAuthExpired, Event: event, Err: err}), nil
	case google.IsKind(err, google.KindPermissionDenied):
		s.writeBack(ctx, userId, cred, client)
		return s.finish(ctx, userId, Result{Outcome: OutcomePermissionDenied, Event: event, Err: err}), nil
	default:
		s.writeBack(ctx, userId, cred, client)
		return s.finish(ctx, userId, Result{Outcome: OutcomeFailed, Event: event, Err: err}), nil
	}
}

// writeBack stores the last token the client obtained during the call when a
// refresh changed it. It never fetches a token itself.
func (s *Service) writeBack(ctx context.Context, userId string, cred credential.Credential, client *google.AuthorizedClient) {
	token, ok := client.LastToken()
	if !ok {
		return
	}
	updated, changed := cred.Rotated(token)
	if !changed {
		return
	}
	if err := s.store.Put(ctx, userId, updated); err != nil {
		log.Errorf("failed to write back refreshed credential for user %s: %v", userId, err)
		return
	}
	log.Debugf("wrote back refreshed credential for user %s", userId)
	s.metrics.IncCredentialEvent("rotation")
	s.publish(ctx, event_bus.CredentialStored, event_bus.CredentialChanged{UserId: userId, Expiry: updated.Expiry, Reason: "rotation"})
}

func (s *Service) finish(ctx context.Context, userId string, result Result) Result {
	s.metrics.IncScheduleOutcome(string(result.Outcome))
	if result.Outcome == OutcomeScheduled {
		log.Infof("scheduled event %s for user %s", result.Inserted.Id, userId)
		s.publish(ctx, event_bus.ScheduleSucceeded, event_bus.EventScheduled{
			UserId:   userId,
			EventId:  result.Inserted.Id,
			Summary:  result.Event.Summary,
			Start:    result.Event.Start.DateTime,
			TimeZone: result.Event.Start.TimeZone,
		})
		return result
	}

	reason := ""
	if result.Err != nil {
		reason = result.Err.Error()
		log.Warnf("scheduling for user %s ended with %s: %v", userId, result.Outcome, result.Err)
	}
	s.publish(ctx, event_bus.ScheduleFailed, event_bus.SchedulingFailed{UserId: userId, Outcome: string(result.Outcome), Reason: reason})
	return result
}

func (s *Service) publish(ctx context.Context, eventType event_bus.EventType, data any) {
	if s.bus == nil {
		return
	}
	// Handlers must still run when the request context has been cancelled.
	if err := s.bus.Publish(event_bus.NewEvent(context.WithoutCancel(ctx), eventType, data)); err != nil {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}

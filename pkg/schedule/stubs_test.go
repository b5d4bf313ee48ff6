package schedule

import (
	"context"
	"time"

	"github.com/Pranshu23x/project-server/pkg/calendar"
	"github.com/Pranshu23x/project-server/pkg/google"
	"github.com/Pranshu23x/project-server/pkg/intent"
)

type stubExtractor struct {
	intent intent.EventIntent
	err    error
	calls  int
	lastAt time.Time
}

func (s *stubExtractor) Extract(_ context.Context, _ string, now time.Time) (intent.EventIntent, error) {
	s.calls++
	s.lastAt = now
	return s.intent, s.err
}

type stubGateway struct {
	inserted calendar.Inserted
	err      error
	events   []calendar.Event
	// touchToken makes Insert obtain a token like a real HTTP call would.
	touchToken bool
	// onInsert runs before Insert returns.
	onInsert func()
}

func (s *stubGateway) Insert(_ context.Context, client *google.AuthorizedClient, event calendar.Event) (calendar.Inserted, error) {
	s.events = append(s.events, event)
	if s.onInsert != nil {
		s.onInsert()
	}
	if s.touchToken {
		if _, err := client.Token(); err != nil {
			return calendar.Inserted{}, err
		}
	}
	return s.inserted, s.err
}

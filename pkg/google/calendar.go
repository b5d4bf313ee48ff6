package google

import (
	"context"
	"fmt"

	"github.com/Pranshu23x/project-server/pkg/calendar"
	log "github.com/sirupsen/logrus"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const primaryCalendarId = "primary"

type CalendarGateway struct {
	opts []option.ClientOption
}

// NewCalendarGateway accepts extra client options, e.g. option.WithEndpoint
// to target a fake server in tests.
func NewCalendarGateway(opts ...option.ClientOption) *CalendarGateway {
	return &CalendarGateway{opts: opts}
}

// Insert creates event on the user's primary calendar with one API call.
// Failures are always *CalendarError.
func (g *CalendarGateway) Insert(ctx context.Context, client *AuthorizedClient, event calendar.Event) (calendar.Inserted, error) {
	opts := append([]option.ClientOption{option.WithHTTPClient(client.HTTPClient)}, g.opts...)
	service, err := gcal.NewService(ctx, opts...)
	if err != nil {
		err := fmt.Errorf("unable to create Calendar client: %w", err)
		log.Error(err)
		return calendar.Inserted{}, &CalendarError{Kind: KindOther, Message: err.Error(), Err: err}
	}

	log.Debugf("Inserting event %q starting %s (%s)", event.Summary, event.Start.DateTime, event.Start.TimeZone)
	result, err := service.Events.Insert(primaryCalendarId, toGoogleEvent(event)).Context(ctx).Do()
	if err != nil {
		calendarErr := newCalendarError(err)
		log.Errorf("unable to insert event in Google Calendar: %v", calendarErr)
		return calendar.Inserted{}, calendarErr
	}

	return calendar.Inserted{Id: result.Id, Link: result.HtmlLink}, nil
}

func toGoogleEvent(event calendar.Event) *gcal.Event {
	attendees := make([]*gcal.EventAttendee, 0, len(event.Attendees))
	for _, email := range event.Attendees {
		attendees = append(attendees, &gcal.EventAttendee{Email: email})
	}

	overrides := make([]*gcal.EventReminder, 0, len(event.Reminders))
	for _, r := range event.Reminders {
		overrides = append(overrides, &gcal.EventReminder{Method: string(r.Method), Minutes: r.Minutes})
	}

	return &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.DateTime,
			TimeZone: event.Start.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.DateTime,
			TimeZone: event.End.TimeZone,
		},
		Attendees: attendees,
		Reminders: &gcal.EventReminders{
			UseDefault:      false,
			Overrides:       overrides,
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

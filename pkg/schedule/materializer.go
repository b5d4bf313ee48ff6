package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/Pranshu23x/project-server/pkg/calendar"
	"github.com/Pranshu23x/project-server/pkg/intent"
)

const defaultDuration = time.Hour

// Materializer turns a partial intent into a complete event. It reads no
// clock and does no I/O.
type Materializer struct {
	location       *time.Location
	defaultSummary string
}

func NewMaterializer(location *time.Location, defaultSummary string) *Materializer {
	if location == nil {
		location = time.UTC
	}
	if defaultSummary == "" {
		defaultSummary = "Meeting"
	}
	return &Materializer{location: location, defaultSummary: defaultSummary}
}

func (m *Materializer) Location() *time.Location {
	return m.location
}

// Materialize fills every field the intent left open. A missing start is
// now+1h; a missing end is start+1h from that same start. An end that does
// not fall after the start is replaced the same way.
func (m *Materializer) Materialize(in intent.EventIntent, utterance string, now time.Time) calendar.Event {
	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		summary = m.defaultSummary
	}

	start, ok := m.parseDateTime(in.StartDateTime)
	if !ok {
		start = now.Add(defaultDuration)
	}
	end, ok := m.parseDateTime(in.EndDateTime)
	if !ok || !end.After(start) {
		end = start.Add(defaultDuration)
	}

	attendees := make([]string, 0, len(in.Attendees))
	for _, a := range in.Attendees {
		if a = strings.TrimSpace(a); a != "" {
			attendees = append(attendees, a)
		}
	}

	zone := m.location.String()
	return calendar.Event{
		Summary:     summary,
		Description: fmt.Sprintf("Created by AI Calendar Assistant from: \"%s\"", utterance),
		Start:       calendar.DateTime{DateTime: start.In(m.location).Format(calendar.LocalDateTimeLayout), TimeZone: zone},
		End:         calendar.DateTime{DateTime: end.In(m.location).Format(calendar.LocalDateTimeLayout), TimeZone: zone},
		Attendees:   attendees,
		Reminders:   calendar.DefaultReminders(),
	}
}

var localLayouts = []string{
	calendar.LocalDateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDateTime accepts RFC3339 or a wall clock time in the resolved zone.
func (m *Materializer) parseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, m.location); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

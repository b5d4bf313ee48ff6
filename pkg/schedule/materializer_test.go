package schedule

import (
	"testing"
	"time"

	"github.com/Pranshu23x/project-server/pkg/calendar"
	"github.com/Pranshu23x/project-server/pkg/intent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var warsaw, _ = time.LoadLocation("Europe/Warsaw")

func TestMaterialize_EmptyIntentDefaultsWithoutDrift(t *testing.T) {
	m := NewMaterializer(time.UTC, "")
	nows := []time.Time{
		time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 14, 23, 30, 15, 0, time.UTC),
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
	}

	for _, now := range nows {
		event := m.Materialize(intent.EventIntent{}, "do something", now)

		start, err := time.ParseInLocation(calendar.LocalDateTimeLayout, event.Start.DateTime, time.UTC)
		require.NoError(t, err)
		end, err := time.ParseInLocation(calendar.LocalDateTimeLayout, event.End.DateTime, time.UTC)
		require.NoError(t, err)
		assert.True(t, now.Add(time.Hour).Equal(start), "start for %s", now)
		assert.Equal(t, time.Hour, end.Sub(start))
	}
}

func TestMaterialize_FullIntent(t *testing.T) {
	m := NewMaterializer(warsaw, "Meeting")
	now := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)

	event := m.Materialize(intent.EventIntent{
		Summary:       "Team meeting",
		StartDateTime: "2025-01-15T15:00:00",
		EndDateTime:   "2025-01-15T16:30:00",
		Attendees:     []string{"ana@example.com", " ", "bo@example.com"},
	}, "Team meeting tomorrow at 3 PM", now)

	assert.Equal(t, "Team meeting", event.Summary)
	assert.Equal(t, calendar.DateTime{DateTime: "2025-01-15T15:00:00", TimeZone: "Europe/Warsaw"}, event.Start)
	assert.Equal(t, calendar.DateTime{DateTime: "2025-01-15T16:30:00", TimeZone: "Europe/Warsaw"}, event.End)
	assert.Equal(t, []string{"ana@example.com", "bo@example.com"}, event.Attendees)
	assert.Contains(t, event.Description, `"Team meeting tomorrow at 3 PM"`)
	assert.Equal(t, calendar.DefaultReminders(), event.Reminders)
}

func TestMaterialize_Defaults(t *testing.T) {
	now := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	m := NewMaterializer(warsaw, "Meeting")

	testCases := []struct {
		name      string
		in        intent.EventIntent
		wantStart string
		wantEnd   string
		summary   string
	}{
		{
			name:      "missing summary and times",
			in:        intent.EventIntent{},
			wantStart: "2025-01-14T12:00:00",
			wantEnd:   "2025-01-14T13:00:00",
			summary:   "Meeting",
		},
		{
			name:      "start only",
			in:        intent.EventIntent{Summary: "Call", StartDateTime: "2025-01-20T09:00:00"},
			wantStart: "2025-01-20T09:00:00",
			wantEnd:   "2025-01-20T10:00:00",
			summary:   "Call",
		},
		{
			name:      "end before start",
			in:        intent.EventIntent{StartDateTime: "2025-01-20T09:00:00", EndDateTime: "2025-01-20T08:00:00"},
			wantStart: "2025-01-20T09:00:00",
			wantEnd:   "2025-01-20T10:00:00",
			summary:   "Meeting",
		},
		{
			name:      "rfc3339 start converted into zone",
			in:        intent.EventIntent{StartDateTime: "2025-01-20T09:00:00Z"},
			wantStart: "2025-01-20T10:00:00",
			wantEnd:   "2025-01-20T11:00:00",
			summary:   "Meeting",
		},
		{
			name:      "minutes only layout",
			in:        intent.EventIntent{StartDateTime: "2025-01-20T09:30"},
			wantStart: "2025-01-20T09:30:00",
			wantEnd:   "2025-01-20T10:30:00",
			summary:   "Meeting",
		},
		{
			name:      "unparseable start counts as missing",
			in:        intent.EventIntent{StartDateTime: "tomorrow-ish"},
			wantStart: "2025-01-14T12:00:00",
			wantEnd:   "2025-01-14T13:00:00",
			summary:   "Meeting",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event := m.Materialize(tc.in, "utterance", now)

			assert.Equal(t, tc.summary, event.Summary)
			assert.Equal(t, tc.wantStart, event.Start.DateTime)
			assert.Equal(t, tc.wantEnd, event.End.DateTime)
			assert.Equal(t, "Europe/Warsaw", event.Start.TimeZone)
			assert.Equal(t, "Europe/Warsaw", event.End.TimeZone)
			assert.NotNil(t, event.Attendees)
		})
	}
}

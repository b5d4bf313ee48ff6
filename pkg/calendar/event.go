package calendar

// LocalDateTimeLayout is the wall clock format exchanged with the model and
// sent to Google together with an explicit time zone.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// Event is a fully resolved event ready to be inserted.
type Event struct {
	Summary     string
	Description string
	Start       DateTime
	End         DateTime
	Attendees   []string
	Reminders   []Reminder
}

type DateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type ReminderMethod string

const (
	ReminderEmail ReminderMethod = "email"
	ReminderPopup ReminderMethod = "popup"
)

type Reminder struct {
	Method  ReminderMethod
	Minutes int64
}

// DefaultReminders is applied to every scheduled event.
func DefaultReminders() []Reminder {
	return []Reminder{
		{Method: ReminderEmail, Minutes: 24 * 60},
		{Method: ReminderPopup, Minutes: 10},
	}
}

// Inserted carries the identifiers assigned by the calendar provider.
type Inserted struct {
	Id   string
	Link string
}

package event_bus

import "time"

const (
	ScheduleSucceeded EventType = "schedule.succeeded"
	ScheduleFailed    EventType = "schedule.failed"
	CredentialStored  EventType = "credential.stored"
	CredentialRevoked EventType = "credential.revoked"
)

type EventScheduled struct {
	UserId   string
	EventId  string
	Summary  string
	Start    string
	TimeZone string
}

type SchedulingFailed struct {
	UserId  string
	Outcome string
	Reason  string
}

type CredentialChanged struct {
	UserId string
	Expiry time.Time
	// Reason is "exchange", "rotation", "expired" or "logout".
	Reason string
}

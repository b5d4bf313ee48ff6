package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Pranshu23x/project-server/internal/rest"
	"github.com/Pranshu23x/project-server/pkg/calendar"
	log "github.com/sirupsen/logrus"
)

type scheduleRequest struct {
	UserQuery string `json:"userQuery"`
	UserId    string `json:"userId"`
}

type EventDTO struct {
	Id        string            `json:"id"`
	Link      string            `json:"link"`
	Summary   string            `json:"summary"`
	Start     calendar.DateTime `json:"start"`
	End       calendar.DateTime `json:"end"`
	Attendees []string          `json:"attendees"`
}

type scheduleResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Event   EventDTO `json:"event"`
}

type Handler struct {
	service *Service
	timeout time.Duration
}

// NewHandler bounds every scheduling request by timeout; zero disables it.
func NewHandler(service *Service, timeout time.Duration) *Handler {
	return &Handler{service: service, timeout: timeout}
}

// ScheduleEvent answers POST /schedule-event.
func (h *Handler) ScheduleEvent(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body", Details: err.Error()})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.service.Schedule(ctx, req.UserId, req.UserQuery)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "userQuery and userId are required"})
			return
		}
		log.Errorf("unexpected scheduling error: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: "Failed to create calendar event", Details: err.Error()})
		return
	}

	switch result.Outcome {
	case OutcomeScheduled:
		rest.WriteJSON(w, http.StatusOK, scheduleResponse{
			Success: true,
			Message: "Event created successfully",
			Event:   toEventDTO(result),
		})
	case OutcomeUnauthenticated:
		rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{
			Error:  "User not authenticated. Please authenticate with Google Calendar first.",
			Action: "authenticate",
		})
	case OutcomeAuthExpired:
		rest.WriteError(w, http.StatusUnauthorized, rest.ErrorResponse{
			Error:  "Authentication expired. Please re-authenticate with Google Calendar.",
			Action: "reauthenticate",
		})
	case OutcomePermissionDenied:
		rest.WriteError(w, http.StatusForbidden, rest.ErrorResponse{
			Error:   "permission denied",
			Details: "Grant calendar access to the application and try again.",
		})
	default:
		details := ""
		if result.Err != nil {
			details = result.Err.Error()
		}
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{
			Error:   "Failed to create calendar event",
			Details: details,
		})
	}
}

func toEventDTO(result Result) EventDTO {
	return EventDTO{
		Id:        result.Inserted.Id,
		Link:      result.Inserted.Link,
		Summary:   result.Event.Summary,
		Start:     result.Event.Start,
		End:       result.Event.End,
		Attendees: result.Event.Attendees,
	}
}

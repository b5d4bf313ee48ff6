package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Pranshu23x/project-server/internal/config"
	"github.com/Pranshu23x/project-server/internal/gemini"
	"github.com/Pranshu23x/project-server/internal/utils"
	"github.com/Pranshu23x/project-server/pkg/credential"
	"github.com/Pranshu23x/project-server/pkg/google"
	"github.com/Pranshu23x/project-server/pkg/intent"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const teamMeetingCompletion = `{"candidates":[{"content":{"parts":[{"text":"{\"summary\": \"Team meeting\", \"startDateTime\": \"2025-01-15T15:00:00\", \"endDateTime\": \"2025-01-15T16:00:00\", \"attendees\": []}"}]}}]}`

type handlerFixture struct {
	router        *mux.Router
	store         *credential.MemoryStore
	geminiCalls   atomic.Int32
	calendarCalls atomic.Int32
}

// setupHandlerTest wires the real extractor and gateway against fake
// Gemini and Calendar servers.
func setupHandlerTest(t *testing.T, calendarHandler http.HandlerFunc) *handlerFixture {
	f := &handlerFixture{store: credential.NewMemoryStore()}

	geminiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.geminiCalls.Add(1)
		_, _ = w.Write([]byte(teamMeetingCompletion))
	}))
	t.Cleanup(geminiServer.Close)
	calendarServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calendarCalls.Add(1)
		calendarHandler(w, r)
	}))
	t.Cleanup(calendarServer.Close)

	auth := google.NewAuth(testGoogleConfig, "http://localhost:3000/oauth2callback")
	extractor := intent.NewExtractor(gemini.NewClient(config.Gemini{ApiKey: "k", Model: "m", BaseUrl: geminiServer.URL}, geminiServer.Client()))
	gateway := google.NewCalendarGateway(option.WithEndpoint(calendarServer.URL + "/calendar/v3/"))
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)}
	service := NewService(f.store, auth, extractor, NewMaterializer(time.UTC, "Meeting"), gateway, clock, nil, nil)

	scheduleHandler := NewHandler(service, 5*time.Second)
	authHandler := google.NewAuthHandler(auth, f.store, nil)
	f.router = mux.NewRouter()
	f.router.HandleFunc("/schedule-event", scheduleHandler.ScheduleEvent).Methods("POST")
	f.router.HandleFunc("/auth/status/{userId}", authHandler.Status).Methods("GET")
	return f
}

func (f *handlerFixture) authenticate(t *testing.T, userId string) {
	require.NoError(t, f.store.Put(context.Background(), userId, credential.Credential{
		AccessToken: "access-1", RefreshToken: "refresh-1", Expiry: time.Now().Add(time.Hour),
	}))
}

func (f *handlerFixture) schedule(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/schedule-event", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func apiError(code int, message string, reason string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
			"code": code, "message": message,
			"errors": []map[string]any{{"reason": reason, "message": message}},
		}})
	}
}

func TestScheduleEvent_Success(t *testing.T) {
	f := setupHandlerTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"evt-1","htmlLink":"https://calendar.google.com/event?eid=evt-1"}`))
	})
	f.authenticate(t, "user-1")

	w := f.schedule(`{"userQuery":"Team meeting tomorrow at 3 PM","userId":"user-1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp scheduleResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "evt-1", resp.Event.Id)
	assert.Equal(t, "https://calendar.google.com/event?eid=evt-1", resp.Event.Link)
	assert.Equal(t, "Team meeting", resp.Event.Summary)
	assert.Equal(t, "2025-01-15T15:00:00", resp.Event.Start.DateTime)
	assert.Equal(t, "2025-01-15T16:00:00", resp.Event.End.DateTime)
	assert.Equal(t, "UTC", resp.Event.Start.TimeZone)
	assert.Empty(t, resp.Event.Attendees)
}

func TestScheduleEvent_MissingFields(t *testing.T) {
	f := setupHandlerTest(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, body := range []string{`{"userId":"user-1"}`, `{"userQuery":"lunch"}`, `not json`} {
		w := f.schedule(body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	assert.Zero(t, f.geminiCalls.Load())
	assert.Zero(t, f.calendarCalls.Load())
}

func TestScheduleEvent_UnknownUser(t *testing.T) {
	f := setupHandlerTest(t, func(w http.ResponseWriter, r *http.Request) {})

	w := f.schedule(`{"userQuery":"Team meeting tomorrow at 3 PM","userId":"stranger"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "authenticate", decodeBody(t, w)["action"])
	assert.Zero(t, f.geminiCalls.Load())
	assert.Zero(t, f.calendarCalls.Load())
}

func TestScheduleEvent_InvalidGrantRequiresReauthentication(t *testing.T) {
	f := setupHandlerTest(t, apiError(http.StatusUnauthorized, "Invalid Credentials", "authError"))
	f.authenticate(t, "user-1")

	w := f.schedule(`{"userQuery":"Team meeting tomorrow at 3 PM","userId":"user-1"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "reauthenticate", decodeBody(t, w)["action"])

	status := httptest.NewRecorder()
	f.router.ServeHTTP(status, httptest.NewRequest(http.MethodGet, "/auth/status/user-1", nil))
	require.Equal(t, http.StatusOK, status.Code)
	assert.Equal(t, false, decodeBody(t, status)["authenticated"])
}

func TestScheduleEvent_PermissionDenied(t *testing.T) {
	f := setupHandlerTest(t, apiError(http.StatusForbidden, "Request had insufficient authentication scopes.", "insufficientPermissions"))
	f.authenticate(t, "user-1")

	w := f.schedule(`{"userQuery":"Team meeting tomorrow at 3 PM","userId":"user-1"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "permission denied", decodeBody(t, w)["error"])
	has, _ := f.store.Has(context.Background(), "user-1")
	assert.True(t, has)
}

func TestScheduleEvent_CalendarFailure(t *testing.T) {
	f := setupHandlerTest(t, apiError(http.StatusBadRequest, "Invalid start time.", "invalid"))
	f.authenticate(t, "user-1")

	w := f.schedule(`{"userQuery":"Team meeting tomorrow at 3 PM","userId":"user-1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Failed to create calendar event", body["error"])
	assert.Contains(t, body["details"], "Invalid start time.")
}

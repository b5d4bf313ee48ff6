package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Pranshu23x/project-server/internal/event_bus"
	"github.com/Pranshu23x/project-server/internal/rest"
	"github.com/Pranshu23x/project-server/pkg/credential"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type authUrlRequest struct {
	UserId string `json:"userId"`
}

type authUrlResponse struct {
	AuthUrl string `json:"authUrl"`
	UserId  string `json:"userId"`
}

type authStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserId        string `json:"userId"`
}

type AuthHandler struct {
	auth  *Auth
	store credential.Store
	bus   *event_bus.EventBus
}

func NewAuthHandler(auth *Auth, store credential.Store, bus *event_bus.EventBus) *AuthHandler {
	return &AuthHandler{auth: auth, store: store, bus: bus}
}

// AuthUrl answers POST /auth/url with the consent URL for the given user.
func (h *AuthHandler) AuthUrl(w http.ResponseWriter, r *http.Request) {
	var req authUrlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserId == "" {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "userId is required"})
		return
	}

	authUrl, err := h.auth.ConsentURL(req.UserId, nil)
	if err != nil {
		log.Errorf("unable to build consent URL: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{
			Error:   "Google OAuth is not configured",
			Details: err.Error(),
		})
		return
	}

	log.Debugf("issued consent URL for user %s", req.UserId)
	rest.WriteJSON(w, http.StatusOK, authUrlResponse{AuthUrl: authUrl, UserId: req.UserId})
}

// OAuthCallback handles Google's redirect and reports back to the opener.
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.FormValue("code")
	userId := r.FormValue("state")

	if providerErr := r.FormValue("error"); providerErr != "" {
		log.Warnf("authorization denied for user %s: %s", userId, providerErr)
		renderCallback(w, http.StatusBadRequest, callbackMessage{UserId: userId, Error: "Authorization was denied: " + providerErr})
		return
	}
	if code == "" || userId == "" {
		renderCallback(w, http.StatusBadRequest, callbackMessage{UserId: userId, Error: "Missing authorization code or state"})
		return
	}

	cred, err := h.auth.Exchange(r.Context(), userId, code)
	if err != nil {
		log.Errorf("authorization callback for user %s failed: %v", userId, err)
		renderCallback(w, http.StatusInternalServerError, callbackMessage{UserId: userId, Error: "Unable to complete authorization"})
		return
	}
	if err := h.store.Put(r.Context(), userId, cred); err != nil {
		renderCallback(w, http.StatusInternalServerError, callbackMessage{UserId: userId, Error: "Unable to store credentials"})
		return
	}

	h.publish(r.Context(), event_bus.CredentialStored, event_bus.CredentialChanged{UserId: userId, Expiry: cred.Expiry, Reason: "exchange"})
	log.Infof("stored Google credential for user %s", userId)
	renderCallback(w, http.StatusOK, callbackMessage{Success: true, UserId: userId})
}

// Status answers GET /auth/status/{userId}.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]
	has, err := h.store.Has(r.Context(), userId)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: "Unable to check authentication", Details: err.Error()})
		return
	}
	rest.WriteJSON(w, http.StatusOK, authStatusResponse{Authenticated: has, UserId: userId})
}

// Logout answers DELETE /auth/{userId}. Unknown users are not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userId := mux.Vars(r)["userId"]
	if err := h.store.Delete(r.Context(), userId); err != nil {
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: "Unable to remove credentials", Details: err.Error()})
		return
	}
	h.publish(r.Context(), event_bus.CredentialRevoked, event_bus.CredentialChanged{UserId: userId, Reason: "logout"})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) publish(ctx context.Context, eventType event_bus.EventType, data event_bus.CredentialChanged) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(event_bus.NewEvent(ctx, eventType, data)); err != nil && !errors.Is(err, context.Canceled) {
		log.Warnf("failed to publish %s: %v", eventType, err)
	}
}

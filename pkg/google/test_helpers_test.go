package google

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pranshu23x/project-server/internal/config"
	"golang.org/x/oauth2"
)

var testGoogleConfig = config.Google{ClientId: "client-id", ClientSecret: "client-secret"}

const testRedirectUrl = "http://localhost:3000/oauth2callback"

// newTokenServer fakes Google's token endpoint with the given handler.
func newTokenServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Auth) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	auth := NewAuthWithEndpoint(testGoogleConfig, testRedirectUrl, oauth2.Endpoint{
		AuthURL:   server.URL + "/auth",
		TokenURL:  server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	})
	return server, auth
}

func tokenResponder(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

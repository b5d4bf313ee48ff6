package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Pranshu23x/project-server/internal/config"
	"github.com/Pranshu23x/project-server/pkg/credential"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

var (
	ErrConfig       = errors.New("google OAuth client credentials are not configured")
	ErrAuthExchange = errors.New("unable to exchange authorization code")
)

// DefaultScopes grants event creation on the user's calendars.
var DefaultScopes = []string{gcal.CalendarEventsScope}

type Auth struct {
	oauthConfig *oauth2.Config
}

func NewAuth(cfg config.Google, redirectUrl string) *Auth {
	return NewAuthWithEndpoint(cfg, redirectUrl, google.Endpoint)
}

func NewAuthWithEndpoint(cfg config.Google, redirectUrl string, endpoint oauth2.Endpoint) *Auth {
	return &Auth{oauthConfig: &oauth2.Config{
		ClientID:     cfg.ClientId,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirectUrl,
		Scopes:       DefaultScopes,
	}}
}

func (a *Auth) configured() bool {
	return a.oauthConfig.ClientID != "" && a.oauthConfig.ClientSecret != ""
}

// ConsentURL is deterministic for a given user id, scope list and config.
// The user id travels as the OAuth state; offline access and forced consent
// make Google issue a refresh token on every authorization.
func (a *Auth) ConsentURL(userId string, scopes []string) (string, error) {
	if !a.configured() {
		return "", ErrConfig
	}
	conf := *a.oauthConfig
	if len(scopes) > 0 {
		conf.Scopes = scopes
	}
	return conf.AuthCodeURL(userId, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades a one-time authorization code for the user's credential.
func (a *Auth) Exchange(ctx context.Context, userId string, code string) (credential.Credential, error) {
	if !a.configured() {
		return credential.Credential{}, ErrConfig
	}
	if code == "" {
		return credential.Credential{}, fmt.Errorf("%w: missing code", ErrAuthExchange)
	}
	token, err := a.oauthConfig.Exchange(ctx, code)
	if err != nil {
		log.Errorf("unable to exchange code for token: %v", err)
		return credential.Credential{}, fmt.Errorf("%w: %w", ErrAuthExchange, err)
	}
	return credential.FromToken(userId, token), nil
}

// AuthorizedClient is an HTTP client bound to one credential. Token refreshes
// happen transparently inside it.
type AuthorizedClient struct {
	HTTPClient *http.Client
	source     *recordingSource
}

// Token returns a valid token, refreshing it if needed.
func (c *AuthorizedClient) Token() (*oauth2.Token, error) {
	return c.source.Token()
}

// LastToken reports the last token the client obtained, without touching
// the network. It is false when no request or refresh succeeded.
func (c *AuthorizedClient) LastToken() (*oauth2.Token, bool) {
	return c.source.last()
}

// Client binds cred to a client for a single downstream call. The credential
// store is not touched; callers write rotated tokens back themselves.
func (a *Auth) Client(ctx context.Context, cred credential.Credential) *AuthorizedClient {
	source := &recordingSource{src: a.oauthConfig.TokenSource(ctx, cred.Token())}
	return &AuthorizedClient{
		HTTPClient: oauth2.NewClient(ctx, source),
		source:     source,
	}
}

// recordingSource remembers the last token handed out successfully.
type recordingSource struct {
	src oauth2.TokenSource

	mu    sync.Mutex
	token *oauth2.Token
}

func (s *recordingSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token, nil
}

func (s *recordingSource) last() (*oauth2.Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != nil
}

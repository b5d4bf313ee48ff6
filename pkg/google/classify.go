package google

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindAuthExpired
	KindPermissionDenied
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth_expired"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "other"
	}
}

// CalendarError is returned by every failed calendar call.
type CalendarError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CalendarError) Error() string {
	return fmt.Sprintf("calendar request failed (%s): %s", e.Kind, e.Message)
}

func (e *CalendarError) Unwrap() error {
	return e.Err
}

func IsKind(err error, kind ErrorKind) bool {
	var calendarErr *CalendarError
	return errors.As(err, &calendarErr) && calendarErr.Kind == kind
}

func newCalendarError(err error) *CalendarError {
	return &CalendarError{Kind: classify(err), Message: err.Error(), Err: err}
}

// classify prefers structured provider errors. Token endpoint rejections come
// back as oauth2.RetrieveError, API rejections as googleapi.Error. Only a
// rejected grant counts as expired.
func classify(err error) ErrorKind {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "invalid_grant", "invalid_token":
			return KindAuthExpired
		case "invalid_client", "unauthorized_client":
			// The server's own client credentials were rejected; the user's
			// grant is untouched.
			log.Errorf("Google rejected the OAuth client configuration (%s): check google.clientid and google.clientsecret", retrieveErr.ErrorCode)
			return KindOther
		}
		return KindOther
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return KindAuthExpired
		case http.StatusForbidden:
			for _, item := range apiErr.Errors {
				if item.Reason == "insufficientPermissions" {
					return KindPermissionDenied
				}
			}
		}
		return classifyMessage(apiErr.Message)
	}

	return classifyMessage(err.Error())
}

// classifyMessage matches free-text signatures. It only backs up the
// structured checks above for errors that carry nothing else.
func classifyMessage(message string) ErrorKind {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "invalid_grant"),
		strings.Contains(m, "invalid credentials"),
		strings.Contains(m, "token has been expired or revoked"):
		return KindAuthExpired
	case strings.Contains(m, "insufficient permission"),
		strings.Contains(m, "insufficient authentication scopes"),
		strings.Contains(m, "access_token_scope_insufficient"):
		return KindPermissionDenied
	default:
		return KindOther
	}
}

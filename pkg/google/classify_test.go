package google

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{
			name: "refresh rejected with invalid_grant",
			err:  &url.Error{Op: "Post", URL: "https://oauth2.googleapis.com/token", Err: &oauth2.RetrieveError{ErrorCode: "invalid_grant"}},
			want: KindAuthExpired,
		},
		{
			name: "refresh rejected with invalid_token",
			err:  &oauth2.RetrieveError{ErrorCode: "invalid_token", Response: &http.Response{StatusCode: http.StatusUnauthorized}},
			want: KindAuthExpired,
		},
		{
			name: "server client secret rejected",
			err:  &oauth2.RetrieveError{ErrorCode: "invalid_client", Response: &http.Response{StatusCode: http.StatusUnauthorized}},
			want: KindOther,
		},
		{
			name: "server client not allowed",
			err:  &url.Error{Op: "Post", URL: "https://oauth2.googleapis.com/token", Err: &oauth2.RetrieveError{ErrorCode: "unauthorized_client", Response: &http.Response{StatusCode: http.StatusBadRequest}}},
			want: KindOther,
		},
		{
			name: "token endpoint 400 without code",
			err:  &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}},
			want: KindOther,
		},
		{
			name: "token endpoint unavailable",
			err:  &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusServiceUnavailable}},
			want: KindOther,
		},
		{
			name: "api 401",
			err:  &googleapi.Error{Code: http.StatusUnauthorized, Message: "Invalid Credentials"},
			want: KindAuthExpired,
		},
		{
			name: "api 403 insufficient permissions",
			err: &googleapi.Error{Code: http.StatusForbidden, Message: "Request had insufficient authentication scopes.",
				Errors: []googleapi.ErrorItem{{Reason: "insufficientPermissions"}}},
			want: KindPermissionDenied,
		},
		{
			name: "api 403 rate limit",
			err: &googleapi.Error{Code: http.StatusForbidden, Message: "Rate Limit Exceeded",
				Errors: []googleapi.ErrorItem{{Reason: "rateLimitExceeded"}}},
			want: KindOther,
		},
		{
			name: "api 400",
			err:  &googleapi.Error{Code: http.StatusBadRequest, Message: "Bad Request"},
			want: KindOther,
		},
		{
			name: "text only expiry",
			err:  errors.New("oauth2: token has been expired or revoked"),
			want: KindAuthExpired,
		},
		{
			name: "text only scope",
			err:  fmt.Errorf("wrapped: %w", errors.New("ACCESS_TOKEN_SCOPE_INSUFFICIENT")),
			want: KindPermissionDenied,
		},
		{
			name: "unrelated",
			err:  errors.New("connection reset by peer"),
			want: KindOther,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classify(tc.err))
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("schedule: %w", newCalendarError(&googleapi.Error{Code: http.StatusUnauthorized}))

	assert.True(t, IsKind(err, KindAuthExpired))
	assert.False(t, IsKind(err, KindPermissionDenied))
	assert.False(t, IsKind(errors.New("plain"), KindAuthExpired))
}

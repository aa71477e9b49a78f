package upstream

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsStatusError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantOK     bool
		wantKind   string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "wrapped upstream error",
			err:        errors.Wrap(&UpstreamError{Service: "spotify", StatusCode: 401, Body: `{"error":"invalid_token"}`}, "currently playing"),
			wantOK:     true,
			wantKind:   KindUpstream,
			wantStatus: 401,
			wantBody:   `{"error":"invalid_token"}`,
		},
		{
			name:       "auth error",
			err:        &AuthError{Service: "spotify", StatusCode: 400, Body: `{"error":"invalid_grant"}`},
			wantOK:     true,
			wantKind:   KindAuth,
			wantStatus: 400,
			wantBody:   `{"error":"invalid_grant"}`,
		},
		{
			name:   "plain error",
			err:    errors.New("connection refused"),
			wantOK: false,
		},
		{
			name:   "nil error",
			err:    nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se, ok := AsStatusError(tt.err)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantKind, se.Kind())
			assert.Equal(t, tt.wantStatus, se.Status())
			assert.Equal(t, tt.wantBody, se.Message())
		})
	}
}

func TestErrorStrings(t *testing.T) {
	assert.Equal(t, "hardcover request failed: status 500: boom",
		(&UpstreamError{Service: "hardcover", StatusCode: 500, Body: "boom"}).Error())
	assert.Equal(t, "spotify token refresh failed: status 400: bad",
		(&AuthError{Service: "spotify", StatusCode: 400, Body: "bad"}).Error())
}

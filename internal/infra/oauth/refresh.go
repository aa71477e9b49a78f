// Package oauth keeps a short-lived bearer token alive from a long-lived refresh token.
package oauth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/osa030/dashboard/internal/infra/upstream"
)

// Credentials are the static client credentials loaded from configuration.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// tokenResponse is the body of a successful refresh_token grant.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// RefreshSource owns one access token and refreshes it once it has expired.
// A failed refresh leaves the previous token and expiry untouched.
type RefreshSource struct {
	service    string
	tokenURL   string
	creds      Credentials
	httpClient *http.Client
	now        func() time.Time

	// mu serializes refreshes so concurrent callers share one token request.
	mu    sync.Mutex
	token *oauth2.Token
}

// NewRefreshSource creates a RefreshSource posting to tokenURL with httpClient.
func NewRefreshSource(service, tokenURL string, creds Credentials, httpClient *http.Client) (*RefreshSource, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RefreshToken == "" {
		return nil, errors.Newf("%s credentials are required", service)
	}
	if tokenURL == "" {
		return nil, errors.Newf("%s token url is required", service)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &RefreshSource{
		service:    service,
		tokenURL:   tokenURL,
		creds:      creds,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// EnsureValid refreshes the access token unless the current one is still valid.
func (s *RefreshSource) EnsureValid(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.validLocked() {
		return nil
	}

	tok, err := s.refresh(ctx)
	if err != nil {
		return err
	}
	s.token = tok
	return nil
}

// Token returns a valid access token, refreshing it first if needed.
func (s *RefreshSource) Token(ctx context.Context) (*oauth2.Token, error) {
	if err := s.EnsureValid(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tok := *s.token
	return &tok, nil
}

// validLocked reports whether a token exists and now <= expiry.
func (s *RefreshSource) validLocked() bool {
	if s.token == nil || s.token.AccessToken == "" {
		return false
	}
	return !s.now().After(s.token.Expiry)
}

func (s *RefreshSource) refresh(ctx context.Context) (*oauth2.Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.creds.ClientID, s.creds.ClientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s token request", s.service)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s token response", s.service)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &upstream.AuthError{Service: s.service, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s token response", s.service)
	}
	if tr.AccessToken == "" {
		return nil, errors.Newf("%s token response has no access_token", s.service)
	}

	expiry := s.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	zlog.Debug().Str("service", s.service).Time("expiry", expiry).Msg("access token refreshed")

	return &oauth2.Token{
		AccessToken: tr.AccessToken,
		TokenType:   "Bearer",
		Expiry:      expiry,
	}, nil
}

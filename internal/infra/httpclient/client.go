// Package httpclient builds the single HTTP client shared by all upstream API clients.
package httpclient

import (
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"
)

// Config represents shared client configuration.
type Config struct {
	Timeout             time.Duration
	MaxIdleConnsPerHost int
}

// New creates the process-wide upstream client. Call CloseIdleConnections on shutdown.
func New(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxIdleConnsPerHost > 0 {
		transport.MaxIdleConnsPerHost = cfg.MaxIdleConnsPerHost
	}

	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &loggingTransport{next: transport},
	}
}

// loggingTransport logs every upstream round trip at debug level.
// Only method, host and path are logged so query-string API keys stay out of logs.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)

	ev := zlog.Debug().
		Str("method", req.Method).
		Str("host", req.URL.Host).
		Str("path", req.URL.Path).
		Dur("duration", time.Since(start))
	if err != nil {
		ev.Err(err).Msg("upstream request failed")
		return nil, err
	}
	ev.Int("status", resp.StatusCode).Msg("upstream request")
	return resp, nil
}

// CloseIdleConnections lets http.Client.CloseIdleConnections reach the pool.
func (t *loggingTransport) CloseIdleConnections() {
	type closeIdler interface{ CloseIdleConnections() }
	if c, ok := t.next.(closeIdler); ok {
		c.CloseIdleConnections()
	}
}

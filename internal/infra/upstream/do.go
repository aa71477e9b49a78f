package upstream

import (
	"io"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Response is a fully read upstream response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NoContent reports whether the upstream answered 204.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent
}

// Do sends req with client and reads the whole body.
// Statuses other than 200 and 204 are returned as *UpstreamError.
func Do(client *http.Client, service string, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to send %s request", service)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s response body", service)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
	default:
		return nil, &UpstreamError{Service: service, StatusCode: resp.StatusCode, Body: string(body)}
	}
}

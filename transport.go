package bisquit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pthm/bisquit/wire"
)

// Transport carries one dispatch to a remote endpoint. Timeouts and retries
// are the transport's business; the page waits for whatever it returns.
type Transport interface {
	Post(ctx context.Context, endpoint string, req wire.Request) (*wire.Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, endpoint string, req wire.Request) (*wire.Response, error)

// Post calls f.
func (f TransportFunc) Post(ctx context.Context, endpoint string, req wire.Request) (*wire.Response, error) {
	return f(ctx, endpoint, req)
}

// StatusError is returned by HTTPTransport for non-2xx responses.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bisquit: %s returned %d %s", e.Endpoint, e.Code, http.StatusText(e.Code))
}

// HTTPTransport posts dispatches as url-encoded forms.
type HTTPTransport struct {
	client *http.Client
	base   *url.URL
}

// NewHTTPTransport creates a transport. Relative endpoints are resolved
// against baseURL when it is non-empty. A nil client means
// http.DefaultClient.
func NewHTTPTransport(client *http.Client, baseURL string) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	t := &HTTPTransport{client: client}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			t.base = u
		}
	}
	return t
}

// Post sends the dispatch and decodes the JSON answer.
func (t *HTTPTransport) Post(ctx context.Context, endpoint string, req wire.Request) (*wire.Response, error) {
	target, err := t.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	values, err := req.Values()
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("bisquit: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(wire.RequestedWithHeader, wire.RequestedWithValue)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("bisquit: post %s: %w", target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("bisquit: read %s: %w", target, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: target, Code: resp.StatusCode}
	}
	return wire.DecodeResponse(body)
}

func (t *HTTPTransport) resolve(endpoint string) (string, error) {
	if t.base == nil {
		return endpoint, nil
	}
	ref, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("bisquit: endpoint %q: %w", endpoint, err)
	}
	return t.base.ResolveReference(ref).String(), nil
}

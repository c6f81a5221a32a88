// Package httprpc implements the Transport contract over HTTP/JSON: one
// POST per operator evaluation, one POST per field reservation. The
// message bodies are the transport package's Call and FieldRequest types
// encoded as JSON, with payload values carried in their cty JSON form.
package httprpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vk/fempost/internal/ctxlog"
	"github.com/vk/fempost/transport"
)

// Client talks to an engine server over HTTP. The zero value is not
// usable; construct with New.
type Client struct {
	base string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying HTTP client, for callers that
// need their own transport tuning or middleware.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the engine server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must use http or https", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type runRequest struct {
	RequestID string                    `json:"request_id"`
	Inputs    map[int]transport.Payload `json:"inputs"`
	Output    int                       `json:"output"`
	Config    map[string]string         `json:"config,omitempty"`
}

type runResponse struct {
	Output transport.Payload `json:"output"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Run implements transport.Transport.
func (c *Client) Run(ctx context.Context, call transport.Call) (transport.Payload, error) {
	logger := ctxlog.FromContext(ctx)
	reqID := uuid.NewString()

	body, err := json.Marshal(runRequest{
		RequestID: reqID,
		Inputs:    call.Inputs,
		Output:    call.Output,
		Config:    call.Config,
	})
	if err != nil {
		return transport.Payload{}, fmt.Errorf("encoding call to %q: %w", call.Operator, err)
	}

	endpoint := fmt.Sprintf("%s/operators/%s/run", c.base, url.PathEscape(call.Operator))
	logger.Debug("Sending evaluation request.", "operator", call.Operator, "request_id", reqID)

	raw, err := c.post(ctx, endpoint, reqID, body, call.Operator, fmt.Sprintf("operator %q", call.Operator))
	if err != nil {
		return transport.Payload{}, err
	}

	var resp runResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return transport.Payload{}, fmt.Errorf("decoding response of %q: %w", call.Operator, err)
	}
	return resp.Output, nil
}

type createFieldResponse struct {
	ID string `json:"id"`
}

// CreateField implements transport.Transport.
func (c *Client) CreateField(ctx context.Context, req transport.FieldRequest) (string, error) {
	reqID := uuid.NewString()
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding field reservation: %w", err)
	}

	raw, err := c.post(ctx, c.base+"/fields", reqID, body, "", "field reservation")
	if err != nil {
		return "", err
	}

	var resp createFieldResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decoding field reservation response: %w", err)
	}
	return resp.ID, nil
}

// post sends one request. operator names the operator an evaluation is
// for (empty otherwise) and ends up on any RemoteError; label is the
// human-readable subject for wrapped local errors.
func (c *Client) post(ctx context.Context, endpoint, reqID string, body []byte, operator, label string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", label, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transport.RemoteError{Operator: operator, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", label, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er errorResponse
		if err := json.Unmarshal(raw, &er); err != nil || er.Message == "" {
			er.Message = fmt.Sprintf("server returned %s", resp.Status)
		}
		return nil, &transport.RemoteError{Operator: operator, Message: er.Message}
	}
	return raw, nil
}

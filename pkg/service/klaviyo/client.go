package klaviyo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/interfaces"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/model"
	"github.com/secmon-lab/klaviyofeed/pkg/domain/types"
)

const (
	// DefaultTimeout bounds every outbound call
	DefaultTimeout = 5 * time.Second

	maxResponseBody = 1 << 20
)

// Client talks to the Klaviyo track and list APIs
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    types.APIVersion
	endpoints  Endpoints
	timeout    time.Duration
}

var _ interfaces.KlaviyoClient = (*Client)(nil)

// Option is a functional option for configuring Client
type Option func(*Client)

// WithBaseURL sets the API host
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIVersion selects the API generation. Endpoint paths are reset to
// that version's defaults, so apply WithEndpoints after it.
func WithAPIVersion(version types.APIVersion) Option {
	return func(c *Client) {
		c.version = version
		c.endpoints = DefaultEndpoints(version)
	}
}

// WithEndpoints overrides individual endpoint paths
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		c.endpoints = c.endpoints.Merge(endpoints)
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new Klaviyo client
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		version:    types.APIVersionV2,
		endpoints:  DefaultEndpoints(types.APIVersionV2),
		timeout:    DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Version returns the configured API generation
func (c *Client) Version() types.APIVersion {
	return c.version
}

// Track sends a behavioural event
func (c *Client) Track(ctx context.Context, publicKey types.APIKey, event *interfaces.TrackEvent) error {
	payload := trackPayload{
		Token:              publicKey.String(),
		Event:              event.Name,
		CustomerProperties: event.CustomerProperties,
		Properties:         event.Properties,
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to encode track payload")
	}

	var req *http.Request
	switch c.version {
	case types.APIVersionV1:
		// The legacy endpoint also accepts data as a GET query; only the POST
		// form is sent.
		form := url.Values{}
		form.Set("data", base64.StdEncoding.EncodeToString(raw))
		req, err = c.newRequest(ctx, http.MethodPost, c.endpoints.Track, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		req, err = c.newRequest(ctx, http.MethodPost, c.endpoints.Track, bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
	}

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return apiError("track request rejected", c.endpoints.Track, status, body)
	}
	// The track endpoint answers 200 with "0" when it drops the event
	if strings.TrimSpace(string(body)) == "0" {
		return apiError("track event was not accepted", c.endpoints.Track, status, body)
	}

	return nil
}

// Subscribe adds a single profile to a list
func (c *Client) Subscribe(ctx context.Context, privateKey types.APIKey, listID types.ListID, profile *interfaces.Profile) error {
	if listID == "" {
		return goerr.New("list ID is empty", goerr.T(model.ErrTagValidation))
	}

	path := c.endpoints.subscribePath(listID)

	var req *http.Request
	switch c.version {
	case types.APIVersionV1:
		props, err := json.Marshal(legacyProperties(profile))
		if err != nil {
			return goerr.Wrap(err, "failed to encode profile properties")
		}
		form := url.Values{}
		form.Set("api_key", privateKey.String())
		form.Set("email", profile.Email)
		form.Set("properties", string(props))
		form.Set("confirm_optin", "false")

		req, err = c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(subscribePayload{
			APIKey:   privateKey.String(),
			Profiles: []map[string]string{profileProperties(profile)},
		})
		if err != nil {
			return goerr.Wrap(err, "failed to encode subscribe payload")
		}

		req, err = c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
	}

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apiError("subscribe request rejected", path, status, body)
	}

	ctxlog.From(ctx).Debug("Profile subscribed",
		"list_id", listID,
		"version", c.version,
	)
	return nil
}

// Lists returns the account's lists as choices
func (c *Client) Lists(ctx context.Context, privateKey types.APIKey) ([]model.ListChoice, error) {
	// Overrides may carry their own query
	endpoint, err := url.Parse(c.endpoints.Lists)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid lists endpoint",
			goerr.V("endpoint", c.endpoints.Lists),
			goerr.T(model.ErrTagTransport))
	}
	query := endpoint.Query()
	query.Set("api_key", privateKey.String())
	endpoint.RawQuery = query.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError("lists request rejected", c.endpoints.Lists, status, body)
	}

	return c.decodeLists(body)
}

// decodeLists accepts either a bare array or a {"data": [...]} envelope and
// reads the id/name fields of the configured version.
func (c *Client) decodeLists(body []byte) ([]model.ListChoice, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	items := json.RawMessage(body)
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, goerr.Wrap(err, "failed to decode lists response", goerr.T(model.ErrTagDecode))
		}
		if envelope.Data == nil {
			return nil, goerr.New("lists response has no data field", goerr.T(model.ErrTagDecode))
		}
		items = envelope.Data
	}

	choices := []model.ListChoice{}
	switch c.version {
	case types.APIVersionV1:
		var lists []listV1
		if err := json.Unmarshal(items, &lists); err != nil {
			return nil, goerr.Wrap(err, "failed to decode lists", goerr.T(model.ErrTagDecode))
		}
		for _, l := range lists {
			// Segments share the endpoint; only real lists accept members
			if l.ListType != "" && l.ListType != "list" {
				continue
			}
			choices = append(choices, model.ListChoice{Label: l.Name, Value: l.ID})
		}
	default:
		var lists []listV2
		if err := json.Unmarshal(items, &lists); err != nil {
			return nil, goerr.Wrap(err, "failed to decode lists", goerr.T(model.ErrTagDecode))
		}
		for _, l := range lists {
			choices = append(choices, model.ListChoice{Label: l.ListName, Value: l.ListID})
		}
	}

	return choices, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request",
			goerr.V("method", method),
			goerr.T(model.ErrTagTransport))
	}
	return req, nil
}

// do sends the request under the client timeout and returns the status and
// a bounded copy of the body
func (c *Client) do(req *http.Request) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(req.Context(), c.timeout)
	defer cancel()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		// The URL may carry the private key in its query
		return 0, nil, goerr.New("request to Klaviyo failed: "+redactError(err),
			goerr.V("method", req.Method),
			goerr.V("path", req.URL.Path),
			goerr.T(model.ErrTagTransport))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return resp.StatusCode, nil, goerr.Wrap(err, "failed to read Klaviyo response",
			goerr.V("path", req.URL.Path),
			goerr.T(model.ErrTagTransport))
	}

	return resp.StatusCode, body, nil
}

func apiError(msg, path string, status int, body []byte) error {
	return goerr.New(msg,
		goerr.V("path", path),
		goerr.V("status", status),
		goerr.V("body", string(body)),
		goerr.T(model.ErrTagAPI))
}

// redactError strips the request URL from transport errors
func redactError(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Op + ": " + urlErr.Err.Error()
	}
	return err.Error()
}

// Package apiclient is the single outbound path to the labels REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/domain/model"
	"github.com/target/labelboard/internal/observability/requestid"
	"github.com/target/labelboard/internal/observability/statsd"
	"github.com/target/labelboard/internal/ports"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client     // optional; a client with a cookie jar is built when nil
	Timeout    time.Duration    // per-call timeout; zero disables it
	Tokens     ports.TokenStore // optional; calls needing a token fail with 401 when nil
	Metrics    statsd.Sink      // optional
	Logger     *slog.Logger     // optional
}

// Client talks to the backend on behalf of one token store.
type Client struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	tokens  ports.TokenStore
	metrics statsd.Sink
	logger  *slog.Logger
}

var _ ports.BackendAPI = (*Client)(nil)

// New validates options and builds a Client.
func New(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc, err = newHTTPClient(nil)
		if err != nil {
			return nil, err
		}
	}

	c := &Client{
		base:    base,
		http:    hc,
		timeout: opts.Timeout,
		tokens:  opts.Tokens,
		metrics: opts.Metrics,
		logger:  opts.Logger,
	}
	if c.metrics == nil {
		c.metrics = statsd.Discard
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

// WithTokens returns a copy bound to ts with its own cookie jar, so backend
// cookies from one browser request never leak into another.
func (c *Client) WithTokens(ts ports.TokenStore) *Client {
	cp := *c
	cp.tokens = ts
	if hc, err := newHTTPClient(c.http); err == nil {
		cp.http = hc
	}
	return &cp
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string { return c.base.String() }

func newHTTPClient(template *http.Client) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if template == nil {
		return &http.Client{Jar: jar}, nil
	}
	cp := *template
	cp.Jar = jar
	return &cp, nil
}

// Login exchanges credentials for a token and stores it.
func (c *Client) Login(ctx context.Context, creds domainauth.Credentials) (*domainauth.LoginResult, error) {
	var env objectEnvelope[domainauth.LoginResult]
	err := c.do(ctx, request{
		op:       "login",
		method:   http.MethodPost,
		path:     "/login",
		body:     creds,
		fallback: msgLogin,
	}, &env)
	if err != nil {
		return nil, err
	}
	if env.Value.Token == "" {
		return nil, domainauth.NewNetworkError(errors.New("login response carried no token"))
	}
	if c.tokens != nil {
		c.tokens.SetToken(env.Value.Token)
	}
	return &env.Value, nil
}

// GetAuthUser returns the user owning the stored token.
func (c *Client) GetAuthUser(ctx context.Context) (*domainauth.User, error) {
	var env objectEnvelope[domainauth.User]
	if err := c.do(ctx, request{
		op:       "get_user",
		method:   http.MethodGet,
		path:     "/user",
		auth:     true,
		fallback: msgGetUser,
	}, &env); err != nil {
		return nil, err
	}
	return &env.Value, nil
}

// GetLabels lists every label.
func (c *Client) GetLabels(ctx context.Context) ([]model.Label, error) {
	var env listEnvelope[model.Label]
	if err := c.do(ctx, request{
		op:       "get_labels",
		method:   http.MethodGet,
		path:     "/v1/labels",
		auth:     true,
		fallback: msgGetLabels,
	}, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// GetCategories lists every category.
func (c *Client) GetCategories(ctx context.Context) ([]model.Category, error) {
	var env listEnvelope[model.Category]
	if err := c.do(ctx, request{
		op:       "get_categories",
		method:   http.MethodGet,
		path:     "/v1/categories",
		auth:     true,
		fallback: msgGetCategories,
	}, &env); err != nil {
		return nil, err
	}
	return env.Items, nil
}

// CreateLabel creates a label. Callers refetch to observe it in lists.
func (c *Client) CreateLabel(ctx context.Context, req model.CreateLabelRequest) (*model.Label, error) {
	var env objectEnvelope[model.Label]
	if err := c.do(ctx, request{
		op:       "create_label",
		method:   http.MethodPost,
		path:     "/v1/labels",
		body:     req,
		auth:     true,
		fallback: msgCreateLabel,
	}, &env); err != nil {
		return nil, err
	}
	return &env.Value, nil
}

// DeleteLabel removes a label by id.
func (c *Client) DeleteLabel(ctx context.Context, id int64) error {
	return c.do(ctx, request{
		op:       "delete_label",
		method:   http.MethodDelete,
		path:     "/v1/labels/" + strconv.FormatInt(id, 10),
		auth:     true,
		fallback: msgDeleteLabel,
	}, nil)
}

// Logout ends the server-side session. The stored token is left alone.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{
		op:       "logout",
		method:   http.MethodPost,
		path:     "/logout",
		auth:     true,
		fallback: msgLogout,
	}, nil)
}

type request struct {
	op       string
	method   string
	path     string
	body     any
	auth     bool
	fallback string
}

// do performs one call. out may be nil when the success body is ignored.
func (c *Client) do(ctx context.Context, r request, out any) error {
	var token string
	if r.auth {
		var ok bool
		if c.tokens != nil {
			token, ok = c.tokens.Token()
		}
		if !ok || token == "" {
			return noTokenError()
		}
	}

	start := time.Now()
	status, err := c.roundTrip(ctx, r, token, out)
	c.observe(ctx, r.op, status, err, time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, r request, token string, out any) (int, error) {
	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(callCtx, r, token)
	if err != nil {
		return 0, domainauth.NewNetworkError(err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, classify(ctx, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, apiError(resp, r.fallback)
	}
	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, classify(ctx, fmt.Errorf("decode %s response: %w", r.op, err))
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, r request, token string) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", r.op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.base.String()+r.path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}
	return req, nil
}

func (c *Client) observe(ctx context.Context, op string, status int, err error, d time.Duration) {
	label := strconv.Itoa(status)
	switch {
	case IsCanceled(err):
		label = "canceled"
	case status == 0 && err != nil:
		label = "network"
	}
	tags := map[string]string{"op": op, "status": label}
	c.metrics.Count("api.request", 1, tags)
	c.metrics.Timing("api.latency", d, tags)

	attrs := []any{
		slog.String("op", op),
		slog.String("status", label),
		slog.Duration("duration", d),
	}
	if id := requestid.FromContext(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if err != nil && !IsCanceled(err) {
		c.logger.DebugContext(ctx, "backend call failed", append(attrs, slog.Any("error", err))...)
		return
	}
	c.logger.DebugContext(ctx, "backend call", attrs...)
}

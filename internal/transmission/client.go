package transmission

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/five82/tower/internal/metrics"
)

// Daemon is the set of operations the poller and UI need. *Client implements
// it; tests substitute fakes.
type Daemon interface {
	GetSession(ctx context.Context, fields ...string) (SessionInfo, error)
	SessionStats(ctx context.Context) (SessionStats, error)
	TorrentSummaries(ctx context.Context) ([]TorrentSummary, error)
	TorrentAction(ctx context.Context, action Action, id int64) error
}

// Ensure Client implements Daemon at compile time.
var _ Daemon = (*Client)(nil)

// Client talks to the daemon's RPC endpoint.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	session   *Session
	userAgent string
	username  string
	password  string
	logger    *zap.Logger
}

const (
	defaultRPCPath   = "/transmission/rpc"
	defaultUserAgent = "tower/0.1"
	requestTimeout   = 5 * time.Second
	maxResponseSize  = 32 << 20
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default 5 second client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for session renewals.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCredentials enables HTTP basic auth.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the RPC endpoint URL. A missing or
// malformed endpoint is a *ConfigError.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		session:   NewSession(),
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the normalised RPC URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// GetSession fetches session fields; with no fields it asks for the version.
func (c *Client) GetSession(ctx context.Context, fields ...string) (SessionInfo, error) {
	if len(fields) == 0 {
		fields = []string{"version"}
	}
	return call[SessionInfo](ctx, c, MethodSessionGet, GetSessionArgs{Fields: fields})
}

// SessionStats fetches daemon-wide transfer statistics.
func (c *Client) SessionStats(ctx context.Context) (SessionStats, error) {
	return call[SessionStats](ctx, c, MethodSessionStats, nil)
}

// ListTorrents fetches the given fields for the given torrents, or for every
// torrent when ids is empty.
func (c *Client) ListTorrents(ctx context.Context, fields []string, ids ...string) ([]Torrent, error) {
	if len(fields) == 0 {
		fields = []string{"id", "name", "percentComplete"}
	}
	list, err := call[TorrentList](ctx, c, MethodTorrentGet, GetTorrentArgs{IDs: ids, Fields: fields})
	if err != nil {
		return nil, err
	}
	return list.Torrents, nil
}

// TorrentSummaries fetches SummaryFields for every torrent.
func (c *Client) TorrentSummaries(ctx context.Context) ([]TorrentSummary, error) {
	list, err := call[TorrentSummaryList](ctx, c, MethodTorrentGet, GetTorrentArgs{Fields: SummaryFields})
	if err != nil {
		return nil, err
	}
	return list.Torrents, nil
}

// Action is a torrent command verb.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// Method maps the verb to its torrent-<action> RPC.
func (a Action) Method() (Method, error) {
	m := Method("torrent-" + string(a))
	if m != MethodTorrentStart && m != MethodTorrentStop {
		return "", fmt.Errorf("unsupported torrent action %q", a)
	}
	return m, nil
}

// TorrentAction starts or stops one torrent. The command is sent at most
// once; the only resend is the session renewal, which the daemon answers
// before acting on the request.
func (c *Client) TorrentAction(ctx context.Context, action Action, id int64) error {
	method, err := action.Method()
	if err != nil {
		return err
	}
	_, err = call[struct{}](ctx, c, method, TorrentActionArgs{IDs: []int64{id}})
	return err
}

func call[T any](ctx context.Context, c *Client, method Method, args Arguments) (T, error) {
	var zero T
	if c == nil {
		return zero, fmt.Errorf("client is nil")
	}
	req, err := NewRequest(method, args)
	if err != nil {
		return zero, &ProtocolError{Method: method, Err: err}
	}

	start := time.Now()
	resp, err := c.roundTrip(ctx, req)
	var out Response[T]
	if err == nil {
		out, err = DecodeResponse[T](method, resp)
	}
	metrics.RPCRequestDuration.WithLabelValues(string(method)).Observe(time.Since(start).Seconds())
	metrics.RPCRequestsTotal.WithLabelValues(string(method), outcome(err)).Inc()
	if err != nil {
		return zero, err
	}
	return out.Arguments, nil
}

// roundTrip posts req and returns the raw body of the accepted response. An
// authorization conflict renews the session token and resends exactly once.
func (c *Client) roundTrip(ctx context.Context, req Request) ([]byte, error) {
	body, err := EncodeRequest(req)
	if err != nil {
		return nil, &ProtocolError{Method: req.Method, Err: err}
	}

	resp, err := c.post(ctx, req.Method, body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusConflict {
		token := strings.TrimSpace(resp.Header.Get(SessionHeader))
		discard(resp)
		if token == "" {
			return nil, &ProtocolError{Method: req.Method, Status: http.StatusConflict, Err: errors.New("conflict without session id")}
		}
		c.session.Replace(token)
		metrics.SessionRenewalsTotal.Inc()
		c.logger.Debug("session renewed", zap.String("method", string(req.Method)))

		resp, err = c.post(ctx, req.Method, body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusConflict {
			// Keep the newest token for the next call, but do not chase it.
			if next := strings.TrimSpace(resp.Header.Get(SessionHeader)); next != "" {
				c.session.Replace(next)
			}
			discard(resp)
			return nil, fmt.Errorf("%s: %w", req.Method, ErrAuthRenewalExhausted)
		}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &ProtocolError{Method: req.Method, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &TransportError{Method: req.Method, Err: fmt.Errorf("read response: %w", err)}
	}
	return data, nil
}

func (c *Client) post(ctx context.Context, method Method, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &ProtocolError{Method: method, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(SessionHeader, c.session.Token())
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("execute request: %w", err)}
	}
	return resp, nil
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func outcome(err error) string {
	var transportErr *TransportError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrAuthRenewalExhausted):
		return metrics.OutcomeSession
	case errors.As(err, &transportErr):
		return metrics.OutcomeTransport
	default:
		return metrics.OutcomeProtocol
	}
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		return nil, &ConfigError{Field: "transmission_url", Err: errors.New("endpoint is empty")}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, &ConfigError{Field: "transmission_url", Err: fmt.Errorf("parse %q: %w", endpoint, err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ConfigError{Field: "transmission_url", Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return nil, &ConfigError{Field: "transmission_url", Err: fmt.Errorf("no host in %q", endpoint)}
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = defaultRPCPath
	}
	u.Fragment = ""
	return u, nil
}

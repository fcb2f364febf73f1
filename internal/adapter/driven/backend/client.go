// Package backend implements the authenticated request pipeline every call to
// the financial-records backend goes through. It attaches the session's bearer
// token, classifies envelopes into success, business error, auth failure or
// transport failure, and recovers an expired access token with at most one
// renewal and one replay per call.
package backend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/ericfisherdev/ledgerdesk/internal/domain/model"
	"github.com/ericfisherdev/ledgerdesk/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Backend = (*Client)(nil)

const (
	defaultTimeout      = 30 * time.Second
	defaultRenewTimeout = 10 * time.Second

	// maxReplays caps how often one call is re-sent after a renewal.
	maxReplays = 1

	renewPath       = "/auth/refreshToken"
	requestIDHeader = "X-Request-ID"
	userAgent       = "ledgerdesk"
)

// Outcome labels recorded in metrics.
const (
	outcomeSuccess   = "success"
	outcomeBusiness  = "business_error"
	outcomeFatalAuth = "fatal_auth"
	outcomeTransport = "transport_error"
	outcomeCancelled = "cancelled"
)

// Session is the credential state the pipeline reads before every attempt and
// writes on renewal or fatal auth failure.
type Session interface {
	AccessToken() string
	// CompareAndStore replaces the token only while the session holds old.
	CompareAndStore(ctx context.Context, old, token string) (bool, error)
	Clear(ctx context.Context) error
}

// Options configures a Client. Only BaseURL is required.
type Options struct {
	BaseURL string

	// Transport is the innermost RoundTripper; nil means http.DefaultTransport.
	Transport    http.RoundTripper
	Timeout      time.Duration
	RenewTimeout time.Duration
	EnableCache  bool

	// RateLimit paces outgoing attempts in requests per second; zero disables it.
	RateLimit float64
	RateBurst int

	Metrics *Metrics
	Logger  *slog.Logger
	Clock   clockwork.Clock
}

// Client is the request pipeline. It is safe for concurrent use.
type Client struct {
	baseURL      string
	http         *http.Client
	session      Session
	navigator    driven.Navigator
	logger       *slog.Logger
	metrics      *Metrics
	limiter      *rate.Limiter
	clock        clockwork.Clock
	renewTimeout time.Duration

	renewals  singleflight.Group
	observers observers
}

// NewClient creates a pipeline bound to session and navigator.
func NewClient(opts Options, session Session, navigator driven.Navigator) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", opts.BaseURL)
	}
	if session == nil {
		return nil, errors.New("session is required")
	}
	if navigator == nil {
		return nil, errors.New("navigator is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	renewTimeout := opts.RenewTimeout
	if renewTimeout <= 0 {
		renewTimeout = defaultRenewTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &Client{
		baseURL:      strings.TrimSuffix(base.String(), "/"),
		http:         newHTTPClient(opts.Transport, opts.EnableCache, timeout),
		session:      session,
		navigator:    navigator,
		logger:       logger,
		metrics:      opts.Metrics,
		limiter:      limiter,
		clock:        clock,
		renewTimeout: renewTimeout,
	}, nil
}

// Subscribe registers fn for business-error notifications and returns a
// function that removes it.
func (c *Client) Subscribe(fn NotificationHandler) (unsubscribe func()) {
	return c.observers.add(fn)
}

// exchange is one attempt's raw result.
type exchange struct {
	status    int
	header    http.Header
	body      []byte
	payload   model.Payload
	decodeErr error
	// token is the credential attached to this attempt, "" if none.
	token string
}

func (x *exchange) envelope() model.Envelope {
	if p, ok := x.payload.(model.JSONPayload); ok {
		return p.Envelope
	}
	return model.Envelope{}
}

func (x *exchange) code() model.ErrorCode {
	return model.ErrorCode(x.envelope().Code)
}

// Do sends req through the pipeline. On success the response is returned
// unchanged. Failures are *model.BusinessError (observers notified),
// *model.FatalAuthError (credential cleared, login redirect fired),
// *model.TransportError or *model.CancelledError (no side effects).
func (c *Client) Do(ctx context.Context, req driven.BackendRequest) (*driven.BackendResponse, error) {
	start := c.clock.Now()
	resp, err := c.do(ctx, req)
	c.metrics.observeRequest(outcomeOf(err), c.clock.Since(start))
	return resp, err
}

func (c *Client) do(ctx context.Context, req driven.BackendRequest) (*driven.BackendResponse, error) {
	if req.Method == "" {
		req.Method = http.MethodPost
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, &model.TransportError{Err: err}
	}

	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "method", req.Method, "path", req.Path)
	exempt := req.Binary || isAuthEndpoint(req.Path)

	for attempt := 0; ; attempt++ {
		x, err := c.send(ctx, req, body, contentType, requestID)
		if err != nil {
			logger.Debug("backend call failed", "attempt", attempt, "error", err)
			return nil, err
		}

		if x.decodeErr != nil && x.status >= 200 && x.status < 300 {
			return nil, &model.TransportError{StatusCode: x.status, Body: x.body, Err: x.decodeErr}
		}

		class := Classify(x.status, x.code(), exempt)
		logger.Debug("backend call classified", "attempt", attempt, "status", x.status, "code", x.code(), "class", class)

		switch class {
		case ClassSuccess:
			return &driven.BackendResponse{StatusCode: x.status, Header: x.header, Payload: x.payload, Body: x.body}, nil

		case ClassBusiness:
			return nil, c.rejectBusiness(ctx, logger, x, req.FallbackMessage)

		case ClassTransport:
			return nil, &model.TransportError{StatusCode: x.status, Body: x.body, Err: x.decodeErr}

		case ClassFatalAuth:
			code := x.code()
			message := ""
			if code.CarriesLoginMessage() {
				message = x.envelope().UserMessage(model.ReloginMessage)
			}
			return nil, c.rejectFatal(ctx, logger, x.status, code, message, nil)

		case ClassRetryableAuth:
			expired := &model.RetryableAuthError{Code: x.code(), Message: x.envelope().UserMessage("")}
			if attempt >= maxReplays {
				// The replay was rejected as expired too: the renewed token
				// was already stale. Renewing again could loop forever.
				logger.Warn("replayed request rejected as expired", "code", x.code())
				return nil, c.rejectFatal(ctx, logger, x.status, x.code(), "", expired)
			}

			if err := c.renew(ctx, x.token); err != nil {
				var cancelled *model.CancelledError
				if errors.As(err, &cancelled) {
					return nil, cancelled
				}
				logger.Warn("access token renewal failed", "error", err)
				code, message := renewalRedirect(err)
				return nil, c.rejectFatal(ctx, logger, http.StatusUnauthorized, code, message, err)
			}
			logger.Info("access token renewed, replaying request", "code", expired.Code)
		}
	}
}

// send performs one attempt with the credential current at this moment.
func (c *Client) send(ctx context.Context, req driven.BackendRequest, body []byte, contentType, requestID string) (*exchange, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.transportErr(ctx, fmt.Errorf("wait for rate limiter: %w", err))
		}
	}

	target, err := c.resolve(req.Path, req.Query)
	if err != nil {
		return nil, &model.TransportError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, &model.TransportError{Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set(requestIDHeader, requestID)

	token := c.session.AccessToken()
	if token != "" {
		(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(httpReq)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.transportErr(ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportErr(ctx, fmt.Errorf("read response body: %w", err))
	}

	payload, decodeErr := decodePayload(resp.Header.Get("Content-Type"), data, req.Binary)

	return &exchange{
		status:    resp.StatusCode,
		header:    resp.Header,
		body:      data,
		payload:   payload,
		decodeErr: decodeErr,
		token:     token,
	}, nil
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("parsing request path %q: %w", path, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// transportErr distinguishes caller cancellation from real transport failure.
func (c *Client) transportErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return model.NewCancelledError(ctx)
	}
	return &model.TransportError{Err: err}
}

// rejectBusiness notifies observers once and returns the BusinessError.
func (c *Client) rejectBusiness(ctx context.Context, logger *slog.Logger, x *exchange, fallback string) error {
	if ctx.Err() != nil {
		return model.NewCancelledError(ctx)
	}

	env := x.envelope()
	message := env.UserMessage(withDefault(fallback, model.DefaultErrorMessage))
	logger.Warn("backend rejected request", "status", x.status, "code", env.Code, "message", message)

	c.observers.publish(model.Notification{Message: message})

	return &model.BusinessError{StatusCode: x.status, Code: model.ErrorCode(env.Code), Message: message}
}

// rejectFatal clears the credential, fires the login redirect once and
// returns the FatalAuthError.
func (c *Client) rejectFatal(ctx context.Context, logger *slog.Logger, status int, code model.ErrorCode, message string, cause error) error {
	if ctx.Err() != nil {
		return model.NewCancelledError(ctx)
	}

	if err := c.session.Clear(ctx); err != nil {
		logger.Error("failed to clear access token", "error", err)
	}
	logger.Warn("session invalid, redirecting to login", "status", status, "code", code)
	c.navigator.RedirectToLogin(ctx, message)

	return &model.FatalAuthError{StatusCode: status, Code: code, Message: message, Err: cause}
}

// renewalRedirect derives the code and login message for a failed renewal.
// A renewal rejected with a non-retryable code forwards its message; any other
// failure redirects without one.
func renewalRedirect(err error) (model.ErrorCode, string) {
	var fatal *model.FatalAuthError
	if errors.As(err, &fatal) {
		return fatal.Code, fatal.Message
	}
	var expired *model.RetryableAuthError
	if errors.As(err, &expired) {
		return expired.Code, ""
	}
	return "", ""
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	var (
		business  *model.BusinessError
		fatal     *model.FatalAuthError
		cancelled *model.CancelledError
	)
	switch {
	case errors.As(err, &cancelled):
		return outcomeCancelled
	case errors.As(err, &business):
		return outcomeBusiness
	case errors.As(err, &fatal):
		return outcomeFatalAuth
	default:
		return outcomeTransport
	}
}

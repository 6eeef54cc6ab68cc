package proxy

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/quiverhq/quiver/backend/internal/infrastructure/logging"
	"github.com/quiverhq/quiver/backend/internal/infrastructure/monitoring"
)

// Config bounds a relay instance. Timeout is the hard deadline for the
// outbound call; PreviewLimit is the largest binary payload that still gets
// an inline base64 preview.
type Config struct {
	Timeout      time.Duration
	PreviewLimit int64
	UserAgent    string
}

// DefaultConfig returns the production relay limits.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		PreviewLimit: 10 << 20,
		UserAgent:    "Quiver-Relay/1.0",
	}
}

// Relay executes one outbound HTTP call per descriptor and produces a
// normalized envelope. Instances are safe for concurrent use.
type Relay struct {
	client  *resty.Client
	cfg     Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	deny    func(hostname string) bool
}

// New creates a relay. The client carries no retry policy: every call is
// user-initiated and must never be resent automatically.
func New(cfg Config, logger *logging.Logger) *Relay {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Relay{
		client: client,
		cfg:    cfg,
		logger: logger,
		deny:   DeniedHost,
	}
}

// WithMetrics attaches a metrics collector.
func (r *Relay) WithMetrics(m *monitoring.Metrics) *Relay {
	r.metrics = m
	return r
}

// Do runs the full pipeline for one descriptor: re-validate the target,
// apply the deny list, encode the body, execute under the deadline, and
// normalize the response. It returns either a complete envelope or a single
// classified error, never both.
func (r *Relay) Do(ctx context.Context, d Descriptor) (*Envelope, *Error) {
	env, relayErr := r.run(ctx, d)
	if relayErr != nil {
		r.observe(d, relayErr)
		return nil, relayErr
	}
	return env, nil
}

func (r *Relay) run(ctx context.Context, d Descriptor) (*Envelope, *Error) {
	method := normalizedMethod(d.Method)
	if _, ok := allowedMethods[method]; !ok {
		return nil, Invalid("Unsupported HTTP method")
	}
	if d.URL == "" {
		return nil, Invalid("URL is required")
	}

	target, err := url.Parse(d.URL)
	if err != nil {
		return nil, Invalid("Invalid URL")
	}
	if r.deny(target.Hostname()) {
		return nil, Blocked("Requests to private networks are not allowed")
	}

	req := r.client.R().SetHeaders(sanitizeHeaders(d.Headers))

	if allowsBody(method) && d.Body != "" {
		body, bodyErr := buildBody(d.BodyType, d.Body)
		if bodyErr != nil {
			return nil, bodyErr
		}
		if body.contentType != "" {
			req.SetHeader("Content-Type", body.contentType)
		}
		req.SetBody(body.payload)
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	req.SetContext(ctx)

	start := time.Now()
	resp, err := req.Execute(method, d.URL)
	elapsed := time.Since(start)

	if err != nil {
		if isTimeout(err) {
			return nil, Expired(r.cfg.Timeout)
		}
		return nil, TransportFailure(err)
	}

	contentType := resp.Header().Get("Content-Type")
	data := encodeResponse(contentType, resp.Body(), r.cfg.PreviewLimit)

	env := &Envelope{
		Status:      resp.StatusCode(),
		StatusText:  http.StatusText(resp.StatusCode()),
		Headers:     flattenHeaders(resp.Header(), d.URL),
		Data:        data,
		Time:        elapsed.Milliseconds(),
		Size:        int64(len(data)),
		ContentType: contentType,
	}

	if r.logger != nil {
		r.logger.Debug("relay request completed",
			zap.String("method", method),
			zap.String("host", target.Hostname()),
			zap.Int("status", env.Status),
			zap.Int64("time_ms", env.Time),
			zap.Int64("size", env.Size),
		)
	}
	if r.metrics != nil {
		r.metrics.RecordRelay(method, "success", elapsed, len(resp.Body()))
	}
	return env, nil
}

// observe logs and counts a failed invocation. Failures are logged
// server-side independent of what is returned to the caller.
func (r *Relay) observe(d Descriptor, relayErr *Error) {
	outcome := outcomeLabel(relayErr.Kind)
	if r.logger != nil {
		r.logger.Warn("relay request failed",
			zap.String("method", normalizedMethod(d.Method)),
			zap.String("url", d.URL),
			zap.String("outcome", outcome),
			zap.String("reason", relayErr.Message),
		)
	}
	if r.metrics != nil {
		r.metrics.RecordRelay(normalizedMethod(d.Method), outcome, 0, 0)
		if relayErr.Kind == KindSecurity {
			r.metrics.RecordRelayBlocked()
		}
	}
}

func outcomeLabel(kind Kind) string {
	switch kind {
	case KindValidation:
		return "validation_error"
	case KindSecurity:
		return "blocked"
	case KindTimeout:
		return "timeout"
	default:
		return "transport_error"
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

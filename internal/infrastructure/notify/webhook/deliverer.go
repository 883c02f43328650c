package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v5"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/teamsheet/internal/domain/notification"
	"github.com/riskibarqy/teamsheet/internal/platform/logging"
	"github.com/riskibarqy/teamsheet/internal/platform/resilience"
)

const SignatureHeader = "X-Teamsheet-Signature"

var errWebhookTransient = errors.New("webhook transient failure")

type Config struct {
	URL            string
	Secret         string
	Timeout        time.Duration
	MaxAttempts    uint
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Deliverer POSTs each notification as JSON to a single webhook URL.
type Deliverer struct {
	client      *fasthttp.Client
	url         string
	secret      []byte
	timeout     time.Duration
	maxAttempts uint
	breaker     *resilience.CircuitBreaker
	logger      *logging.Logger

	initialInterval time.Duration
}

func NewDeliverer(cfg Config, logger *logging.Logger) (*Deliverer, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, errors.New("webhook url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("webhook")

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.Name == "" {
		breakerCfg.Name = "notify-webhook"
	}
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = resilience.LogStateChanges(logger)
	}

	return &Deliverer{
		client: &fasthttp.Client{
			Name:            "teamsheet-webhook",
			ReadTimeout:     cfg.Timeout,
			WriteTimeout:    cfg.Timeout,
			MaxConnsPerHost: 32,
		},
		url:             url,
		secret:          []byte(cfg.Secret),
		timeout:         cfg.Timeout,
		maxAttempts:     cfg.MaxAttempts,
		breaker:         resilience.NewCircuitBreakerFromConfig(breakerCfg),
		logger:          logger,
		initialInterval: 200 * time.Millisecond,
	}, nil
}

func (d *Deliverer) Deliver(ctx context.Context, item notification.Notification) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payloadFrom(item)); err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}
	body := buf.Bytes()
	signature := d.sign(body)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = d.initialInterval

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		err := d.breaker.Execute(ctx, func(ctx context.Context) error {
			return d.post(ctx, body, signature)
		}, isTransient)
		switch {
		case err == nil:
			return struct{}{}, nil
		case errors.Is(err, resilience.ErrCircuitOpen), !isTransient(err):
			return struct{}{}, backoff.Permanent(err)
		default:
			return struct{}{}, err
		}
	}, backoff.WithBackOff(policy), backoff.WithMaxTries(d.maxAttempts))
	if err != nil {
		d.logger.WarnContext(ctx, "webhook delivery failed",
			"notification_id", item.ID,
			"type", string(item.Type),
			"error", err,
		)
		return fmt.Errorf("deliver notification %s: %w", item.ID, err)
	}
	return nil
}

func (d *Deliverer) post(ctx context.Context, body []byte, signature string) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(d.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if signature != "" {
		req.Header.Set(SignatureHeader, signature)
	}
	req.SetBody(body)

	deadline := time.Now().Add(d.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := d.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%w: %v", errWebhookTransient, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == fasthttp.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: status %d", errWebhookTransient, status)
	default:
		return fmt.Errorf("webhook rejected notification with status %d", status)
	}
}

// sign returns the hex HMAC-SHA256 of body, or "" when no secret is configured.
func (d *Deliverer) sign(body []byte) string {
	if len(d.secret) == 0 {
		return ""
	}
	mac := hmac.New(sha256.New, d.secret)
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func isTransient(err error) bool {
	return errors.Is(err, errWebhookTransient)
}

type payload struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	RelatedTeamID    string `json:"related_team_id,omitempty"`
	RelatedMatchID   string `json:"related_match_id,omitempty"`
	RelatedRequestID string `json:"related_request_id,omitempty"`
	CreatedAt        string `json:"created_at"`
}

func payloadFrom(item notification.Notification) payload {
	return payload{
		ID:               item.ID,
		UserID:           item.UserID,
		Type:             string(item.Type),
		Title:            item.Title,
		Message:          item.Message,
		RelatedTeamID:    item.RelatedTeamID,
		RelatedMatchID:   item.RelatedMatchID,
		RelatedRequestID: item.RelatedRequestID,
		CreatedAt:        item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

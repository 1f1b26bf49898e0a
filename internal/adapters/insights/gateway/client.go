package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"medication-adherence/internal/platform/httpclient"
	"medication-adherence/internal/platform/logger"
	"medication-adherence/internal/ports/insights"
)

const (
	DefaultPath    = "/v1/chat/completions"
	DefaultTimeout = 20 * time.Second
)

// Config del gateway de texto (API compatible con chat completions).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string

	// Opcional: path del endpoint. Default DefaultPath.
	Path    string
	Timeout time.Duration

	// Presupuesto local. RequestsPerMinute <= 0 deshabilita el limiter.
	RequestsPerMinute int
	Burst             int

	// Circuit breaker: fallas consecutivas para abrir y espera antes de probar de nuevo.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client implementa insights.Generator.
type Client struct {
	http    *httpclient.Client
	apiKey  string
	model   string
	path    string
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[string]
	log     logger.Logger
}

var _ insights.Generator = (*Client)(nil)

func NewClient(cfg Config, log logger.Logger) (*Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), timeout)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), burst)
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	cooldown := cfg.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "insights-gateway",
		Timeout: cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		// 429/402 son respuestas válidas del gateway, no fallas del servicio.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, insights.ErrRateLimited) ||
				errors.Is(err, insights.ErrPaymentRequired) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change", map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &Client{
		http:    hc,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   strings.TrimSpace(cfg.Model),
		path:    path,
		limiter: limiter,
		cb:      cb,
		log:     log,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

type chatRequest struct {
	Model    string             `json:"model,omitempty"`
	Messages []insights.Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate hace una sola llamada al gateway. No reintenta.
func (c *Client) Generate(ctx context.Context, req insights.Request) (string, error) {
	if !c.IsConfigured() {
		return "", insights.ErrNotConfigured
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return "", fmt.Errorf("%w: local request budget exhausted", insights.ErrRateLimited)
	}

	text, err := c.cb.Execute(func() (string, error) {
		return c.call(ctx, req)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", insights.ErrUpstream, err)
	}
	return text, err
}

func (c *Client) call(ctx context.Context, req insights.Request) (string, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var out chatResponse
	err := c.http.DoJSON(ctx, http.MethodPost, c.path, headers, chatRequest{Model: c.model, Messages: req.Messages}, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusTooManyRequests:
			return "", fmt.Errorf("%w: %v", insights.ErrRateLimited, err)
		case http.StatusPaymentRequired:
			return "", fmt.Errorf("%w: %v", insights.ErrPaymentRequired, err)
		default:
			if errors.Is(err, context.Canceled) {
				return "", err
			}
			return "", fmt.Errorf("%w: %v", insights.ErrUpstream, err)
		}
	}

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: response without choices", insights.ErrUpstream)
	}
	return out.Choices[0].Message.Content, nil
}

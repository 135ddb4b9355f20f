// Package gateway talks to the hosted checkout provider.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alaminmiah4274/iron-temple/internal/apperr"
	"github.com/alaminmiah4274/iron-temple/internal/config"
	"github.com/alaminmiah4274/iron-temple/internal/logger"
	"github.com/alaminmiah4274/iron-temple/internal/metrics"

	"github.com/sony/gobreaker/v2"
)

// ErrGateway is all callers ever see; upstream detail stays in the logs.
var ErrGateway = apperr.New(apperr.Gateway, "payment gateway is unavailable, please try again later")

var (
	errRejected  = errors.New("gateway rejected session")
	errTransient = errors.New("gateway transient failure")
)

type SessionRequest struct {
	TranID          string
	AmountCents     int64
	SuccessURL      string
	FailURL         string
	CancelURL       string
	CustomerName    string
	CustomerEmail   string
	CustomerAddress string
	CustomerPhone   string
	ProductName     string
}

type Client interface {
	// CreateSession returns the URL the member is redirected to for checkout.
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

type sessionResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type HTTPClient struct {
	endpoint      string
	storeID       string
	storePassword string
	currency      string
	timeout       time.Duration
	maxRetries    int
	retryDelay    time.Duration
	http          *http.Client
	breaker       *gobreaker.CircuitBreaker[string]
}

func New(cfg *config.Config) *HTTPClient {
	c := &HTTPClient{
		endpoint:      cfg.GatewayURL,
		storeID:       cfg.GatewayStoreID,
		storePassword: cfg.GatewayStorePassword,
		currency:      cfg.GatewayCurrency,
		timeout:       cfg.GatewayTimeout,
		maxRetries:    cfg.GatewayMaxRetries,
		retryDelay:    200 * time.Millisecond,
		http:          &http.Client{},
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A rejected session is an answer, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errRejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			metrics.GatewayBreakerState.Set(float64(to))
		},
	})

	return c
}

func (c *HTTPClient) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	start := time.Now()
	pageURL, err := c.breaker.Execute(func() (string, error) {
		return c.createWithRetry(ctx, req)
	})

	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		outcome = "open"
	case errors.Is(err, errRejected):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	metrics.RecordGatewayRequest(outcome, time.Since(start).Seconds())

	if err != nil {
		logger.WithError(err).Warn("gateway session failed", "tran_id", req.TranID, "outcome", outcome)
		return "", ErrGateway
	}

	return pageURL, nil
}

func (c *HTTPClient) createWithRetry(ctx context.Context, req SessionRequest) (string, error) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}

		var pageURL string
		pageURL, err = c.createOnce(ctx, req)
		if err == nil {
			return pageURL, nil
		}
		if !errors.Is(err, errTransient) {
			return "", err
		}
		logger.Debug("retrying gateway session", "tran_id", req.TranID, "attempt", attempt+1, "error", err)
	}
	return "", err
}

func (c *HTTPClient) form(req SessionRequest) url.Values {
	return url.Values{
		"store_id":         {c.storeID},
		"store_passwd":     {c.storePassword},
		"total_amount":     {FormatAmount(req.AmountCents)},
		"currency":         {c.currency},
		"tran_id":          {req.TranID},
		"success_url":      {req.SuccessURL},
		"fail_url":         {req.FailURL},
		"cancel_url":       {req.CancelURL},
		"cus_name":         {req.CustomerName},
		"cus_email":        {req.CustomerEmail},
		"cus_add1":         {req.CustomerAddress},
		"cus_phone":        {req.CustomerPhone},
		"cus_city":         {"N/A"},
		"cus_country":      {"N/A"},
		"shipping_method":  {"NO"},
		"product_name":     {req.ProductName},
		"product_category": {"Membership"},
		"product_profile":  {"general"},
	}
}

func (c *HTTPClient) createOnce(ctx context.Context, req SessionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(c.form(req).Encode()))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", errTransient, err)
	}

	if resp.StatusCode >= 500 {
		return "", fmt.Errorf("%w: status %d", errTransient, resp.StatusCode)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d", errRejected, resp.StatusCode)
	}

	var out sessionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode session response: %w", err)
	}

	if !strings.EqualFold(out.Status, "SUCCESS") || out.GatewayPageURL == "" {
		return "", fmt.Errorf("%w: %s", errRejected, out.FailedReason)
	}

	return out.GatewayPageURL, nil
}

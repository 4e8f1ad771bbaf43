package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/delivize/delivize/internal/billing/domain"
)

type stripeSession struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Customer string `json:"customer"`
}

type stripeErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type stripeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newStripeClient(apiKey string) *stripeClient {
	return &stripeClient{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: "https://api.stripe.com",
		client:  &http.Client{Timeout: 12 * time.Second},
	}
}

func (c *stripeClient) createCheckoutSession(
	ctx context.Context,
	userID string,
	customerID string,
	priceID string,
	successURL string,
	cancelURL string,
) (stripeSession, error) {
	values := url.Values{}
	values.Set("mode", "subscription")
	values.Set("line_items[0][price]", priceID)
	values.Set("line_items[0][quantity]", "1")
	values.Set("success_url", successURL)
	values.Set("cancel_url", cancelURL)
	values.Set("metadata[userId]", userID)
	values.Set("subscription_data[metadata][userId]", userID)
	if customerID != "" {
		values.Set("customer", customerID)
	}

	return c.doRequest(ctx, http.MethodPost, "/v1/checkout/sessions", values, "checkout:"+userID)
}

func (c *stripeClient) createPortalSession(
	ctx context.Context,
	customerID string,
	returnURL string,
) (stripeSession, error) {
	values := url.Values{}
	values.Set("customer", customerID)
	values.Set("return_url", returnURL)

	return c.doRequest(ctx, http.MethodPost, "/v1/billing_portal/sessions", values, "")
}

func (c *stripeClient) doRequest(
	ctx context.Context,
	method string,
	path string,
	values url.Values,
	idempotencyKey string,
) (stripeSession, error) {
	if c.apiKey == "" {
		return stripeSession{}, domain.ErrInvalidConfig
	}
	var bodyReader *strings.Reader
	if values != nil {
		bodyReader = strings.NewReader(values.Encode())
	} else {
		bodyReader = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return stripeSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if values != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return stripeSession{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var stripeErr stripeErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
			return stripeSession{}, errors.New("stripe_request_failed")
		}
		message := strings.TrimSpace(stripeErr.Error.Message)
		if message == "" {
			message = "stripe_request_failed"
		}
		return stripeSession{}, errors.New(message)
	}

	var session stripeSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return stripeSession{}, err
	}
	if session.URL == "" {
		return stripeSession{}, errors.New("stripe_response_invalid")
	}
	return session, nil
}

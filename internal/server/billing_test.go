package server

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	billingdomain "github.com/delivize/delivize/internal/billing/domain"
)

var errApply = errors.New("subscription apply failed")

func TestWebhookHandlerAcknowledgesValidEvent(t *testing.T) {
	billingSvc := &fakeBillingService{}
	srv := newTestServer(func(s *Server) {
		s.billingsvc = billingSvc
	})

	body := bytes.NewBufferString(`{"id":"evt_1","type":"checkout.session.completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Host = "delivize.com"
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if billingSvc.webhookN != 1 {
		t.Fatalf("expected one webhook call, got %d", billingSvc.webhookN)
	}
}

func TestWebhookHandlerMapsBadSignatureTo401(t *testing.T) {
	billingSvc := &fakeBillingService{verifyErr: billingdomain.ErrInvalidSignature}
	srv := newTestServer(func(s *Server) {
		s.billingsvc = billingSvc
	})

	body := bytes.NewBufferString(`{"id":"evt_2","type":"checkout.session.completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Host = "delivize.com"
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
	if billingSvc.webhookN != 0 {
		t.Fatalf("expected no apply on bad signature, got %d", billingSvc.webhookN)
	}
}

func TestWebhookHandlerDoesNotClaimUnverifiedEvents(t *testing.T) {
	billingSvc := &fakeBillingService{verifyErr: billingdomain.ErrInvalidSignature}
	limiter := newFakeLimiter()
	srv := newTestServer(func(s *Server) {
		s.billingsvc = billingSvc
		s.signupLimiter = limiter
	})

	body := bytes.NewBufferString(`{"id":"evt_forged","type":"checkout.session.completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Host = "delivize.com"
	req.Header.Set("Stripe-Signature", "t=1,v1=forged")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
	if limiter.claimed["evt_forged"] {
		t.Fatal("expected forged event not to be claimed")
	}

	// The legitimate delivery with the same ID must still go through.
	billingSvc.verifyErr = nil
	body = bytes.NewBufferString(`{"id":"evt_forged","type":"checkout.session.completed"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/billing/webhook", body)
	req.Host = "delivize.com"
	req.Header.Set("Stripe-Signature", "t=1,v1=good")
	resp = httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if billingSvc.webhookN != 1 {
		t.Fatalf("expected one apply, got %d", billingSvc.webhookN)
	}
}

func TestWebhookHandlerReleasesClaimOnApplyFailure(t *testing.T) {
	billingSvc := &fakeBillingService{webhookErr: errApply}
	limiter := newFakeLimiter()
	srv := newTestServer(func(s *Server) {
		s.billingsvc = billingSvc
		s.signupLimiter = limiter
	})

	send := func() *httptest.ResponseRecorder {
		body := bytes.NewBufferString(`{"id":"evt_3","type":"invoice.payment_succeeded"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/billing/webhook", body)
		req.Host = "delivize.com"
		req.Header.Set("Stripe-Signature", "t=1,v1=abc")
		resp := httptest.NewRecorder()
		srv.Engine().ServeHTTP(resp, req)
		return resp
	}

	if resp := send(); resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if len(limiter.released) != 1 || limiter.released[0] != "evt_3" {
		t.Fatalf("expected claim released for evt_3, got %v", limiter.released)
	}

	// The provider retries; the event must apply this time, not short-circuit
	// as a duplicate.
	billingSvc.webhookErr = nil
	if resp := send(); resp.Code != http.StatusOK {
		t.Fatalf("expected status 200 on retry, got %d", resp.Code)
	}
	if billingSvc.webhookN != 2 {
		t.Fatalf("expected two apply attempts, got %d", billingSvc.webhookN)
	}

	// A third delivery is now a real duplicate.
	if resp := send(); !contains(resp.Body.String(), `"duplicate":true`) {
		t.Fatalf("expected duplicate ack, got %s", resp.Body.String())
	}
	if billingSvc.webhookN != 2 {
		t.Fatalf("expected no further applies, got %d", billingSvc.webhookN)
	}
}

func TestCheckoutRequiresAuthentication(t *testing.T) {
	srv := newTestServer(nil)

	body := bytes.NewBufferString(`{"success_url":"https://x/s","cancel_url":"https://x/c"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/billing/checkout", body)
	req.Host = "delivize.com"
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"

	"github.com/delivize/delivize/internal/auth/session"
	signupdomain "github.com/delivize/delivize/internal/signup/domain"
)

func TestSignupHandlerSetsSessionAndRedirect(t *testing.T) {
	signupSvc := &fakeSignupService{
		result: &signupdomain.Result{
			UserID:     snowflake.ID(1),
			MenuID:     snowflake.ID(2),
			Subdomain:  "pizzariadojoao",
			RawToken:   "raw-token",
			ExpiresAt:  time.Now().Add(time.Hour),
			RedirectTo: "/manage/pizzariadojoao",
		},
	}
	srv := newTestServer(func(s *Server) {
		s.signupsvc = signupSvc
	})

	body := bytes.NewBufferString(`{"business_name":"Pizzaria do Joao","email":"joao@example.com","password":"s3cret123"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Host = "delivize.com"
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if signupSvc.called != 1 {
		t.Fatalf("expected one signup call, got %d", signupSvc.called)
	}
	if !contains(resp.Body.String(), `"redirect_to":"/manage/pizzariadojoao"`) {
		t.Fatalf("expected redirect target in body, got %s", resp.Body.String())
	}

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == session.DefaultCookieName {
			sessionCookie = cookie
		}
	}
	if sessionCookie == nil || sessionCookie.Value != "raw-token" {
		t.Fatalf("expected session cookie to be set, got %v", sessionCookie)
	}
}

func TestSignupHandlerRejectsMalformedBody(t *testing.T) {
	signupSvc := &fakeSignupService{}
	srv := newTestServer(func(s *Server) {
		s.signupsvc = signupSvc
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(`{`))
	req.Host = "delivize.com"
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if signupSvc.called != 0 {
		t.Fatal("expected signup service not to be called")
	}
}

func TestSignupHandlerSurfacesValidationError(t *testing.T) {
	signupSvc := &fakeSignupService{err: signupdomain.ErrInvalidRequest}
	srv := newTestServer(func(s *Server) {
		s.signupsvc = signupSvc
	})

	body := bytes.NewBufferString(`{"business_name":"","email":"","password":""}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
	req.Host = "delivize.com"
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	srv.Engine().ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

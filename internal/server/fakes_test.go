package server

import (
	"context"

	"github.com/bwmarrin/snowflake"

	authdomain "github.com/delivize/delivize/internal/auth/domain"
	billingdomain "github.com/delivize/delivize/internal/billing/domain"
	categorydomain "github.com/delivize/delivize/internal/category/domain"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	hoursdomain "github.com/delivize/delivize/internal/operatinghours/domain"
	signupdomain "github.com/delivize/delivize/internal/signup/domain"
)

type fakeAuthService struct {
	authdomain.Service

	session         *authdomain.Session
	authenticateErr error
	loginResult     *authdomain.LoginResult
	loginErr        error
	logoutCalls     int
}

func (f *fakeAuthService) Authenticate(ctx context.Context, rawToken string) (*authdomain.Session, error) {
	_ = ctx
	_ = rawToken
	if f.authenticateErr != nil {
		return nil, f.authenticateErr
	}
	return f.session, nil
}

func (f *fakeAuthService) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	_ = ctx
	_ = req
	return f.loginResult, f.loginErr
}

func (f *fakeAuthService) Logout(ctx context.Context, rawToken string) error {
	_ = ctx
	_ = rawToken
	f.logoutCalls++
	return nil
}

type fakeMenuService struct {
	menudomain.Service

	menu *menudomain.Menu
	err  error
}

func (f *fakeMenuService) GetByOwner(ctx context.Context, ownerID snowflake.ID) (*menudomain.Menu, error) {
	_ = ctx
	_ = ownerID
	return f.menu, f.err
}

type fakeResolver struct {
	menus       map[string]*menudomain.Menu
	invalidated []string
}

func (f *fakeResolver) BySubdomain(ctx context.Context, sub string) (*menudomain.Menu, error) {
	_ = ctx
	if m, ok := f.menus["sub:"+sub]; ok {
		return m, nil
	}
	return nil, menudomain.ErrMenuNotFound
}

func (f *fakeResolver) ByCustomDomain(ctx context.Context, host string) (*menudomain.Menu, error) {
	_ = ctx
	if m, ok := f.menus["host:"+host]; ok {
		return m, nil
	}
	return nil, menudomain.ErrMenuNotFound
}

func (f *fakeResolver) Invalidate(ctx context.Context, menu *menudomain.Menu) {
	_ = ctx
	f.invalidated = append(f.invalidated, menu.Subdomain)
}

type fakeCategoryService struct {
	categorydomain.Service

	tree []categorydomain.CategoryWithItems
}

func (f *fakeCategoryService) ListForMenu(ctx context.Context, menuID snowflake.ID) ([]categorydomain.CategoryWithItems, error) {
	_ = ctx
	_ = menuID
	return f.tree, nil
}

type fakeHoursService struct {
	hoursdomain.Service

	open    bool
	openErr error
}

func (f *fakeHoursService) IsOpenNow(ctx context.Context, menuID snowflake.ID) (bool, error) {
	_ = ctx
	_ = menuID
	return f.open, f.openErr
}

type fakeSignupService struct {
	result *signupdomain.Result
	err    error
	called int
}

func (f *fakeSignupService) Signup(ctx context.Context, req signupdomain.Request) (*signupdomain.Result, error) {
	_ = ctx
	_ = req
	f.called++
	return f.result, f.err
}

type fakeBillingService struct {
	billingdomain.Service

	entitlement *billingdomain.Entitlement
	verifyErr   error
	webhookErr  error
	webhookN    int
}

func (f *fakeBillingService) VerifyWebhook(payload []byte, signatureHeader string) error {
	_ = payload
	_ = signatureHeader
	return f.verifyErr
}

func (f *fakeBillingService) Entitlement(ctx context.Context, userID snowflake.ID) (*billingdomain.Entitlement, error) {
	_ = ctx
	_ = userID
	return f.entitlement, nil
}

func (f *fakeBillingService) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	_ = ctx
	_ = payload
	_ = signatureHeader
	f.webhookN++
	return f.webhookErr
}

type fakeLimiter struct {
	allow    bool
	claimed  map[string]bool
	released []string
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{allow: true, claimed: map[string]bool{}}
}

func (f *fakeLimiter) AllowSignup(ctx context.Context, ip string) bool {
	_ = ctx
	_ = ip
	return f.allow
}

func (f *fakeLimiter) ClaimWebhookEvent(ctx context.Context, eventID string) (string, bool) {
	_ = ctx
	if f.claimed[eventID] {
		return "", false
	}
	f.claimed[eventID] = true
	return "token-" + eventID, true
}

func (f *fakeLimiter) ReleaseWebhookEvent(ctx context.Context, eventID, token string) {
	_ = ctx
	_ = token
	delete(f.claimed, eventID)
	f.released = append(f.released, eventID)
}

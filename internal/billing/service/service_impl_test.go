package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/billing/domain"
	"github.com/delivize/delivize/internal/billing/repository"
	"github.com/delivize/delivize/internal/clock"
	"github.com/delivize/delivize/internal/config"
)

const testWebhookSecret = "whsec_test"

func newTestService(t *testing.T, at time.Time) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Profile{}))

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	clk := clock.NewFakeClock(at)
	plans := config.NewStaticPlanHolder(config.PlanConfig{
		TrialDays:        7,
		GraceDays:        3,
		MonthlyPriceText: "R$ 29,90/mês",
	})

	cfg := config.Config{}
	cfg.Stripe.SecretKey = "sk_test"
	cfg.Stripe.WebhookSecret = testWebhookSecret
	cfg.Stripe.PriceID = "price_test"

	return New(repository.New(conn), plans, clk, node, cfg, zap.NewNop()), clk
}

func TestEnsureProfileIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	userID := snowflake.ID(10)

	first, err := svc.EnsureProfile(ctx, userID)
	require.NoError(t, err)
	second, err := svc.EnsureProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestEntitlementLifecycle(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, clk := newTestService(t, start)
	ctx := context.Background()
	userID := snowflake.ID(11)

	entitlement, err := svc.Entitlement(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.EntitlementTrialing, entitlement.Status)
	require.Equal(t, 10, entitlement.TrialDaysLeft) // 7 trial + 3 grace
	require.Equal(t, "R$ 29,90/mês", entitlement.PriceText)

	clk.Advance(9*24*time.Hour + 12*time.Hour)
	entitlement, err = svc.Entitlement(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.EntitlementTrialing, entitlement.Status)
	require.Equal(t, 1, entitlement.TrialDaysLeft)

	clk.Advance(24 * time.Hour)
	entitlement, err = svc.Entitlement(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.EntitlementExpired, entitlement.Status)
	require.Zero(t, entitlement.TrialDaysLeft)
}

func webhookPayload(eventType, userID, customer, subscription string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test",
		"type": %q,
		"data": {"object": {
			"id": "obj_test",
			"customer": %q,
			"subscription": %q,
			"metadata": {"userId": %q}
		}}
	}`, eventType, customer, subscription, userID))
}

func TestHandleWebhookActivatesSubscription(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()
	userID := snowflake.ID(12)

	payload := webhookPayload("checkout.session.completed", userID.String(), "cus_1", "sub_1")
	header := signPayload(t, payload, testWebhookSecret, now)
	require.NoError(t, svc.HandleWebhook(ctx, payload, header))

	entitlement, err := svc.Entitlement(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.EntitlementPremium, entitlement.Status)
}

func TestHandleWebhookCancellation(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, clk := newTestService(t, now)
	ctx := context.Background()
	userID := snowflake.ID(13)

	payload := webhookPayload("checkout.session.completed", userID.String(), "cus_2", "sub_2")
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(t, payload, testWebhookSecret, now)))

	// Cancellation events carry the subscription as the object ID and no
	// user metadata.
	cancel := []byte(`{
		"id": "evt_cancel",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": "sub_2", "customer": "cus_2"}}
	}`)
	clk.Advance(30 * 24 * time.Hour)
	require.NoError(t, svc.HandleWebhook(ctx, cancel, signPayload(t, cancel, testWebhookSecret, clk.Now())))

	entitlement, err := svc.Entitlement(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, domain.EntitlementExpired, entitlement.Status)
}

func TestHandleWebhookPaymentFailureDowngrades(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, now)
	ctx := context.Background()
	userID := snowflake.ID(14)

	payload := webhookPayload("checkout.session.completed", userID.String(), "cus_3", "sub_3")
	require.NoError(t, svc.HandleWebhook(ctx, payload, signPayload(t, payload, testWebhookSecret, now)))

	failed := []byte(`{
		"id": "evt_fail",
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "in_1", "customer": "cus_3", "subscription": "sub_3"}}
	}`)
	require.NoError(t, svc.HandleWebhook(ctx, failed, signPayload(t, failed, testWebhookSecret, now)))

	profile, err := svc.EnsureProfile(ctx, userID)
	require.NoError(t, err)
	require.False(t, profile.IsPremium)
}

func TestHandleWebhookIgnoresUnknownEvents(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)

	payload := []byte(`{"id": "evt_x", "type": "customer.updated", "data": {"object": {}}}`)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload, signPayload(t, payload, testWebhookSecret, now)))
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	now := time.Now()
	svc, _ := newTestService(t, now)

	payload := webhookPayload("checkout.session.completed", "1", "cus", "sub")
	err := svc.HandleWebhook(context.Background(), payload, signPayload(t, payload, "whsec_wrong", now))
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestCreatePortalSessionRequiresSubscription(t *testing.T) {
	svc, _ := newTestService(t, time.Now())
	ctx := context.Background()
	userID := snowflake.ID(15)

	_, err := svc.EnsureProfile(ctx, userID)
	require.NoError(t, err)

	_, err = svc.CreatePortalSession(ctx, userID, "https://delivize.com/account")
	require.ErrorIs(t, err, domain.ErrNotSubscribed)
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	dbpkg "github.com/delivize/delivize/pkg/db"

	"github.com/delivize/delivize/internal/billing/domain"
	"github.com/delivize/delivize/internal/clock"
	"github.com/delivize/delivize/internal/config"
)

type service struct {
	repo          domain.Repository
	stripe        *stripeClient
	plans         *config.PlanHolder
	clock         clock.Clock
	node          *snowflake.Node
	priceID       string
	webhookSecret string
	log           *zap.Logger
}

func New(repo domain.Repository, plans *config.PlanHolder, clk clock.Clock, node *snowflake.Node, cfg config.Config, log *zap.Logger) domain.Service {
	return &service{
		repo:          repo,
		stripe:        newStripeClient(cfg.Stripe.SecretKey),
		plans:         plans,
		clock:         clk,
		node:          node,
		priceID:       cfg.Stripe.PriceID,
		webhookSecret: cfg.Stripe.WebhookSecret,
		log:           log,
	}
}

func (s *service) EnsureProfile(ctx context.Context, userID snowflake.ID) (*domain.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if err != domain.ErrProfileNotFound {
		return nil, err
	}

	profile = &domain.Profile{
		ID:             s.node.Generate(),
		UserID:         userID,
		TrialStartedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		// A concurrent request may have created it first.
		if dbpkg.IsDuplicateKeyErr(err) {
			return s.repo.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return profile, nil
}

func (s *service) Entitlement(ctx context.Context, userID snowflake.ID) (*domain.Entitlement, error) {
	profile, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := s.plans.Get()
	entitlement := &domain.Entitlement{PriceText: plan.MonthlyPriceText}

	if profile.IsPremium {
		entitlement.Status = domain.EntitlementPremium
		return entitlement, nil
	}

	trialEnds := profile.TrialStartedAt.AddDate(0, 0, plan.TrialDays+plan.GraceDays)
	now := s.clock.Now()
	if now.Before(trialEnds) {
		remaining := trialEnds.Sub(now)
		entitlement.Status = domain.EntitlementTrialing
		entitlement.TrialDaysLeft = int((remaining + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
		return entitlement, nil
	}

	entitlement.Status = domain.EntitlementExpired
	return entitlement, nil
}

func (s *service) CreateCheckoutSession(ctx context.Context, userID snowflake.ID, successURL, cancelURL string) (string, error) {
	if s.priceID == "" {
		return "", domain.ErrInvalidConfig
	}
	profile, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return "", err
	}

	customerID := ""
	if profile.StripeCustomerID != nil {
		customerID = *profile.StripeCustomerID
	}
	session, err := s.stripe.createCheckoutSession(ctx, userID.String(), customerID, s.priceID, successURL, cancelURL)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (s *service) CreatePortalSession(ctx context.Context, userID snowflake.ID, returnURL string) (string, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		return "", domain.ErrNotSubscribed
	}

	session, err := s.stripe.createPortalSession(ctx, *profile.StripeCustomerID, returnURL)
	if err != nil {
		return "", err
	}
	return session.URL, nil
}

func (s *service) VerifyWebhook(payload []byte, signatureHeader string) error {
	if s.webhookSecret == "" {
		return domain.ErrInvalidConfig
	}
	return verifySignature(payload, signatureHeader, s.webhookSecret, s.clock.Now())
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error {
	if err := s.VerifyWebhook(payload, signatureHeader); err != nil {
		return err
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return domain.ErrMalformedEvent
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.applyCheckoutCompleted(ctx, event)
	case "customer.subscription.deleted":
		return s.applySubscriptionDeleted(ctx, event)
	case "invoice.payment_succeeded":
		return s.applyPaymentResult(ctx, event, true)
	case "invoice.payment_failed":
		return s.applyPaymentResult(ctx, event, false)
	default:
		s.log.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}
}

func (s *service) applyCheckoutCompleted(ctx context.Context, event webhookEvent) error {
	object := event.Data.Object
	rawUserID, ok := object.Metadata["userId"]
	if !ok {
		return domain.ErrMalformedEvent
	}
	userID, err := snowflake.ParseString(rawUserID)
	if err != nil {
		return domain.ErrMalformedEvent
	}

	profile, err := s.EnsureProfile(ctx, userID)
	if err != nil {
		return err
	}

	fields := map[string]any{"is_premium": true}
	if object.Customer != "" {
		fields["stripe_customer_id"] = object.Customer
	}
	if object.Subscription != "" {
		fields["subscription_id"] = object.Subscription
	}
	if err := s.repo.UpdateFields(ctx, profile.ID, fields); err != nil {
		return err
	}
	s.log.Info("subscription activated",
		zap.String("user_id", userID.String()),
		zap.String("subscription_id", object.Subscription),
	)
	return nil
}

func (s *service) applySubscriptionDeleted(ctx context.Context, event webhookEvent) error {
	profile, err := s.profileForEvent(ctx, event)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateFields(ctx, profile.ID, map[string]any{
		"is_premium":      false,
		"subscription_id": nil,
	}); err != nil {
		return err
	}
	s.log.Info("subscription cancelled", zap.String("user_id", profile.UserID.String()))
	return nil
}

func (s *service) applyPaymentResult(ctx context.Context, event webhookEvent, succeeded bool) error {
	profile, err := s.profileForEvent(ctx, event)
	if err != nil {
		if err == domain.ErrProfileNotFound {
			// Invoices for subscriptions we never recorded are not an error.
			s.log.Warn("payment event for unknown subscription", zap.String("event_id", event.ID))
			return nil
		}
		return err
	}
	return s.repo.UpdateFields(ctx, profile.ID, map[string]any{"is_premium": succeeded})
}

// profileForEvent resolves the profile from the event's subscription metadata
// or, failing that, its subscription ID.
func (s *service) profileForEvent(ctx context.Context, event webhookEvent) (*domain.Profile, error) {
	object := event.Data.Object
	if rawUserID, ok := object.Metadata["userId"]; ok {
		if userID, err := snowflake.ParseString(rawUserID); err == nil {
			return s.repo.GetByUserID(ctx, userID)
		}
	}

	subscriptionID := object.Subscription
	if subscriptionID == "" && event.Type == "customer.subscription.deleted" {
		subscriptionID = object.ID
	}
	if subscriptionID == "" {
		return nil, domain.ErrMalformedEvent
	}
	return s.repo.GetBySubscriptionID(ctx, subscriptionID)
}

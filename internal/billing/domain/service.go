package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// EnsureProfile returns the user's profile, creating it with the trial
	// anchored at now on first call.
	EnsureProfile(ctx context.Context, userID snowflake.ID) (*Profile, error)
	Entitlement(ctx context.Context, userID snowflake.ID) (*Entitlement, error)

	// CreateCheckoutSession starts a subscription checkout and returns the
	// hosted page URL.
	CreateCheckoutSession(ctx context.Context, userID snowflake.ID, successURL, cancelURL string) (string, error)
	// CreatePortalSession opens the billing portal for a subscribed user.
	CreatePortalSession(ctx context.Context, userID snowflake.ID, returnURL string) (string, error)

	// VerifyWebhook checks the signature header against the raw payload
	// without applying anything.
	VerifyWebhook(payload []byte, signatureHeader string) error
	// HandleWebhook verifies the signature header and applies the event.
	HandleWebhook(ctx context.Context, payload []byte, signatureHeader string) error
}

type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByUserID(ctx context.Context, userID snowflake.ID) (*Profile, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*Profile, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
}

var (
	ErrProfileNotFound   = errors.New("profile_not_found")
	ErrNotSubscribed     = errors.New("not_subscribed")
	ErrInvalidConfig     = errors.New("billing_not_configured")
	ErrInvalidSignature  = errors.New("invalid_webhook_signature")
	ErrStaleTimestamp    = errors.New("stale_webhook_timestamp")
	ErrMalformedEvent    = errors.New("malformed_webhook_event")
)

package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile tracks one user's subscription state. TrialStartedAt anchors the
// trial window; the premium flag flips on webhook events.
type Profile struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID           snowflake.ID `json:"user_id" gorm:"uniqueIndex:ux_profiles_user;not null"`
	IsPremium        bool         `json:"is_premium" gorm:"not null;default:false"`
	StripeCustomerID *string      `json:"-" gorm:"index"`
	SubscriptionID   *string      `json:"-" gorm:"index"`
	TrialStartedAt   time.Time    `json:"trial_started_at" gorm:"not null"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// EntitlementStatus is computed server-side per request, never persisted.
type EntitlementStatus string

const (
	EntitlementPremium  EntitlementStatus = "premium"
	EntitlementTrialing EntitlementStatus = "trialing"
	EntitlementExpired  EntitlementStatus = "expired"
)

type Entitlement struct {
	Status        EntitlementStatus `json:"status"`
	TrialDaysLeft int               `json:"trial_days_left"`
	PriceText     string            `json:"price_text"`
}

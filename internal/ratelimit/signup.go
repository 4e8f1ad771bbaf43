package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keySignupIP       = "signup:ip:%s"
	keyWebhookDedupe  = "billing:webhook:%s"
	webhookDedupeTTL  = 24 * time.Hour
	defaultSignupRate = 0.2 // one signup every five seconds per IP
	defaultSignupBurst = 5
)

// SignupLimiter throttles signup attempts per client IP and deduplicates
// billing webhook deliveries. Without Redis it allows everything.
type SignupLimiter struct {
	bucket *TokenBucket
	locker *Locker
	log    *zap.Logger
}

func NewSignupLimiter(client *redis.Client, log *zap.Logger) *SignupLimiter {
	if client == nil {
		return &SignupLimiter{log: log}
	}
	return &SignupLimiter{
		bucket: NewTokenBucket(client),
		locker: NewLocker(client),
		log:    log,
	}
}

// AllowSignup reports whether this IP may attempt another signup. Limiter
// failures fail open; losing a signup over a Redis hiccup is worse than
// letting one through.
func (l *SignupLimiter) AllowSignup(ctx context.Context, ip string) bool {
	if l.bucket == nil || ip == "" {
		return true
	}
	result, err := l.bucket.Allow(ctx, fmt.Sprintf(keySignupIP, ip), defaultSignupRate, defaultSignupBurst)
	if err != nil {
		l.log.Warn("signup rate limiter unavailable", zap.Error(err))
		return true
	}
	return result.Allowed
}

// ClaimWebhookEvent reports false when the event ID was already claimed by
// this or another instance. A successful claim returns the token needed to
// release it.
func (l *SignupLimiter) ClaimWebhookEvent(ctx context.Context, eventID string) (string, bool) {
	if l.locker == nil || eventID == "" {
		return "", true
	}
	token, ok, err := l.locker.TryLock(ctx, fmt.Sprintf(keyWebhookDedupe, eventID), webhookDedupeTTL)
	if err != nil {
		l.log.Warn("webhook dedupe unavailable", zap.Error(err))
		return "", true
	}
	return token, ok
}

// ReleaseWebhookEvent drops a claim so the provider's retry can reprocess the
// event after a failed apply.
func (l *SignupLimiter) ReleaseWebhookEvent(ctx context.Context, eventID, token string) {
	if l.locker == nil || eventID == "" || token == "" {
		return
	}
	if err := l.locker.Release(ctx, fmt.Sprintf(keyWebhookDedupe, eventID), token); err != nil {
		l.log.Warn("webhook claim release failed", zap.Error(err))
	}
}

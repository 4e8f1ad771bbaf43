package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Signup(ctx context.Context, req Request) (*Result, error)
}

type Request struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UserAgent    string `json:"-"`
	IPAddress    string `json:"-"`
}

// Result carries everything the handler needs: the session cookie material and
// the management page the new tenant lands on.
type Result struct {
	UserID     snowflake.ID
	MenuID     snowflake.ID
	Subdomain  string
	RawToken   string
	ExpiresAt  time.Time
	RedirectTo string
}

type Provisioner interface {
	Provision(ctx context.Context, menuID snowflake.ID) error
}

var ErrInvalidRequest = errors.New("invalid_signup_request")

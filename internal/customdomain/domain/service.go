package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"

	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

// Service attaches and detaches custom domains: the hosting provider learns
// about the domain first, then the menu row records it.
type Service interface {
	Attach(ctx context.Context, ownerID, menuID snowflake.ID, host string) (*menudomain.Menu, error)
	Detach(ctx context.Context, ownerID, menuID snowflake.ID) (*menudomain.Menu, error)
}

// Provisioner registers domains with the hosting platform so its edge starts
// routing them to the deployment.
type Provisioner interface {
	AddDomain(ctx context.Context, host string) error
	RemoveDomain(ctx context.Context, host string) error
}

var ErrProvisioningFailed = errors.New("domain_provisioning_failed")

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/delivize/delivize/internal/customdomain/domain"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

type service struct {
	menus       menudomain.Service
	provisioner domain.Provisioner
	log         *zap.Logger
}

func New(menus menudomain.Service, provisioner domain.Provisioner, log *zap.Logger) domain.Service {
	return &service{menus: menus, provisioner: provisioner, log: log}
}

func (s *service) Attach(ctx context.Context, ownerID, menuID snowflake.ID, host string) (*menudomain.Menu, error) {
	host = strings.ToLower(strings.TrimSpace(host))

	if err := s.provisioner.AddDomain(ctx, host); err != nil {
		return nil, err
	}

	menu, err := s.menus.AttachCustomDomain(ctx, ownerID, menuID, host)
	if err != nil {
		// Roll the edge registration back so the domain is not left dangling.
		if removeErr := s.provisioner.RemoveDomain(ctx, host); removeErr != nil {
			s.log.Warn("domain rollback failed", zap.String("host", host), zap.Error(removeErr))
		}
		return nil, err
	}
	return menu, nil
}

func (s *service) Detach(ctx context.Context, ownerID, menuID snowflake.ID) (*menudomain.Menu, error) {
	current, err := s.menus.GetByID(ctx, menuID)
	if err != nil {
		return nil, err
	}
	host := ""
	if current.CustomDomain != nil {
		host = *current.CustomDomain
	}

	menu, err := s.menus.DetachCustomDomain(ctx, ownerID, menuID)
	if err != nil {
		return nil, err
	}

	if host != "" {
		if err := s.provisioner.RemoveDomain(ctx, host); err != nil {
			s.log.Warn("domain removal failed", zap.String("host", host), zap.Error(err))
		}
	}
	return menu, nil
}

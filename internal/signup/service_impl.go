package signup

import (
	"context"
	"strings"

	authdomain "github.com/delivize/delivize/internal/auth/domain"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/signup/domain"
)

type service struct {
	authsvc     authdomain.Service
	menusvc     menudomain.Service
	provisioner domain.Provisioner
}

func NewService(authsvc authdomain.Service, menusvc menudomain.Service, provisioner domain.Provisioner) domain.Service {
	return &service{
		authsvc:     authsvc,
		menusvc:     menusvc,
		provisioner: provisioner,
	}
}

func (s *service) Signup(ctx context.Context, req domain.Request) (*domain.Result, error) {
	businessName := strings.TrimSpace(req.BusinessName)
	if businessName == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, domain.ErrInvalidRequest
	}

	user, err := s.authsvc.CreateUser(ctx, authdomain.CreateUserRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	menu, err := s.menusvc.Create(ctx, user.ID, menudomain.CreateMenuRequest{
		Name: businessName,
	})
	if err != nil {
		return nil, err
	}

	// Delegate provisioning to a dedicated service.
	if err := s.provisioner.Provision(ctx, menu.ID); err != nil {
		return nil, err
	}

	session, err := s.authsvc.Login(ctx, authdomain.LoginRequest{
		Email:     req.Email,
		Password:  req.Password,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
	})
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		UserID:     user.ID,
		MenuID:     menu.ID,
		Subdomain:  menu.Subdomain,
		RawToken:   session.RawToken,
		ExpiresAt:  session.ExpiresAt,
		RedirectTo: "/manage/" + menu.Subdomain,
	}, nil
}

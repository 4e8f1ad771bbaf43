package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/delivize/delivize/internal/auth"
	authdomain "github.com/delivize/delivize/internal/auth/domain"
	"github.com/delivize/delivize/internal/auth/session"
	"github.com/delivize/delivize/internal/billing"
	billingdomain "github.com/delivize/delivize/internal/billing/domain"
	"github.com/delivize/delivize/internal/cache"
	"github.com/delivize/delivize/internal/category"
	categorydomain "github.com/delivize/delivize/internal/category/domain"
	"github.com/delivize/delivize/internal/clock"
	"github.com/delivize/delivize/internal/config"
	"github.com/delivize/delivize/internal/customdomain"
	customdomaindomain "github.com/delivize/delivize/internal/customdomain/domain"
	"github.com/delivize/delivize/internal/menu"
	menudomain "github.com/delivize/delivize/internal/menu/domain"
	"github.com/delivize/delivize/internal/migration"
	"github.com/delivize/delivize/internal/observability"
	obsmiddleware "github.com/delivize/delivize/internal/observability/logger"
	obsmetrics "github.com/delivize/delivize/internal/observability/metrics"
	obstracing "github.com/delivize/delivize/internal/observability/tracing"
	"github.com/delivize/delivize/internal/operatinghours"
	hoursdomain "github.com/delivize/delivize/internal/operatinghours/domain"
	"github.com/delivize/delivize/internal/ratelimit"
	"github.com/delivize/delivize/internal/routing"
	"github.com/delivize/delivize/internal/signup"
	signupdomain "github.com/delivize/delivize/internal/signup/domain"
	"github.com/delivize/delivize/internal/upload"
	uploaddomain "github.com/delivize/delivize/internal/upload/domain"
)

var Module = fx.Module("server",
	fx.Provide(registerGin),
	observability.Module,
	clock.Module,
	migration.Module,
	cache.Module,
	ratelimit.Module,
	auth.Module,
	menu.Module,
	category.Module,
	operatinghours.Module,
	upload.Module,
	signup.Module,
	billing.Module,
	customdomain.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	rewriter := routing.NewRewriter(r, cfg.PrimaryDomain, cfg.PreviewDomainMarker)
	r.Use(rewriter.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// rateLimiter is the subset of ratelimit.SignupLimiter the handlers use;
// narrowed to an interface so handler tests can substitute it.
type rateLimiter interface {
	AllowSignup(ctx context.Context, ip string) bool
	ClaimWebhookEvent(ctx context.Context, eventID string) (string, bool)
	ReleaseWebhookEvent(ctx context.Context, eventID, token string)
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	log           *zap.Logger
	sessions      *session.Manager
	gate          *routing.Gate
	authsvc       authdomain.Service
	signupsvc     signupdomain.Service
	menusvc       menudomain.Service
	categorysvc   categorydomain.Service
	hourssvc      hoursdomain.Service
	uploadsvc     uploaddomain.Service
	billingsvc    billingdomain.Service
	domainsvc     customdomaindomain.Service
	resolver      cache.MenuResolver
	signupLimiter rateLimiter
	obsMetrics    *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	Log           *zap.Logger
	Sessions      *session.Manager
	Authsvc       authdomain.Service
	Signupsvc     signupdomain.Service
	Menusvc       menudomain.Service
	Categorysvc   categorydomain.Service
	Hourssvc      hoursdomain.Service
	Uploadsvc     uploaddomain.Service
	Billingsvc    billingdomain.Service
	Domainsvc     customdomaindomain.Service
	Resolver      cache.MenuResolver
	SignupLimiter *ratelimit.SignupLimiter
	ObsMetrics    *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		log:           p.Log,
		sessions:      p.Sessions,
		gate:          routing.NewGate(p.Cfg.LoginPath, nil),
		authsvc:       p.Authsvc,
		signupsvc:     p.Signupsvc,
		menusvc:       p.Menusvc,
		categorysvc:   p.Categorysvc,
		hourssvc:      p.Hourssvc,
		uploadsvc:     p.Uploadsvc,
		billingsvc:    p.Billingsvc,
		domainsvc:     p.Domainsvc,
		resolver:      p.Resolver,
		signupLimiter: p.SignupLimiter,
		obsMetrics:    p.ObsMetrics,
	}

	svc.engine.Use(svc.SessionGate())

	svc.registerAuthRoutes()
	svc.registerManageRoutes()
	svc.registerAccountRoutes()
	svc.registerBillingRoutes()
	svc.registerPublicRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	authGroup := s.engine.Group("/auth")

	authGroup.POST("/signup", s.Signup)
	authGroup.POST("/login", s.Login)
	authGroup.POST("/logout", s.Logout)
	authGroup.GET("/me", s.Me)
	authGroup.POST("/change-password", s.AuthRequired(), s.ChangePassword)
	authGroup.POST("/change-email", s.AuthRequired(), s.ChangeEmail)
}

func (s *Server) registerManageRoutes() {
	manage := s.engine.Group("/manage", s.AuthRequired())

	manage.GET("/menu", s.GetManagedMenu)
	manage.PATCH("/menu", s.UpdateMenuSettings)

	manage.GET("/menu/hours", s.ListOperatingHours)
	manage.PUT("/menu/hours", s.ReplaceOperatingHours)

	manage.GET("/categories", s.ListCategories)
	manage.POST("/categories", s.CreateCategory)
	manage.PATCH("/categories/:id", s.UpdateCategory)
	manage.DELETE("/categories/:id", s.DeleteCategory)

	manage.POST("/categories/:id/items", s.CreateItem)
	manage.PATCH("/items/:id", s.UpdateItem)
	manage.DELETE("/items/:id", s.DeleteItem)

	manage.GET("/uploads", s.ListUploads)
	manage.POST("/uploads", s.StoreUpload)
	manage.DELETE("/uploads/:id", s.DeleteUpload)

	manage.POST("/menu/domain", s.AttachCustomDomain)
	manage.DELETE("/menu/domain", s.DetachCustomDomain)
}

func (s *Server) registerAccountRoutes() {
	account := s.engine.Group("/account", s.AuthRequired())

	account.GET("/billing", s.GetEntitlement)
}

func (s *Server) registerBillingRoutes() {
	api := s.engine.Group("/api/billing")

	api.POST("/checkout", s.AuthRequired(), s.CreateCheckoutSession)
	api.POST("/portal", s.AuthRequired(), s.CreatePortalSession)
	api.POST("/webhook", s.HandleBillingWebhook)
}

func (s *Server) registerPublicRoutes() {
	s.engine.GET("/custom/:host", s.PublicMenuByHost)
	s.engine.GET("/:subdomain", s.PublicMenuBySubdomain)
}

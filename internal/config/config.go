package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName          string
	AppVersion       string
	Environment      string
	ListenAddr       string
	AuthCookieSecure bool

	// PrimaryDomain is the platform's public apex domain (e.g. "delivize.com").
	// Requests to "{sub}.PrimaryDomain" are platform-subdomain tenants; anything
	// else is a custom domain. May be empty in dev; routing degrades to the
	// preview-marker checks only.
	PrimaryDomain string
	// PreviewDomainMarker matches preview deployments (substring of the Host
	// header) that must never be rewritten.
	PreviewDomainMarker string
	// LoginPath is where unauthenticated requests to protected prefixes land.
	LoginPath string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Redis RedisConfig

	Stripe  StripeConfig
	Hosting HostingConfig
	Uploads UploadConfig
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	// PriceID is the recurring price used for the premium subscription checkout.
	PriceID string
}

// HostingConfig configures the hosting provider's domains API used to attach
// custom domains to the deployment.
type HostingConfig struct {
	APIBaseURL string
	ProjectID  string
	AuthToken  string
}

type UploadConfig struct {
	Dir           string
	PublicBaseURL string
	MaxSizeBytes  int64
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")
	authCookieSecure := environment == "production"
	if !authCookieSecure {
		authCookieSecure = getenvBool("AUTH_COOKIE_SECURE", false)
	}

	return Config{
		AppName:          getenv("APP_SERVICE", "delivize"),
		AppVersion:       getenv("APP_VERSION", "0.1.0"),
		Environment:      environment,
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		AuthCookieSecure: authCookieSecure,

		PrimaryDomain:       normalizeDomain(getenv("PRIMARY_DOMAIN", "")),
		PreviewDomainMarker: strings.TrimSpace(getenv("PREVIEW_DOMAIN_MARKER", "vusercontent.net")),
		LoginPath:           getenv("LOGIN_PATH", "/acesso/login"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "delivize"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 20),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		Redis: RedisConfig{
			Enabled:  getenvBool("REDIS_ENABLED", false),
			Addr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
			Password: strings.TrimSpace(getenv("REDIS_PASSWORD", "")),
			DB:       getenvInt("REDIS_DB", 0),
		},

		Stripe: StripeConfig{
			SecretKey:     strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
			WebhookSecret: strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),
			PriceID:       strings.TrimSpace(getenv("STRIPE_SUBSCRIPTION_PRICE_ID", "")),
		},

		Hosting: HostingConfig{
			APIBaseURL: strings.TrimSpace(getenv("HOSTING_API_URL", "https://api.vercel.com")),
			ProjectID:  strings.TrimSpace(getenv("HOSTING_PROJECT_ID", "")),
			AuthToken:  strings.TrimSpace(getenv("HOSTING_AUTH_TOKEN", "")),
		},

		Uploads: UploadConfig{
			Dir:           getenv("UPLOAD_DIR", "./data/uploads"),
			PublicBaseURL: strings.TrimRight(getenv("UPLOAD_PUBLIC_BASE_URL", "/uploads"), "/"),
			MaxSizeBytes:  int64(getenvInt("UPLOAD_MAX_SIZE_BYTES", 5<<20)),
		},
	}
}

// normalizeDomain strips scheme and trailing slash so PRIMARY_DOMAIN may be
// configured either as a bare host or as a site URL.
func normalizeDomain(raw string) string {
	value := strings.TrimSpace(strings.ToLower(raw))
	value = strings.TrimPrefix(value, "https://")
	value = strings.TrimPrefix(value, "http://")
	return strings.TrimRight(value, "/")
}

// Module wires configuration for the application.
var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(NewPlanHolder),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

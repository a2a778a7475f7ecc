package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultAllowedOrigins are the storefront and admin hosts that may call the API
// from a browser when CORS_ALLOWED_ORIGINS is not set.
var DefaultAllowedOrigins = []string{
	"https://ecommerce-three-gray-53.vercel.app",
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"https://ecommerce-5dzc.onrender.com",
	"https://ecommerce-h792.vercel.app",
	"http://localhost:5174",
	"http://localhost:5173",
}

var defaultTrustedProxies = []string{"127.0.0.1", "::1", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}

type Cloudinary struct {
	URL       string
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type Config struct {
	Env      string
	LogLevel string

	Port           string
	GRPCHealthAddr string

	DatabaseURL string

	JWTSecret     string
	JWTTTL        time.Duration
	AdminEmail    string
	AdminPassword string

	AllowedOrigins  []string
	TrustedProxies  []string
	DeliveryFee     decimal.Decimal
	ShutdownTimeout time.Duration

	Cloudinary Cloudinary
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}

// Load reads .env (when present) and the process environment. A missing required
// variable is reported as an error so the caller can exit before binding.
func Load() (Config, error) {
	_ = godotenv.Load() // load .env if it exists

	cfg := Config{
		Env:            getenv("APP_ENV", "dev"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Port:           getenv("PORT", "4000"),
		GRPCHealthAddr: os.Getenv("GRPC_HEALTH_ADDR"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		AdminEmail:     os.Getenv("ADMIN_EMAIL"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins: getenvList("CORS_ALLOWED_ORIGINS", DefaultAllowedOrigins),
		TrustedProxies: getenvList("TRUSTED_PROXIES", defaultTrustedProxies),
		Cloudinary: Cloudinary{
			URL:       os.Getenv("CLOUDINARY_URL"),
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_SECRET_KEY"),
			Folder:    getenv("CLOUDINARY_FOLDER", "products"),
		},
	}

	var err error
	if cfg.JWTTTL, err = getenvDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DeliveryFee, err = decimal.NewFromString(getenv("DELIVERY_FEE", "10")); err != nil {
		return Config{}, fmt.Errorf("DELIVERY_FEE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Strs("cors_origins", cfg.AllowedOrigins).
		Str("grpc_health_addr", cfg.GRPCHealthAddr).
		Msg("config loaded")
	return cfg, nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	req := func(name, v string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	req("DATABASE_URL", c.DatabaseURL)
	req("JWT_SECRET", c.JWTSecret)
	req("ADMIN_EMAIL", c.AdminEmail)
	req("ADMIN_PASSWORD", c.AdminPassword)
	if c.Cloudinary.URL == "" {
		req("CLOUDINARY_CLOUD_NAME", c.Cloudinary.CloudName)
		req("CLOUDINARY_API_KEY", c.Cloudinary.APIKey)
		req("CLOUDINARY_SECRET_KEY", c.Cloudinary.APISecret)
	}
	if c.DeliveryFee.IsNegative() {
		errs = append(errs, errors.New("DELIVERY_FEE must not be negative"))
	}
	return errors.Join(errs...)
}

// Addr is the HTTP listen address.
func (c Config) Addr() string { return ":" + c.Port }

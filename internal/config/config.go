package config

import (
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	pkgconfig "github.com/Skotchmaster/marketplace/pkg/config"
)

const (
	SandboxSnapURL    = "https://app.sandbox.midtrans.com"
	ProductionSnapURL = "https://app.midtrans.com"
)

type Config struct {
	pkgconfig.Config

	// CommissionRate is the platform cut applied to every vendor order.
	CommissionRate decimal.Decimal
	// VendorCommissionPercent is stored on newly registered vendors.
	VendorCommissionPercent decimal.Decimal

	GatewayServerKey  string
	GatewaySnapURL    string
	GatewayProduction bool
	GatewayTimeout    time.Duration

	CheckoutLockTTL time.Duration

	SecureCookies bool
}

func Load() *Config {
	base := pkgconfig.Load()

	production := pkgconfig.EnvBoolDefault("PAYMENT_GATEWAY_PRODUCTION", false)
	snapURL := SandboxSnapURL
	if production {
		snapURL = ProductionSnapURL
	}

	cfg := &Config{
		Config:                  base,
		CommissionRate:          decimalEnv("COMMISSION_RATE", "0.10"),
		VendorCommissionPercent: decimalEnv("VENDOR_COMMISSION_PERCENT", "5.00"),
		GatewayServerKey:        os.Getenv("PAYMENT_GATEWAY_SERVER_KEY"),
		GatewaySnapURL:          pkgconfig.EnvDefault("PAYMENT_GATEWAY_SNAP_URL", snapURL),
		GatewayProduction:       production,
		GatewayTimeout:          pkgconfig.EnvDurationDefault("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
		CheckoutLockTTL:         pkgconfig.EnvDurationDefault("CHECKOUT_LOCK_TTL", 30*time.Second),
		SecureCookies:           pkgconfig.EnvBoolDefault("COOKIE_SECURE", false),
	}

	pkgconfig.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	pkgconfig.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	pkgconfig.MustNonEmpty(cfg.GatewayServerKey, "PAYMENT_GATEWAY_SERVER_KEY")
	pkgconfig.MustOneOf(cfg.DatabaseDriver, "DB_DRIVER", "postgres", "sqlite")

	return cfg
}

func decimalEnv(key, def string) decimal.Decimal {
	raw := pkgconfig.EnvDefault(key, def)
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		log.Fatalf("env %s=%q is not a non-negative decimal", key, raw)
	}
	return d
}

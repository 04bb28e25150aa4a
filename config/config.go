package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr string
	BaseURL    string
	MongoURI   string
	JWTSecret  string
	Stripe     StripeConfig
	Billing    BillingConfig
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type BillingConfig struct {
	BookingFeeCents int64
	FinalRateCents  int64
	MinChargeCents  int64
	Currency        string
}

// Load reads configuration from the environment. Connection string and JWT
// signing secret are mandatory, billing amounts fall back to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":80")
	v.SetDefault("BASE_URL", "http://localhost")
	v.SetDefault("BOOKING_FEE_CENTS", 5000)
	v.SetDefault("FINAL_RATE_CENTS", 20000)
	v.SetDefault("MIN_CHARGE_CENTS", 50)
	v.SetDefault("CURRENCY", "usd")

	cfg := &Config{
		ListenAddr: v.GetString("LISTEN_ADDR"),
		BaseURL:    v.GetString("BASE_URL"),
		MongoURI:   v.GetString("MONGODB_CONNSTRING"),
		JWTSecret:  v.GetString("SIGN"),
		Stripe: StripeConfig{
			SecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			WebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Billing: BillingConfig{
			BookingFeeCents: v.GetInt64("BOOKING_FEE_CENTS"),
			FinalRateCents:  v.GetInt64("FINAL_RATE_CENTS"),
			MinChargeCents:  v.GetInt64("MIN_CHARGE_CENTS"),
			Currency:        v.GetString("CURRENCY"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_CONNSTRING is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("SIGN is not set")
	}

	return cfg, nil
}

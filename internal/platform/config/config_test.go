package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Delivery.FeeCents != 500 {
		t.Errorf("Delivery.FeeCents = %d, want 500", cfg.Delivery.FeeCents)
	}
	if !cfg.Delivery.PromoFree {
		t.Errorf("Delivery.PromoFree = false, want true")
	}
	if cfg.OrderCode.Prefix != "PJ-" || cfg.OrderCode.Digits != 6 || cfg.OrderCode.MaxAttempts != 10 {
		t.Errorf("OrderCode = %+v, want prefix PJ-, 6 digits, 10 attempts", cfg.OrderCode)
	}
	if cfg.WhatsApp.Number != "5569993471428" {
		t.Errorf("WhatsApp.Number = %q, want default", cfg.WhatsApp.Number)
	}
	if cfg.RateLimits.OrdersPerMinute != 20 {
		t.Errorf("RateLimits.OrdersPerMinute = %d, want 20", cfg.RateLimits.OrdersPerMinute)
	}
	if cfg.Security.AllowedOrigins != nil {
		t.Errorf("Security.AllowedOrigins = %v, want nil", cfg.Security.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_FIRESTORE_PROJECT_ID":     "cakes-prod",
		"API_DELIVERY_FEE_CENTS":       "750",
		"API_DELIVERY_PROMO_FREE":      "false",
		"API_ORDER_CODE_PREFIX":        "CX-",
		"API_ORDER_CODE_DIGITS":        "8",
		"API_WHATSAPP_NUMBER":          "+55 (69) 99999-0000",
		"API_RATELIMIT_ORDERS_PER_MIN": "5",
		"API_ALLOWED_ORIGINS":          "https://cakes.example, https://staging.cakes.example",
		"API_PUBSUB_ORDERS_TOPIC":      "order-created",
	}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Delivery.FeeCents != 750 || cfg.Delivery.PromoFree {
		t.Errorf("Delivery = %+v, want fee 750, promo off", cfg.Delivery)
	}
	if cfg.OrderCode.Prefix != "CX-" || cfg.OrderCode.Digits != 8 {
		t.Errorf("OrderCode = %+v, want CX- with 8 digits", cfg.OrderCode)
	}
	if cfg.WhatsApp.Number != "5569999990000" {
		t.Errorf("WhatsApp.Number = %q, want digits only", cfg.WhatsApp.Number)
	}
	if len(cfg.Security.AllowedOrigins) != 2 || cfg.Security.AllowedOrigins[0] != "https://cakes.example" {
		t.Errorf("Security.AllowedOrigins = %v", cfg.Security.AllowedOrigins)
	}
	if cfg.PubSub.Topic != "order-created" {
		t.Errorf("PubSub.Topic = %q, want order-created", cfg.PubSub.Topic)
	}
	if cfg.PubSub.ProjectID != "cakes-prod" {
		t.Errorf("PubSub.ProjectID = %q, want to inherit firestore project", cfg.PubSub.ProjectID)
	}
}

func TestLoadMalformedValuesFallBack(t *testing.T) {
	cfg, err := Load(WithoutSystemEnv(), WithEnvFile(""), WithEnvMap(map[string]string{
		"API_DELIVERY_FEE_CENTS":      "cinco reais",
		"API_DELIVERY_PROMO_FREE":     "maybe",
		"API_ORDER_CODE_DIGITS":       "-3",
		"API_ORDER_CODE_MAX_ATTEMPTS": "0",
	}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Delivery.FeeCents != 500 {
		t.Errorf("Delivery.FeeCents = %d, want default 500", cfg.Delivery.FeeCents)
	}
	if !cfg.Delivery.PromoFree {
		t.Errorf("Delivery.PromoFree = false, want default true")
	}
	if cfg.OrderCode.Digits != 6 {
		t.Errorf("OrderCode.Digits = %d, want default 6", cfg.OrderCode.Digits)
	}
	if cfg.OrderCode.MaxAttempts != 10 {
		t.Errorf("OrderCode.MaxAttempts = %d, want default 10", cfg.OrderCode.MaxAttempts)
	}
}

func TestFeePolicyUsesLoadedValues(t *testing.T) {
	policy := DeliveryConfig{FeeCents: 900, PromoFree: false}.FeePolicy()
	quote := policy()
	if quote.FeeCents != 900 {
		t.Errorf("FeeCents = %d, want 900", quote.FeeCents)
	}
	if quote.Waived {
		t.Errorf("Waived = true, want false")
	}
}

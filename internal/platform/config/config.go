package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/premiun-cakes/api/internal/domain"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second

	defaultDeliveryFeeCents = 500
	defaultPromoFree        = true

	defaultOrderCodePrefix      = "PJ-"
	defaultOrderCodeDigits      = 6
	defaultOrderCodeMaxAttempts = 10

	defaultWhatsAppNumber = "5569993471428"
	defaultPickupAddress  = "Santa Luzia, Av. Miguel Hatzinakis, 2384"

	defaultOrdersPerMinute = 20

	envDeliveryFee = "API_DELIVERY_FEE_CENTS"
	envPromoFree   = "API_DELIVERY_PROMO_FREE"
)

// Config captures runtime configuration grouped by concern.
type Config struct {
	Server     ServerConfig
	Firestore  FirestoreConfig
	Delivery   DeliveryConfig
	OrderCode  OrderCodeConfig
	WhatsApp   WhatsAppConfig
	RateLimits RateLimitConfig
	Security   SecurityConfig
	PubSub     PubSubConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// DeliveryConfig carries the flat delivery fee and the promotional waive
// flag, plus the fixed pickup location printed on summaries.
type DeliveryConfig struct {
	FeeCents      int64
	PromoFree     bool
	PickupAddress string
}

// OrderCodeConfig shapes the human-facing order codes.
type OrderCodeConfig struct {
	Prefix      string
	Digits      int
	MaxAttempts int
}

// WhatsAppConfig holds the outbound message destination.
type WhatsAppConfig struct {
	Number string
}

// RateLimitConfig controls order submission throttling.
type RateLimitConfig struct {
	OrdersPerMinute int
}

// SecurityConfig lists browser origins allowed to submit orders. Empty means
// origin enforcement is disabled.
type SecurityConfig struct {
	AllowedOrigins []string
}

// PubSubConfig names the optional order-created events topic.
type PubSubConfig struct {
	ProjectID string
	Topic     string
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvMap injects an explicit key/value map taking precedence over the
// system environment. Intended for tests.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) { o.envMap = values }
}

// WithoutSystemEnv disables os.LookupEnv, relying only on maps and .env.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystemEnv = false }
}

// Load assembles the configuration from defaults, .env overrides and
// environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnv, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnv[key]; ok {
			return value, true
		}
		return "", false
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         stringWithDefault(lookup, "API_SERVER_PORT", defaultPort),
			ReadTimeout:  durationWithDefault(lookup, "API_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: durationWithDefault(lookup, "API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  durationWithDefault(lookup, "API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    stringWithDefault(lookup, "API_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: stringWithDefault(lookup, "API_FIRESTORE_EMULATOR_HOST", ""),
		},
		Delivery: DeliveryConfig{
			FeeCents:      int64WithDefault(lookup, envDeliveryFee, defaultDeliveryFeeCents),
			PromoFree:     boolWithDefault(lookup, envPromoFree, defaultPromoFree),
			PickupAddress: stringWithDefault(lookup, "API_PICKUP_ADDRESS", defaultPickupAddress),
		},
		OrderCode: OrderCodeConfig{
			Prefix:      stringWithDefault(lookup, "API_ORDER_CODE_PREFIX", defaultOrderCodePrefix),
			Digits:      intWithDefault(lookup, "API_ORDER_CODE_DIGITS", defaultOrderCodeDigits),
			MaxAttempts: intWithDefault(lookup, "API_ORDER_CODE_MAX_ATTEMPTS", defaultOrderCodeMaxAttempts),
		},
		WhatsApp: WhatsAppConfig{
			Number: digitsOnly(stringWithDefault(lookup, "API_WHATSAPP_NUMBER", defaultWhatsAppNumber)),
		},
		RateLimits: RateLimitConfig{
			OrdersPerMinute: intWithDefault(lookup, "API_RATELIMIT_ORDERS_PER_MIN", defaultOrdersPerMinute),
		},
		Security: SecurityConfig{
			AllowedOrigins: csvWithDefault(lookup, "API_ALLOWED_ORIGINS"),
		},
		PubSub: PubSubConfig{
			ProjectID: stringWithDefault(lookup, "API_PUBSUB_PROJECT_ID", ""),
			Topic:     stringWithDefault(lookup, "API_PUBSUB_ORDERS_TOPIC", ""),
		},
	}

	if cfg.WhatsApp.Number == "" {
		cfg.WhatsApp.Number = defaultWhatsAppNumber
	}
	if cfg.PubSub.ProjectID == "" {
		cfg.PubSub.ProjectID = cfg.Firestore.ProjectID
	}
	if cfg.OrderCode.Digits <= 0 {
		cfg.OrderCode.Digits = defaultOrderCodeDigits
	}
	if cfg.OrderCode.MaxAttempts <= 0 {
		cfg.OrderCode.MaxAttempts = defaultOrderCodeMaxAttempts
	}

	return cfg, nil
}

// FeePolicy returns a delivery fee policy that re-reads the environment on
// every quote, so fee or promo changes apply without a restart. The loaded
// values act as defaults when the variables are unset or malformed.
func (c DeliveryConfig) FeePolicy() domain.DeliveryFeePolicyFunc {
	return func() domain.DeliveryQuote {
		quote := domain.DeliveryQuote{FeeCents: c.FeeCents, Waived: c.PromoFree}
		if raw, ok := os.LookupEnv(envDeliveryFee); ok {
			if parsed, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && parsed >= 0 {
				quote.FeeCents = parsed
			}
		}
		if raw, ok := os.LookupEnv(envPromoFree); ok {
			if parsed, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(raw))); err == nil {
				quote.Waived = parsed
			}
		}
		return quote
	}
}

func loadDotEnv(path string) (map[string]string, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

type lookupFunc func(string) (string, bool)

func stringWithDefault(lookup lookupFunc, key, fallback string) string {
	if value, ok := lookup(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func intWithDefault(lookup lookupFunc, key string, fallback int) int {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return parsed
		}
	}
	return fallback
}

func int64WithDefault(lookup lookupFunc, key string, fallback int64) int64 {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup lookupFunc, key string, fallback bool) bool {
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(strings.ToLower(value))); err == nil {
			return parsed
		}
	}
	return fallback
}

func durationWithDefault(lookup lookupFunc, key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func csvWithDefault(lookup lookupFunc, key string) []string {
	value, ok := lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func digitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

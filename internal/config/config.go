package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あればPOSTGRES_*より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	GoEnv    string // dev/prod
	LogLevel string // debug/info/warn/error

	// ダッシュボード（ストアオーナー）用のIDプロバイダ設定
	AdminAuth IdentityConfig
	// ストアフロントの顧客用のIDプロバイダ設定
	CustomerAuth IdentityConfig

	Stripe   StripeConfig
	Razorpay RazorpayConfig

	// 未指定なら設定済みのゲートウェイ（stripe優先）
	DefaultPaymentProvider string

	FrontendURL      string   // ダッシュボードURL
	FrontendStoreURL string   // ストアフロントURL（Stripeのsuccess/cancel）
	CORSOrigins      []string // 未指定ならFRONTEND_URL/FRONTEND_STORE_URL、それも無ければOriginをそのまま返す

	RedisURL        string // webhookの重複排除（任意）
	WebhookDedupTTL time.Duration
}

// IDプロバイダ（Clerk）のトークン検証設定
type IdentityConfig struct {
	SecretKey    string // JWKS取得用
	JWTKey       string // PEM公開鍵（ネットワーク不要の検証）
	Issuer       string
	HS256Secret  string // 開発用
	JWKSURL      string
	JWKSCacheTTL time.Duration
}

// 何か一つでも検証手段があるか
func (c IdentityConfig) Enabled() bool {
	return c.SecretKey != "" || c.JWTKey != "" || c.HS256Secret != ""
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
}

func (c StripeConfig) Enabled() bool { return c.SecretKey != "" }

type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
}

func (c RazorpayConfig) Enabled() bool { return c.KeyID != "" && c.KeySecret != "" }

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		GoEnv:    getenv("GO_ENV", "dev"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		Stripe: StripeConfig{
			SecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
			WebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
			Currency:      strings.ToLower(getenv("STRIPE_CURRENCY", "usd")),
		},
		Razorpay: RazorpayConfig{
			KeyID:         os.Getenv("RAZORPAY_KEY_ID"),
			KeySecret:     os.Getenv("RAZORPAY_KEY_SECRET"),
			WebhookSecret: os.Getenv("RAZORPAY_WEBHOOK_SECRET"),
			Currency:      strings.ToUpper(getenv("RAZORPAY_CURRENCY", "INR")),
		},

		FrontendURL:      strings.TrimRight(os.Getenv("FRONTEND_URL"), "/"),
		FrontendStoreURL: strings.TrimRight(os.Getenv("FRONTEND_STORE_URL"), "/"),
		CORSOrigins:      splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),

		RedisURL: os.Getenv("REDIS_URL"),
	}

	if len(cfg.CORSOrigins) == 0 {
		for _, u := range []string{cfg.FrontendURL, cfg.FrontendStoreURL} {
			if u != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, u)
			}
		}
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.DatabaseURL == "" {
		if cfg.PostgresUser == "" {
			return Config{}, fmt.Errorf("POSTGRES_USER is required")
		}
		if cfg.PostgresPassword == "" {
			return Config{}, fmt.Errorf("POSTGRES_PASSWORD is required")
		}
		if cfg.PostgresDB == "" {
			return Config{}, fmt.Errorf("POSTGRES_DB is required")
		}
		if cfg.PostgresHost == "" {
			return Config{}, fmt.Errorf("POSTGRES_HOST is required")
		}
		pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
		if err != nil {
			return Config{}, err
		}
		cfg.PostgresPort = pgPort
	}

	jwksTTL, err := durationDefault("JWKS_CACHE_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}
	dedupTTL, err := durationDefault("WEBHOOK_DEDUP_TTL", 72*time.Hour)
	if err != nil {
		return Config{}, err
	}
	cfg.WebhookDedupTTL = dedupTTL

	cfg.AdminAuth = IdentityConfig{
		SecretKey:    os.Getenv("CLERK_SECRET_KEY"),
		JWTKey:       pemFromEnv(os.Getenv("CLERK_JWT_KEY")),
		Issuer:       resolveIssuer(os.Getenv("CLERK_ISSUER"), os.Getenv("NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY")),
		HS256Secret:  os.Getenv("AUTH_HS256_SECRET"),
		JWKSURL:      getenv("CLERK_JWKS_URL", "https://api.clerk.com/v1/jwks"),
		JWKSCacheTTL: jwksTTL,
	}

	//顧客用はCUSTOMER_CLERK_*、無ければ管理側の値
	cfg.CustomerAuth = IdentityConfig{
		SecretKey: firstNonEmpty(os.Getenv("CUSTOMER_CLERK_SECRET_KEY"), cfg.AdminAuth.SecretKey),
		JWTKey:    firstNonEmpty(pemFromEnv(os.Getenv("CUSTOMER_CLERK_JWT_KEY")), cfg.AdminAuth.JWTKey),
		Issuer: resolveIssuer(
			os.Getenv("CUSTOMER_CLERK_ISSUER"),
			firstNonEmpty(os.Getenv("CUSTOMER_CLERK_PUBLISHABLE_KEY"), os.Getenv("NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY")),
		),
		HS256Secret:  cfg.AdminAuth.HS256Secret,
		JWKSURL:      cfg.AdminAuth.JWKSURL,
		JWKSCacheTTL: jwksTTL,
	}

	if !cfg.AdminAuth.Enabled() {
		return Config{}, fmt.Errorf("CLERK_SECRET_KEY, CLERK_JWT_KEY or AUTH_HS256_SECRET is required")
	}

	provider := strings.ToLower(os.Getenv("DEFAULT_PAYMENT_PROVIDER"))
	switch provider {
	case "":
		if cfg.Stripe.Enabled() {
			provider = "stripe"
		} else if cfg.Razorpay.Enabled() {
			provider = "razorpay"
		}
	case "stripe":
		if !cfg.Stripe.Enabled() {
			return Config{}, fmt.Errorf("STRIPE_SECRET_KEY is required for DEFAULT_PAYMENT_PROVIDER=stripe")
		}
	case "razorpay":
		if !cfg.Razorpay.Enabled() {
			return Config{}, fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required for DEFAULT_PAYMENT_PROVIDER=razorpay")
		}
	default:
		return Config{}, fmt.Errorf("DEFAULT_PAYMENT_PROVIDER must be stripe or razorpay")
	}
	cfg.DefaultPaymentProvider = provider

	return cfg, nil
}

// ResolveIssuerはpublishable key（pk_<env>_<base64("host$")>）からissuerを組み立てる
func ResolveIssuer(publishableKey string) string {
	parts := strings.Split(publishableKey, "_")
	if len(parts) < 3 {
		return ""
	}
	b64 := strings.Join(parts[2:], "_")

	decoded, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		//パディング無しも許す
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(b64, "="))
		if err != nil {
			return ""
		}
	}
	host := strings.ReplaceAll(string(decoded), "$", "")
	if host == "" {
		return ""
	}
	return "https://" + host
}

func resolveIssuer(explicit string, publishableKey string) string {
	if explicit != "" {
		return explicit
	}
	return ResolveIssuer(publishableKey)
}

// .envで改行を\nと書いたPEMを戻す
func pemFromEnv(v string) string {
	return strings.ReplaceAll(v, `\n`, "\n")
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	out := []string{}
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimRight(strings.TrimSpace(s), "/")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"storeadmin/internal/config"

	"github.com/MicahParks/keyfunc"
)

// 知らないkidが来ても取り直しはこの間隔に1回まで
const jwksRefreshRateLimit = 5 * time.Minute

// Clerkの /v1/jwks はsecret keyのBearerが要る。
// 起動時に一度取得し、以降はTTLごとに裏で更新する
func newJWKS(cfg config.IdentityConfig, client *http.Client) (*keyfunc.JWKS, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	ttl := cfg.JWKSCacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	secretKey := cfg.SecretKey

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Client:            client,
		RefreshInterval:   ttl,
		RefreshRateLimit:  jwksRefreshRateLimit,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			slog.Warn("jwks refresh failed", slog.String("err", err.Error()))
		},
		RequestFactory: func(ctx context.Context, url string) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("Authorization", "Bearer "+secretKey)
			return req, nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	return jwks, nil
}

package identity

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storeadmin/internal/config"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoVerifier   = errors.New("no verification key configured")
)

// 検証済みトークンから取り出す値
type Claims struct {
	Subject string
	Issuer  string
	Email   string
}

// IDプロバイダ（Clerk）のセッショントークンを検証する
type Verifier struct {
	issuer string
	hs256  []byte
	pemKey *rsa.PublicKey
	jwks   *keyfunc.JWKS
}

// PEM公開鍵があればそれを使い、無ければsecret keyでJWKSを取りに行く（起動時に取得できなければエラー）。
// HS256のsecretは開発用。
func NewVerifier(cfg config.IdentityConfig, client *http.Client) (*Verifier, error) {
	v := &Verifier{issuer: cfg.Issuer}

	if cfg.HS256Secret != "" {
		v.hs256 = []byte(cfg.HS256Secret)
	}
	if strings.TrimSpace(cfg.JWTKey) != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.JWTKey))
		if err != nil {
			return nil, fmt.Errorf("parse jwt key: %w", err)
		}
		v.pemKey = key
	} else if cfg.SecretKey != "" {
		jwks, err := newJWKS(cfg, client)
		if err != nil {
			return nil, err
		}
		v.jwks = jwks
	}

	if v.hs256 == nil && v.pemKey == nil && v.jwks == nil {
		return nil, ErrNoVerifier
	}
	return v, nil
}

// JWKSの裏の更新を止める
func (v *Verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// Verifyは署名・有効期限・issuerを確認してsubを返す
func (v *Verifier) Verify(ctx context.Context, raw string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256", "HS256"}))

	token, err := parser.ParseWithClaims(raw, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
		return v.keyFor(t)
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	if v.issuer != "" && !mc.VerifyIssuer(v.issuer, true) {
		return Claims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}

	sub, _ := mc["sub"].(string)
	if sub == "" {
		return Claims{}, fmt.Errorf("%w: sub is missing", ErrInvalidToken)
	}
	iss, _ := mc["iss"].(string)
	email, _ := mc["email"].(string)

	return Claims{Subject: sub, Issuer: iss, Email: email}, nil
}

func (v *Verifier) keyFor(t *jwt.Token) (interface{}, error) {
	switch t.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if v.hs256 == nil {
			return nil, errors.New("HS256 is not enabled")
		}
		return v.hs256, nil
	case *jwt.SigningMethodRSA:
		if v.pemKey != nil {
			return v.pemKey, nil
		}
		if v.jwks == nil {
			return nil, errors.New("RS256 is not enabled")
		}
		return v.jwks.Keyfunc(t)
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
}

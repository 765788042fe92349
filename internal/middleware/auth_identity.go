package middleware

import (
	"context"
	"net/http"
	"strings"

	"storeadmin/internal/identity"

	"github.com/labstack/echo/v4"
)

const (
	CtxSubjectKey = "subject" // string（IDプロバイダのsub）
	CtxEmailKey   = "email"   // string
)

// *identity.Verifier を満たす
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (identity.Claims, error)
}

// bearerAuthのトークン検証ミドルウェア。
// required=falseならトークン無し/不正でも匿名で続行する
func AuthIdentity(v TokenVerifier, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				if required {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				return next(c)
			}

			claims, err := v.Verify(c.Request().Context(), rawToken)
			if err != nil {
				if required {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				return next(c)
			}

			//contextへ保存
			c.Set(CtxSubjectKey, claims.Subject)
			if claims.Email != "" {
				c.Set(CtxEmailKey, claims.Email)
			}

			return next(c)
		}
	}
}

// 匿名なら空文字
func SubjectFrom(c echo.Context) string {
	s, _ := c.Get(CtxSubjectKey).(string)
	return s
}

// Bearer形式か確認してtokenを抜く
func bearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return "", false
	}
	return raw, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

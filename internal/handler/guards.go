package handler

import "github.com/labstack/echo/v4"

// ルートに付ける認証ミドルウェア（server で組み立てる）
type Guards struct {
	Owner    []echo.MiddlewareFunc // ダッシュボード: AuthIdentity(required) + StoreOwnerGuard
	Admin    echo.MiddlewareFunc   // ダッシュボード: ストア未指定のルート
	Customer echo.MiddlewareFunc   // ストアフロント: 必須
	Optional echo.MiddlewareFunc   // ストアフロント: 任意（checkout）
}

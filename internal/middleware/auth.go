// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hitoshi/taskman/internal/auth"
	"github.com/hitoshi/taskman/internal/metrics"
	"github.com/hitoshi/taskman/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// claimsContextKey はリクエストコンテキストに認証済みクレームを格納するためのキー。
var claimsContextKey = contextKey("claims")

// userIDHolderKey はロギングミドルウェアが用意する書き込み先のキー。
// r.WithContextで派生したコンテキストは呼び出し元に伝播しないため、
// 認証後のユーザーIDは外側のミドルウェアが仕込んだホルダー経由で受け渡す。
var userIDHolderKey = contextKey("userIDHolder")

// TokenVerifier はトークンの検証に必要なインターフェース。
// auth.TokenManagerの部分集合として定義する。
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// NewAuthMiddleware はAuthorizationヘッダーのトークンを検証するミドルウェアを返す。
// ヘッダーの値をそのままトークンとして扱う（Bearerプレフィックスは付けない）。
// トークン未提示には401、検証失敗には403を返し、
// 検証済みクレームをリクエストコンテキストに注入する。
// collectorがnilでなければ認証失敗を理由付きでカウントする。
func NewAuthMiddleware(verifier TokenVerifier, collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				if collector != nil {
					collector.RecordAuthFailure("no_token")
				}
				writeAuthError(w, http.StatusUnauthorized, model.NewNoTokenError())
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				if collector != nil {
					collector.RecordAuthFailure("invalid_token")
				}
				writeAuthError(w, http.StatusForbidden, model.NewInvalidTokenError())
				return
			}

			// 外側のロギングミドルウェアが仕込んだホルダーにユーザーIDを書き戻す
			if holder, ok := r.Context().Value(userIDHolderKey).(*string); ok {
				*holder = claims.UserID
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext はリクエストコンテキストから認証済みクレームを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func ClaimsFromContext(ctx context.Context) (*auth.Claims, error) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return nil, fmt.Errorf("claims not found in context")
	}
	return claims, nil
}

// UserIDFromContext はリクエストコンテキストから認証済みユーザーIDを取得する。
func UserIDFromContext(ctx context.Context) (string, error) {
	claims, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ContextWithClaims はコンテキストにクレームを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// writeAuthError は認証エラーのJSONレスポンスを書き込む。
func writeAuthError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}

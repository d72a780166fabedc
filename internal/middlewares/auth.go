package middlewares

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetUserID(ctx context.Context, tokenString string) (int64, error)
}

// AuthMiddleware returns a middleware that requires a valid bearer token
// issued for the wallet owner named by the {userId} path parameter.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				apierr.Write(w, r, http.StatusUnauthorized, apierr.CodeUnauthorized, err.Error(), nil)
				return
			}

			userID, err := tokener.GetUserID(ctx, tokenString)
			if err != nil {
				logger.Log.Warnw("authorization failed", "err", err)
				apierr.Write(w, r, http.StatusUnauthorized, apierr.CodeUnauthorized, "invalid token", nil)
				return
			}

			if param := chi.URLParam(r, "userId"); param != "" && param != strconv.FormatInt(userID, 10) {
				logger.Log.Warnw("token issued for another user", "token_user_id", userID, "path_user_id", param)
				apierr.Write(w, r, http.StatusForbidden, apierr.CodeForbidden, "token does not grant access to this wallet", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

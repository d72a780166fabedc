package middlewares

import (
	"bytes"
	"net/http"

	"github.com/sbilibin2017/gw-points-wallet/internal/apierr"
	"github.com/sbilibin2017/gw-points-wallet/internal/logger"
	"github.com/sbilibin2017/gw-points-wallet/internal/txmanager"
)

// TxMiddleware runs the handler inside one database transaction. Services
// called by the handler join it. The response is buffered so that a commit
// failure can still be reported as a 500; a status of 400 or above rolls the
// transaction back.
func TxMiddleware(m *txmanager.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, scope, err := m.Begin(r.Context())
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				apierr.Write(w, r, http.StatusInternalServerError, apierr.CodeInternal, "internal error", nil)
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					scope.Rollback()
					panic(rec)
				}
			}()

			bw := &bufferedWriter{header: w.Header(), statusCode: http.StatusOK}
			next.ServeHTTP(bw, r.WithContext(ctx))

			if bw.statusCode >= http.StatusBadRequest {
				scope.Rollback()
				bw.flush(w)
				return
			}

			if err := scope.Commit(ctx); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				apierr.Write(w, r, http.StatusInternalServerError, apierr.CodeInternal, "internal error", nil)
				return
			}
			bw.flush(w)
		})
	}
}

// bufferedWriter holds the status and body until the transaction outcome is known.
type bufferedWriter struct {
	header     http.Header
	statusCode int
	body       bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.statusCode = code
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flush(w http.ResponseWriter) {
	w.WriteHeader(bw.statusCode)
	_, _ = w.Write(bw.body.Bytes())
}

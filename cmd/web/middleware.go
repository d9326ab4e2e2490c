package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/jhalonen/kiloburn/internal/logging"
)

// logRequest stamps the request method and path onto the context so every
// log line emitted while serving the request carries them, then logs the
// request itself with its duration.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithAttrs(r.Context(),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
		app.logger.LogAttrs(ctx, slog.LevelInfo, "request",
			slog.Duration("duration", time.Since(start)),
		)
	})
}

// recoverPanic records the panic in the error log and responds with a
// well-formed error instead of tearing the connection down.
func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if excp := recover(); excp != nil {
				err := fmt.Errorf("panic: %v\n%s", excp, string(debug.Stack()))
				app.errLog.Record(r.Context(), err)
				app.serverError(w, r, err)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/kapal-registry/internal/api/apierr"
	"github.com/mcoot/kapal-registry/internal/middleware"
)

// Recovery turns a handler panic into a 500 INTERNAL_ERROR body. The panic
// value is logged but never written to the client.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("component", "api")), writePanicError)
}

func writePanicError(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}

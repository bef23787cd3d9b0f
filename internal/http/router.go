// Package http assembles the service router: middleware chain, public
// endpoints, authenticated account endpoints and the admin review surface.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	clienthandler "comercio/internal/client/handler"
	notificationhandler "comercio/internal/notification/handler"
	verificationhandler "comercio/internal/verification/handler"
	"comercio/pkg/platform/httputil"
	"comercio/pkg/platform/middleware/auth"
	"comercio/pkg/platform/middleware/requestid"
	"comercio/pkg/platform/middleware/requesttime"
)

// Deps carries the wired handlers and cross-cutting collaborators.
type Deps struct {
	Verification  *verificationhandler.Handler
	Notifications *notificationhandler.Handler
	Clients       *clienthandler.Handler
	Tokens        auth.TokenValidator
	Logger        *slog.Logger
	Health        func() error
}

// NewRouter builds the full route tree.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Authenticated account surface.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Tokens, deps.Logger))
		deps.Verification.Register(r)
		deps.Notifications.Register(r)
	})

	// Administrative surface.
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireAuth(deps.Tokens, deps.Logger))
		r.Use(auth.RequireRole(auth.RoleAdmin, deps.Logger))
		deps.Verification.RegisterAdmin(r)
		deps.Clients.Register(r)
	})

	return r
}

func handleHealth(check func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(); err != nil {
				httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

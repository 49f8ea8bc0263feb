// Package httpapi exposes the vault and account services over a JSON HTTP
// API. Handlers are thin: they decode requests, call the services and map
// errors to status codes. All business rules live in the services package.
package httpapi

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dunkey/dunkey-server/internal/logging"
	"github.com/dunkey/dunkey-server/internal/server/services"
)

// API bundles the handlers and their dependencies.
type API struct {
	users     *services.UserService
	vault     *services.VaultService
	jwtSecret []byte
	logger    logging.Logger
}

func NewAPI(users *services.UserService, vault *services.VaultService, jwtSecret []byte, logger logging.Logger) *API {
	return &API{
		users:     users,
		vault:     vault,
		jwtSecret: jwtSecret,
		logger:    logger.With("module", "httpapi"),
	}
}

// Routes builds the router. Everything under /api except the auth endpoints
// requires a Bearer access token.
func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.register)
			r.Post("/login", a.login)
			r.Post("/refresh", a.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(a.authenticate)

			r.Route("/vault", func(r chi.Router) {
				r.Get("/", a.listEntries)
				r.Post("/", a.createEntry)
				r.Get("/search", a.searchEntries)
				r.Get("/weak", a.weakReport)
				r.Put("/{entryID}", a.updateEntry)
				r.Delete("/{entryID}", a.deleteEntry)
			})

			r.Route("/profile", func(r chi.Router) {
				r.Post("/password", a.changePassword)
				r.Put("/master", a.setMasterPassword)
				r.Get("/master", a.masterPassword)
				r.Delete("/", a.deleteAccount)
			})
		})
	})

	return r
}

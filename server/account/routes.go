package serveraccount

import (
	"log/slog"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/grid"
	serversession "github.com/Pjt727/bookcs/server/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Client *bookingapi.Client
	Pages  grid.Pages
	// where the api's relative redirects point to
	SiteURL string
	Logger  *slog.Logger
}

func PopulateAccountRoutes(r *chi.Router, opts Options) {
	h := accountHandler{
		client:  opts.Client,
		pages:   opts.Pages,
		siteURL: opts.SiteURL,
		logger:  opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	(*r).With(serversession.Middleware(opts.Client, h.logger)).Get("/login", h.loginView)
	(*r).Group(func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data"))
		r.Post("/login", h.login)
		r.Post("/register", h.register)
	})
	(*r).Get("/logout", h.logout)
}

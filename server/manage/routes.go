package servermanage

import (
	"log/slog"
	"net/http"

	"github.com/Pjt727/bookcs/grid"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	Logs  *LogBroadcaster
	Pages grid.Pages
	// operator credentials; an empty hash refuses every login
	Username     string
	PasswordHash string
	Logger       *slog.Logger
}

func PopulateManagementRoutes(r *chi.Router, opts Options) {
	h := &manageHandler{
		logs:         opts.Logs,
		pages:        opts.Pages,
		username:     opts.Username,
		passwordHash: []byte(opts.PasswordHash),
		tokens:       newTokenStore(DEFAULT_TOKEN_EXPIRY),
		logger:       opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	(*r).Use(
		middleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data"),
	)
	(*r).Get("/login", h.loginView)
	(*r).Post("/login", h.login)
	(*r).Group(func(r chi.Router) {
		r.Use(h.ensureLoggedIn)

		r.Get("/", http.RedirectHandler("/manage/logs", http.StatusSeeOther).ServeHTTP)
		r.Get("/logs", h.logsView)
		r.Get("/logs/watch", h.loggingWebSocket)
	})
}

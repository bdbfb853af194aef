package serverpending

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
	Logger *slog.Logger
}

func PopulatePendingRoutes(r *chi.Router, opts Options) {
	h := pendingHandler{
		client: opts.Client,
		pages:  opts.Pages,
		logger: opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	(*r).Use(
		middleware.AllowContentType("application/x-www-form-urlencoded", "multipart/form-data"),
		serversession.Middleware(opts.Client, h.logger),
	)
	(*r).Get("/", h.list)
	(*r).Post("/{appointmentID}", h.manage)
}

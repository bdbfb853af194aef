package serverschedule

import (
	"log/slog"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/grid"
	"github.com/go-chi/chi/v5"
)

type Options struct {
	Client *bookingapi.Client
	Policy grid.Policy
	// defaults to time.Now
	Now    func() time.Time
	Logger *slog.Logger
}

func PopulateScheduleRoutes(r *chi.Router, opts Options) {
	h := newScheduleHandler(opts)
	(*r).Get("/", h.index)
	(*r).Get("/grid", h.gridFragment)
	(*r).Get("/slot", h.slot)
}

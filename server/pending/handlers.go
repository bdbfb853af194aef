package serverpending

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/server/components"
	serversession "github.com/Pjt727/bookcs/server/session"
	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
)

const (
	title = "BookCS | Pending Requests"

	msgFetchError    = "Error fetching pending requests"
	msgFetchFailed   = "Failed to fetch pending requests."
	msgProcessError  = "Error processing the request."
	msgProcessFailed = "Failed to process the request."
	msgProcessed     = "Request processed."
)

type pendingHandler struct {
	client *bookingapi.Client
	pages  grid.Pages
	logger *slog.Logger
}

// errLoginRequired is returned by fetch when the browser has to log in
var errLoginRequired = errors.New("login required")

func (h *pendingHandler) fetch(ctx context.Context, r *http.Request) (components.PendingData, error) {
	requests, err := h.client.Pending(ctx, r.Cookies())
	switch {
	case errors.Is(err, bookingapi.ErrLoginRequired):
		return components.PendingData{}, errLoginRequired
	case bookingapi.IsTransportError(err):
		h.logger.ErrorContext(ctx, "Could not reach the booking api", "err", err)
		return components.PendingData{Message: msgFetchFailed}, nil
	case err != nil:
		h.logger.WarnContext(ctx, "Booking api refused the pending requests", "err", err)
		return components.PendingData{Message: bookingapi.MessageOr(err, msgFetchError)}, nil
	}
	return components.PendingData{Requests: components.PendingCardsFrom(requests)}, nil
}

func (h *pendingHandler) render(w http.ResponseWriter, r *http.Request, pending components.PendingData) {
	var component templ.Component
	if serversession.IsHtmx(r) {
		component = components.PendingList(pending)
	} else {
		component = components.Page(components.PageData{
			Title: title,
			Nav:   components.NavFor(data.SessionFrom(r.Context()), h.pages),
		}, components.Pending(pending))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Could not render pending requests", "err", err)
		http.Error(w, http.StatusText(500), 500)
	}
}

func (h *pendingHandler) list(w http.ResponseWriter, r *http.Request) {
	pending, err := h.fetch(r.Context(), r)
	if errors.Is(err, errLoginRequired) {
		serversession.Redirect(w, r, h.pages.Login)
		return
	}
	h.render(w, r, pending)
}

// manage accepts or rejects one request and answers with the refreshed list
func (h *pendingHandler) manage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appointmentID := data.ID(chi.URLParam(r, "appointmentID"))
	action, err := bookingapi.ParsePendingAction(r.FormValue("action"))
	if err != nil {
		http.Error(w, "Invalid action", http.StatusBadRequest)
		return
	}

	notification := &components.NotificationData{Type: components.NotifySuccess}
	message, err := h.client.ManagePending(ctx, r.Cookies(), appointmentID, action)
	switch {
	case errors.Is(err, bookingapi.ErrLoginRequired):
		serversession.Redirect(w, r, h.pages.Login)
		return
	case bookingapi.IsTransportError(err):
		h.logger.ErrorContext(ctx, "Could not reach the booking api", "err", err)
		notification.Type = components.NotifyError
		notification.Message = msgProcessFailed
	case err != nil:
		h.logger.WarnContext(ctx, "Booking api refused the pending action",
			"appointment", appointmentID, "action", action, "err", err)
		notification.Type = components.NotifyError
		notification.Message = bookingapi.MessageOr(err, msgProcessError)
	default:
		h.logger.InfoContext(ctx, "Pending request handled", "appointment", appointmentID, "action", action)
		notification.Message = message
		if notification.Message == "" {
			notification.Message = msgProcessed
		}
	}

	pending, err := h.fetch(ctx, r)
	if errors.Is(err, errLoginRequired) {
		serversession.Redirect(w, r, h.pages.Login)
		return
	}
	pending.Notification = notification
	h.render(w, r, pending)
}

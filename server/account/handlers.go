package serveraccount

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/server/components"
	serversession "github.com/Pjt727/bookcs/server/session"
	"github.com/a-h/templ"
)

const (
	title = "BookCS | Log In"

	msgUnreachable = "Could not reach the booking service."
	msgRejected    = "Request failed."
)

type accountHandler struct {
	client  *bookingapi.Client
	pages   grid.Pages
	siteURL string
	logger  *slog.Logger
}

type submitFunc func(ctx context.Context, cookies []*http.Cookie, form url.Values) (bookingapi.FormResult, error)

func (h *accountHandler) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Could not render account view", "err", err)
		http.Error(w, http.StatusText(500), 500)
	}
}

func (h *accountHandler) page(r *http.Request, body templ.Component) templ.Component {
	return components.Page(components.PageData{
		Title: title,
		Nav:   components.NavFor(data.SessionFrom(r.Context()), h.pages),
	}, body)
}

func (h *accountHandler) notify(w http.ResponseWriter, r *http.Request, notificationType components.NotificationType, message string) {
	if serversession.IsHtmx(r) {
		h.render(w, r, components.Notification(notificationType, message))
		return
	}
	h.render(w, r, h.page(r, components.NoticePage(notificationType, message, h.pages.Login)))
}

// resolve points the api's site relative redirects at the static site. The
// home page is served here.
func (h *accountHandler) resolve(redirect string) string {
	if redirect == "/" {
		return h.pages.Home
	}
	if strings.HasPrefix(redirect, "/") && h.siteURL != "" {
		return strings.TrimRight(h.siteURL, "/") + redirect
	}
	return redirect
}

func (h *accountHandler) loginView(w http.ResponseWriter, r *http.Request) {
	session := data.SessionFrom(r.Context())
	if session.LoggedIn {
		serversession.Redirect(w, r, h.pages.HomeFor(session.Role))
		return
	}
	h.render(w, r, h.page(r, components.Login()))
}

func (h *accountHandler) login(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "login", h.client.Login)
}

func (h *accountHandler) register(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "register", h.client.Register)
}

// submit relays the form to the api and the api's session cookies back
func (h *accountHandler) submit(w http.ResponseWriter, r *http.Request, name string, send submitFunc) {
	ctx := r.Context()
	if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
		return
	}

	result, err := send(ctx, r.Cookies(), r.PostForm)
	if err != nil {
		message := bookingapi.MessageOr(err, msgRejected)
		if bookingapi.IsTransportError(err) {
			h.logger.ErrorContext(ctx, "Could not reach the booking api", "form", name, "err", err)
			message = msgUnreachable
		} else {
			h.logger.InfoContext(ctx, "Booking api refused the form", "form", name, "err", err)
		}
		h.notify(w, r, components.NotifyError, "Error: "+message)
		return
	}

	serversession.RelayCookies(w, result.Cookies)
	if result.Redirect == "" {
		// the api accepted the form without saying where to go, the browser
		// stays on the form
		if serversession.IsHtmx(r) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.Redirect(w, r, h.pages.Login, http.StatusSeeOther)
		return
	}
	serversession.Redirect(w, r, h.resolve(result.Redirect))
}

func (h *accountHandler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cleared, err := h.client.Logout(ctx, r.Cookies())
	if err != nil {
		h.logger.WarnContext(ctx, "Could not log out of the booking api", "err", err)
	}
	serversession.RelayCookies(w, cleared)
	serversession.Redirect(w, r, h.pages.Home)
}

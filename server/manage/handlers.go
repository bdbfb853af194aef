package servermanage

import (
	"log/slog"
	"net/http"

	"github.com/Pjt727/bookcs/data"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/server/components"
	serversession "github.com/Pjt727/bookcs/server/session"
	"github.com/a-h/templ"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// the same text for an unknown user and a bad password
const errInvalidLogin = "Invalid log in"

type manageHandler struct {
	logs         *LogBroadcaster
	pages        grid.Pages
	username     string
	passwordHash []byte
	tokens       *tokenStore
	logger       *slog.Logger
}

func (h *manageHandler) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := components.Page(components.PageData{
		Title: title,
		Nav:   components.NavFor(data.Anonymous(), h.pages),
	}, body).Render(r.Context(), w)

	if err != nil {
		h.logger.ErrorContext(r.Context(), "Could not render management view", "title", title, "err", err)
		http.Error(w, http.StatusText(500), 500)
	}
}

func (h *manageHandler) notify(w http.ResponseWriter, r *http.Request, notificationType components.NotificationType, message string) {
	if !serversession.IsHtmx(r) {
		h.render(w, r, "BookCS | Management", components.NoticePage(notificationType, message, "/manage/login"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.Notification(notificationType, message).Render(r.Context(), w); err != nil {
		h.logger.ErrorContext(r.Context(), "Could not render notification", "err", err)
	}
}

func (h *manageHandler) loginView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "BookCS | Management", components.ManageLogin())
}

func (h *manageHandler) login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if len(h.passwordHash) == 0 || username != h.username {
		h.logger.WarnContext(r.Context(), "unknown management user", "username", username)
		h.notify(w, r, components.NotifyError, errInvalidLogin)
		return
	}
	if err := bcrypt.CompareHashAndPassword(h.passwordHash, []byte(password)); err != nil {
		h.logger.WarnContext(r.Context(), "password is not correct", "username", username)
		h.notify(w, r, components.NotifyError, errInvalidLogin)
		return
	}

	token := uuid.New().String()
	h.tokens.addToken(token, username)
	http.SetCookie(w, &http.Cookie{
		Name:     UserCookieName,
		Value:    token,
		Path:     "/manage",
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	h.logger.InfoContext(r.Context(), "management user logged in", "username", username)
	serversession.Redirect(w, r, "/manage/logs")
}

func (h *manageHandler) logsView(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "BookCS | Logs", components.Logs())
}

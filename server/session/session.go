package serversession

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Pjt727/bookcs/data"
)

type Source interface {
	Session(ctx context.Context, cookies []*http.Cookie) (data.Session, error)
}

// Load asks source who the browser is. Any failure is the anonymous session.
func Load(ctx context.Context, source Source, r *http.Request, logger *slog.Logger) data.Session {
	session, err := source.Session(ctx, r.Cookies())
	if err != nil {
		logger.WarnContext(ctx, "Could not check session, continuing as anonymous", "err", err)
		return data.Anonymous()
	}
	return session
}

// Middleware stores the browser's session in the request context
func Middleware(source Source, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			session := Load(ctx, source, r, logger)
			next.ServeHTTP(w, r.WithContext(data.WithSession(ctx, session)))
		})
	}
}

func IsHtmx(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// Redirect sends the browser to url. htmx requests get HX-Redirect so the
// whole page navigates instead of swapping the target.
func Redirect(w http.ResponseWriter, r *http.Request, url string) {
	if IsHtmx(r) {
		w.Header().Add("HX-Redirect", url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// RelayCookies hands cookies the api set to the browser
func RelayCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		relayed := *c
		// the api's domain is not ours
		relayed.Domain = ""
		if relayed.Path == "" {
			relayed.Path = "/"
		}
		http.SetCookie(w, &relayed)
	}
}

package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Pjt727/bookcs/bookingapi"
	"github.com/Pjt727/bookcs/grid"
	"github.com/Pjt727/bookcs/internal/config"
	serveraccount "github.com/Pjt727/bookcs/server/account"
	servermanage "github.com/Pjt727/bookcs/server/manage"
	serverpending "github.com/Pjt727/bookcs/server/pending"
	serverschedule "github.com/Pjt727/bookcs/server/schedule"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

//go:embed static
var staticFiles embed.FS

const shutdownGrace = 5 * time.Second

type Options struct {
	Config *config.Config
	Client *bookingapi.Client
	// nil leaves the log stream routes out
	Logs   *servermanage.LogBroadcaster
	Logger *slog.Logger
	// defaults to time.Now
	Now func() time.Time
}

func NewRouter(opts Options) http.Handler {
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	cors := cors.New(cors.Options{
		// the static site calls back into the frontend with the browser's cookies
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger"},
		ExposedHeaders:   []string{"HX-Redirect"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum age for preflight requests
	})
	r.Use(cors.Handler)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	pages := grid.DefaultPages(cfg.SiteURL)
	policy := grid.Policy{Pages: pages, Location: cfg.Location}

	r.Group(func(r chi.Router) {
		serverschedule.PopulateScheduleRoutes(&r, serverschedule.Options{
			Client: opts.Client,
			Policy: policy,
			Now:    opts.Now,
			Logger: logger.With("component", "schedule"),
		})
	})
	r.Route("/pending", func(r chi.Router) {
		serverpending.PopulatePendingRoutes(&r, serverpending.Options{
			Client: opts.Client,
			Pages:  pages,
			Logger: logger.With("component", "pending"),
		})
	})
	r.Group(func(r chi.Router) {
		serveraccount.PopulateAccountRoutes(&r, serveraccount.Options{
			Client:  opts.Client,
			Pages:   pages,
			SiteURL: cfg.SiteURL,
			Logger:  logger.With("component", "account"),
		})
	})

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	fileServer(r, "/static", http.FS(static))

	if opts.Logs != nil {
		r.Route("/manage", func(r chi.Router) {
			servermanage.PopulateManagementRoutes(&r, servermanage.Options{
				Logs:         opts.Logs,
				Pages:        pages,
				Username:     cfg.ManageUsername,
				PasswordHash: cfg.ManagePasswordHash,
				Logger:       logger.With("component", "manage"),
			})
		})
	}
	return r
}

// Serve runs the frontend until ctx is done
func Serve(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Config.Port),
		Handler: NewRouter(opts),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Could not shut down cleanly", "err", err)
		}
	}()

	logger.Info("Running server on", "port", opts.Config.Port, "api", opts.Config.APIURL)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// https://github.com/go-chi/chi/blob/master/_examples/fileserver/main.go
func fileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

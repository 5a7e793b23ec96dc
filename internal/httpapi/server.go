// Package httpapi serves the tasting form, the session table and a JSON API
// over the tasting service.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tastingclub/tastings/internal/config"
	"github.com/tastingclub/tastings/internal/logger"
	"github.com/tastingclub/tastings/internal/services"
	"github.com/tastingclub/tastings/internal/tasting"
)

// Server holds the router dependencies.
type Server struct {
	svc   *services.TastingService
	cfg   config.ServerConfig
	log   *logger.Logger
	pages *template.Template
}

// New builds a Server. Templates are parsed once here.
func New(svc *services.TastingService, cfg config.ServerConfig, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.NewNop()
	}
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Server{
		svc:   svc,
		cfg:   cfg,
		log:   log.With("component", "http"),
		pages: pages,
	}, nil
}

// Routes returns the full router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.indexPage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/share.png", s.sharePNG)

	r.Route("/tastings", func(r chi.Router) {
		r.Post("/", s.submitForm)
		r.Get("/{index}/edit", s.editPage)
		r.Post("/{index}", s.updateForm)
		r.Post("/{index}/delete", s.deleteForm)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "If-Match"},
			AllowCredentials: false,
			MaxAge:           300,
		}))

		r.Get("/tastings", s.listTastings)
		r.Post("/tastings", s.createTasting)
		r.Get("/tastings/{index}", s.getTasting)
		r.Put("/tastings/{index}", s.updateTasting)
		r.Delete("/tastings/{index}", s.deleteTasting)
		r.Get("/summary", s.getSummary)
		r.Get("/options", s.getOptions)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// indexParam reads the {index} route parameter. A non-numeric index is
// reported as out of range.
func indexParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a position", tasting.ErrIndexOutOfRange, raw)
	}
	return i, nil
}

// Package server exposes public object URLs over HTTP.
//
//	GET /healthz        liveness probe
//	GET /url/{name...}  {"name": ..., "url": ...}
//	GET /media/{name...} 302 to the object's public URL
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/hlog"

	"github.com/koustreak/publicstore/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// URLBuilder is the one capability the server needs from storage.
type URLBuilder interface {
	URL(name string) string
}

type Server struct {
	router chi.Router
	store  URLBuilder
	log    *logger.Logger
}

type urlResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(store URLBuilder, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{router: chi.NewRouter(), store: store, log: log}

	s.router.Use(middleware.Recoverer)
	s.router.Use(hlog.NewHandler(log.Zerolog()))
	s.router.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	s.router.Use(hlog.AccessHandler(func(r *http.Request, status, size int, d time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", d).
			Msg("request")
	}))

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/url/*", s.handleURL)
	s.router.Get("/media/*", s.handleRedirect)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleURL(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "object name is required"})
		return
	}
	writeJSON(w, http.StatusOK, urlResponse{Name: name, URL: s.store.URL(name)})
}

func (s *Server) handleRedirect(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	if name == "" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, s.store.URL(name), http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

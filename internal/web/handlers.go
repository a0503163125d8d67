package web

import (
	"context"
	"html/template"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ecostory/internal/comicpdf"
	"ecostory/internal/game"
	"ecostory/internal/observability"
	"ecostory/internal/session"
)

type Server struct {
	Engine *game.Engine
	// Store keeps the latest cycle per browser for the PDF export.
	Store   session.Store[*game.Cycle]
	Tmpl    *template.Template
	Fetcher comicpdf.Fetcher
	Logger  *zap.Logger
	// StaticDir is served under /static/; empty means "static".
	StaticDir string
}

const cookieName = "ecostory_sid"

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/comic.pdf", s.handleComic)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir()))))
	return requestLogger(s.logger(), mux)
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sel := game.DefaultSelection()
	if id := s.sessionID(r); id != "" {
		if c, ok, _ := s.Store.Get(r.Context(), id); ok && c != nil {
			sel = c.Selection
		}
	}
	if t := r.URL.Query().Get("theme"); t != "" {
		sel.Theme = t
	}
	s.render(w, http.StatusOK, s.newPage(sel))
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) render(w http.ResponseWriter, status int, vm PageViewModel) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Tmpl.ExecuteTemplate(w, "layout.html", vm); err != nil {
		s.logger().Error("Render page", zap.Error(err))
	}
}

// ensureSession returns the browser's session id, issuing a cookie when
// there is none, and a context tagged with it for tracing.
func (s *Server) ensureSession(ctx context.Context, w http.ResponseWriter, r *http.Request) (context.Context, string) {
	id := s.sessionID(r)
	if id == "" {
		id = s.Store.NewID()
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return observability.WithSessionID(ctx, id), id
}

func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (s *Server) tables() *game.Tables {
	if s.Engine != nil && s.Engine.Tables != nil {
		return s.Engine.Tables
	}
	return game.DefaultTables()
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Server) staticDir() string {
	if s.StaticDir == "" {
		return "static"
	}
	return s.StaticDir
}

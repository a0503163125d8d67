package web

import (
	"net/http"

	"go.uber.org/zap"

	"ecostory/internal/comicpdf"
)

// GET /comic.pdf
func (s *Server) handleComic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	id := s.sessionID(r)
	if id == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	c, ok, err := s.Store.Get(ctx, id)
	if err != nil || !ok || c == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	pdf, err := comicpdf.Generate(ctx, c, s.Fetcher)
	if err != nil {
		s.logger().Error("Render comic PDF", zap.String("cycle_id", c.ID), zap.Error(err))
		http.Error(w, "failed to render comic", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="eco-adventure.pdf"`)
	_, _ = w.Write(pdf)
}

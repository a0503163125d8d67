package web

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ecostory/internal/game"
)

const serviceUnavailableMsg = "The story service is not available right now. Please try again in a moment."

// POST /generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", 400)
		return
	}
	sel := selectionFromForm(r)

	ctx, id := s.ensureSession(r.Context(), w, r)
	c, err := s.Engine.Run(ctx, sel)
	if err != nil {
		log := s.logger().With(zap.String("session_id", id), zap.Error(err))
		if errors.Is(err, game.ErrStoryFailed) || errors.Is(err, game.ErrSceneFailed) {
			log.Warn("Cycle failed upstream")
		} else {
			log.Error("Cycle failed")
		}
		vm := s.newPage(sel)
		vm.Error = serviceUnavailableMsg
		s.render(w, http.StatusBadGateway, vm)
		return
	}

	if err := s.Store.Put(ctx, id, c); err != nil {
		s.logger().Warn("Save cycle", zap.String("session_id", id), zap.Error(err))
	}
	vm := s.newPage(sel)
	vm.Cycle = newCycleView(c)
	s.render(w, http.StatusOK, vm)
}

// selectionFromForm reads the form fields. Unknown setting, habit and theme
// values pass through; the rule and theme lookups fall back for them.
func selectionFromForm(r *http.Request) game.UserSelection {
	sel := game.UserSelection{
		Hero:     game.CleanHero(r.FormValue("hero")),
		Setting:  r.FormValue("setting"),
		Habit:    r.FormValue("habit"),
		Theme:    r.FormValue("theme"),
		HintMode: r.FormValue("hints") != "",
	}
	def := game.DefaultSelection()
	if sel.Setting == "" {
		sel.Setting = def.Setting
	}
	if sel.Habit == "" {
		sel.Habit = def.Habit
	}
	if sel.Theme == "" {
		sel.Theme = def.Theme
	}
	return sel
}

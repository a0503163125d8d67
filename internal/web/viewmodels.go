package web

import (
	"html/template"

	"ecostory/internal/game"
)

// PageViewModel feeds layout.html: the form always, the result when a cycle
// ran, or an error banner.
type PageViewModel struct {
	Selection game.UserSelection
	Style     StyleView
	Settings  []string
	Habits    []string
	Themes    []string
	Cycle     *CycleView
	Error     string
}

// StyleView carries theme colours into the page's <style> block. The values
// come from the operator's theme table, not from the request.
type StyleView struct {
	Background template.CSS
	Button     template.CSS
}

// CycleView is the result section of the page.
type CycleView struct {
	Title     string
	Story     string
	Rules     game.HabitRule
	Theme     string
	HintMode  bool
	Tips      []string
	HintNote  string
	Panels    []PanelView
	Unparsed  bool
	SceneText string
}

type PanelView struct {
	Index    int
	Text     string
	ImageURL string
	Degraded bool
}

func (s *Server) newPage(sel game.UserSelection) PageViewModel {
	style := s.tables().ResolveTheme(sel.Theme)
	return PageViewModel{
		Selection: sel,
		Style: StyleView{
			Background: template.CSS(style.Background), //nolint:gosec // trusted table value
			Button:     template.CSS(style.Button),     //nolint:gosec // trusted table value
		},
		Settings: game.Settings,
		Habits:   game.Habits,
		Themes:   game.Themes,
	}
}

func newCycleView(c *game.Cycle) *CycleView {
	v := &CycleView{
		Title:     c.Title,
		Story:     c.Story,
		Rules:     c.Rules,
		Theme:     c.Selection.Theme,
		HintMode:  c.Selection.HintMode,
		Unparsed:  c.Unparsed(),
		SceneText: c.SceneText,
	}
	if v.HintMode {
		v.Tips = game.Tips
		v.HintNote = game.HintNote
	}
	for _, p := range c.Panels {
		v.Panels = append(v.Panels, PanelView{
			Index:    p.Panel.Index,
			Text:     p.Panel.Text,
			ImageURL: p.URL,
			Degraded: !p.OK(),
		})
	}
	return v
}

package game

import "time"

// UserSelection is what the player picked on the form for one cycle.
type UserSelection struct {
	Hero     string
	Setting  string
	Habit    string
	Theme    string
	HintMode bool
}

// ThemeStyle holds the page colours for a visual theme.
type ThemeStyle struct {
	Background string `yaml:"background"` // CSS gradient for the page
	Button     string `yaml:"button"`     // button and heading colour
}

// HabitRule is the mini-game text shown for a water habit.
type HabitRule struct {
	Challenge string `yaml:"challenge"`
	Goal      string `yaml:"goal"`
	Points    string `yaml:"points"`
}

// Panel is one numbered scene of the comic breakdown. Index is 1-based and
// follows output order, not the number the model wrote.
type Panel struct {
	Index int
	Text  string
}

// PanelStatus tells whether a panel got its picture.
type PanelStatus int

const (
	PanelOK PanelStatus = iota
	PanelDegraded
)

func (s PanelStatus) String() string {
	if s == PanelOK {
		return "ok"
	}
	return "degraded"
}

// PanelImage is the per-panel outcome of the image step: either an image URL
// or a degraded rendering with the reason the image could not be produced.
type PanelImage struct {
	Panel  Panel
	Status PanelStatus
	URL    string
	Reason string
}

// OK reports whether the panel has an image.
func (p PanelImage) OK() bool { return p.Status == PanelOK }

func okPanel(p Panel, url string) PanelImage {
	return PanelImage{Panel: p, Status: PanelOK, URL: url}
}

func degradedPanel(p Panel, reason string) PanelImage {
	return PanelImage{Panel: p, Status: PanelDegraded, Reason: reason}
}

// Cycle is everything produced by one press of "Generate".
type Cycle struct {
	ID        string
	Selection UserSelection
	Title     string
	Story     string
	SceneText string
	Rules     HabitRule
	Theme     ThemeStyle
	Panels    []PanelImage
	StartedAt time.Time
	Duration  time.Duration
}

// Unparsed reports whether the scene breakdown had no numbered panels, in
// which case SceneText should be shown as-is.
func (c *Cycle) Unparsed() bool { return len(c.Panels) == 0 }

// Degraded counts the panels rendered without an image.
func (c *Cycle) Degraded() int {
	n := 0
	for _, p := range c.Panels {
		if !p.OK() {
			n++
		}
	}
	return n
}

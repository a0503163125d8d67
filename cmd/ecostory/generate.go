package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ecostory/internal/app"
	"ecostory/internal/comicpdf"
	"ecostory/internal/game"
)

var genOpts struct {
	hero    string
	setting string
	habit   string
	theme   string
	hints   bool
	pdf     string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one story cycle and print it",
	Long: `Runs one cycle (story, scene breakdown, panel images) and prints the
result. With --pdf the comic is also written as a PDF.

Example:
  ecostory generate --hero Andy --setting garden --habit "watering plants" --pdf andy.pdf`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	def := game.DefaultSelection()
	f := generateCmd.Flags()
	f.StringVar(&genOpts.hero, "hero", "", "hero name")
	f.StringVar(&genOpts.setting, "setting", def.Setting, "setting: "+strings.Join(game.Settings, ", "))
	f.StringVar(&genOpts.habit, "habit", def.Habit, "habit: "+strings.Join(game.Habits, ", "))
	f.StringVar(&genOpts.theme, "theme", def.Theme, "theme: "+strings.Join(game.Themes, ", "))
	f.BoolVar(&genOpts.hints, "hints", def.HintMode, "show water-saving tips")
	f.StringVar(&genOpts.pdf, "pdf", "", "write the comic to this PDF file")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	sel := game.UserSelection{
		Hero:     game.CleanHero(genOpts.hero),
		Setting:  genOpts.setting,
		Habit:    genOpts.habit,
		Theme:    genOpts.theme,
		HintMode: genOpts.hints,
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
		c, err := a.Engine.Run(ctx, sel)
		if err != nil {
			return err
		}
		printCycle(cmd.OutOrStdout(), c)

		if genOpts.pdf == "" {
			return nil
		}
		b, err := comicpdf.Generate(ctx, c, a.Fetcher())
		if err != nil {
			return err
		}
		if err := os.WriteFile(genOpts.pdf, b, 0o600); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		lg.Info("Comic written", zap.String("path", genOpts.pdf), zap.Int("bytes", len(b)))
		return nil
	})
}

// printCycle writes the cycle in the order the page shows it.
func printCycle(w io.Writer, c *game.Cycle) {
	fmt.Fprintf(w, "%s\n\n%s\n\n", c.Title, c.Story)

	fmt.Fprintln(w, "Game Rules")
	fmt.Fprintf(w, "  Challenge: %s\n  Goal: %s\n  Scoring: %s\n\n", c.Rules.Challenge, c.Rules.Goal, c.Rules.Points)

	if c.Selection.HintMode {
		fmt.Fprintln(w, "Water-Saving Tips")
		for _, tip := range game.Tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
		fmt.Fprintf(w, "%s\n\n", game.HintNote)
	}

	fmt.Fprintf(w, "Theme Selected: %s\n\n", c.Selection.Theme)

	fmt.Fprintln(w, "Comic Panels")
	if c.Unparsed() {
		fmt.Fprintln(w, "  The model did not return clearly numbered scenes.")
		fmt.Fprintln(w, c.SceneText)
		return
	}
	for _, p := range c.Panels {
		fmt.Fprintf(w, "Panel %d: %s\n", p.Panel.Index, p.Panel.Text)
		if p.OK() {
			fmt.Fprintf(w, "  image: %s\n", p.URL)
		} else {
			fmt.Fprintf(w, "  Could not load image for Panel %d.\n", p.Panel.Index)
		}
	}
}

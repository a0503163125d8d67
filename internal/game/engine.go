package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for the collaborator calls.
const (
	DefaultStoryModel       = "gpt-3.5-turbo"
	DefaultSceneModel       = "gpt-4"
	DefaultStoryMaxTokens   = 800
	DefaultStoryTemperature = float32(0.8)
	DefaultImageSize        = "512x512"
	DefaultImageConcurrency = 3
)

var (
	// ErrStoryFailed wraps any failure of the story call.
	ErrStoryFailed = errors.New("story generation failed")
	// ErrSceneFailed wraps any failure of the scene breakdown call.
	ErrSceneFailed = errors.New("scene breakdown failed")
)

// TextRequest is one chat completion. SystemPrompt is optional; a nil
// Temperature and zero MaxTokens leave the provider defaults.
type TextRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  *float32
}

// ImageRequest is one image generation.
type ImageRequest struct {
	Prompt string
	N      int
	Size   string
}

// TextGenerator produces text from a prompt (the story and scene calls).
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
}

// ImageGenerator produces an image URL from a prompt.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
}

// Options tunes the collaborator calls. Zero values fall back to the
// Default* constants.
type Options struct {
	StoryModel       string
	SceneModel       string
	StoryMaxTokens   int
	StoryTemperature float32
	ImageSize        string
	// ImageConcurrency bounds parallel image calls; 1 makes them sequential.
	ImageConcurrency int
	// ImageLimiter paces image calls when set.
	ImageLimiter *rate.Limiter
}

// Engine runs generation cycles: story, then scene breakdown, then one image
// per extracted panel.
type Engine struct {
	Text    TextGenerator
	Images  ImageGenerator
	Tables  *Tables
	Options Options
	Logger  *zap.Logger
}

var tracer = otel.Tracer("ecostory/game")

// Run executes one cycle. A failed story or scene call aborts the cycle and
// returns an error wrapping ErrStoryFailed or ErrSceneFailed; a failed image
// call only degrades its own panel.
func (e *Engine) Run(ctx context.Context, sel UserSelection) (*Cycle, error) {
	tables := e.tables()
	c := &Cycle{
		ID:        uuid.NewString(),
		Selection: sel,
		Title:     sel.Title(),
		Rules:     tables.RulesFor(sel.Habit),
		Theme:     tables.ResolveTheme(sel.Theme),
		StartedAt: time.Now(),
	}

	ctx, span := tracer.Start(ctx, "cycle")
	defer span.End()
	span.SetAttributes(
		attribute.String("cycle.id", c.ID),
		attribute.String("cycle.setting", sel.Setting),
		attribute.String("cycle.habit", sel.Habit),
		attribute.String("cycle.theme", sel.Theme),
	)

	log := e.logger().With(zap.String("cycle_id", c.ID))
	log.Info("Starting cycle",
		zap.String("setting", sel.Setting),
		zap.String("habit", sel.Habit),
		zap.String("theme", sel.Theme),
		zap.Bool("hints", sel.HintMode),
	)

	temp := e.storyTemperature()
	story, err := e.Text.GenerateText(ctx, TextRequest{
		Model:        e.storyModel(),
		SystemPrompt: StorySystemPrompt,
		UserPrompt:   BuildStoryPrompt(sel.Hero, sel.Setting, sel.Habit),
		MaxTokens:    e.storyMaxTokens(),
		Temperature:  &temp,
	})
	if err != nil {
		return nil, e.abort(span, log, "story_failed", fmt.Errorf("%w: %w", ErrStoryFailed, err))
	}
	c.Story = story

	scene, err := e.Text.GenerateText(ctx, TextRequest{
		Model:      e.sceneModel(),
		UserPrompt: BuildScenePrompt(sel.Theme, story),
	})
	if err != nil {
		return nil, e.abort(span, log, "scene_failed", fmt.Errorf("%w: %w", ErrSceneFailed, err))
	}
	c.SceneText = scene

	panels := ExtractPanels(scene)
	if len(panels) == 0 {
		log.Warn("Scene breakdown has no numbered panels", zap.Int("scene_bytes", len(scene)))
	}
	c.Panels = e.renderPanels(ctx, sel.Theme, panels, log)
	c.Duration = time.Since(c.StartedAt)

	outcome := "complete"
	if c.Unparsed() {
		outcome = "unparsed"
	} else if c.Degraded() > 0 {
		outcome = "degraded"
	}
	cyclesTotal.WithLabelValues(outcome).Inc()
	span.SetAttributes(
		attribute.Int("cycle.panels", len(c.Panels)),
		attribute.Int("cycle.degraded", c.Degraded()),
	)
	log.Info("Cycle finished",
		zap.String("outcome", outcome),
		zap.Int("panels", len(c.Panels)),
		zap.Int("degraded", c.Degraded()),
		zap.Duration("duration", c.Duration),
	)
	return c, nil
}

func (e *Engine) abort(span trace.Span, log *zap.Logger, outcome string, err error) error {
	cyclesTotal.WithLabelValues(outcome).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, outcome)
	log.Error("Cycle aborted", zap.String("outcome", outcome), zap.Error(err))
	return err
}

// renderPanels requests the panel images, at most ImageConcurrency at a time.
// Results are stored by position so their order matches the panels.
func (e *Engine) renderPanels(ctx context.Context, theme string, panels []Panel, log *zap.Logger) []PanelImage {
	out := make([]PanelImage, len(panels))
	var g errgroup.Group
	g.SetLimit(e.imageConcurrency())
	for i, p := range panels {
		i, p := i, p // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			out[i] = e.renderPanel(ctx, theme, p, log)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (e *Engine) renderPanel(ctx context.Context, theme string, p Panel, log *zap.Logger) PanelImage {
	log = log.With(zap.Int("panel", p.Index))

	if l := e.Options.ImageLimiter; l != nil {
		if err := l.Wait(ctx); err != nil {
			return e.degrade(p, log, err)
		}
	}
	url, err := e.Images.GenerateImage(ctx, ImageRequest{
		Prompt: BuildImagePrompt(theme, p.Text),
		N:      1,
		Size:   e.imageSize(),
	})
	if err != nil {
		return e.degrade(p, log, err)
	}
	if url == "" {
		return e.degrade(p, log, errors.New("empty image url"))
	}
	panelsTotal.WithLabelValues(PanelOK.String()).Inc()
	log.Debug("Panel image ready")
	return okPanel(p, url)
}

func (e *Engine) degrade(p Panel, log *zap.Logger, err error) PanelImage {
	panelsTotal.WithLabelValues(PanelDegraded.String()).Inc()
	log.Warn("Could not load panel image", zap.Error(err))
	return degradedPanel(p, err.Error())
}

func (e *Engine) tables() *Tables {
	if e.Tables == nil {
		return defaultTables
	}
	return e.Tables
}

func (e *Engine) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

func (e *Engine) storyModel() string {
	if e.Options.StoryModel == "" {
		return DefaultStoryModel
	}
	return e.Options.StoryModel
}

func (e *Engine) sceneModel() string {
	if e.Options.SceneModel == "" {
		return DefaultSceneModel
	}
	return e.Options.SceneModel
}

func (e *Engine) storyMaxTokens() int {
	if e.Options.StoryMaxTokens <= 0 {
		return DefaultStoryMaxTokens
	}
	return e.Options.StoryMaxTokens
}

func (e *Engine) storyTemperature() float32 {
	if e.Options.StoryTemperature <= 0 {
		return DefaultStoryTemperature
	}
	return e.Options.StoryTemperature
}

func (e *Engine) imageSize() string {
	if e.Options.ImageSize == "" {
		return DefaultImageSize
	}
	return e.Options.ImageSize
}

func (e *Engine) imageConcurrency() int {
	if e.Options.ImageConcurrency <= 0 {
		return DefaultImageConcurrency
	}
	return e.Options.ImageConcurrency
}

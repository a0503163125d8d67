// Package comicpdf renders a finished cycle as a printable comic. The page
// is tinted from the theme button colour and holds the story, the game rules
// and one frame per panel.
package comicpdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf/v2"
	"golang.org/x/sync/errgroup"

	"ecostory/internal/game"
)

const (
	pageW      = 595.0
	pageH      = 842.0
	margin     = 40.0
	gap        = 15.0
	frameW     = (pageW - 2*margin - gap) / 2
	frameH     = frameW
	captionH   = 11.0
	maxCaption = 4
	titleSize  = 18
	headSize   = 13
	bodySize   = 10
)

// ErrNoCycle is returned when there is nothing to render.
var ErrNoCycle = errors.New("no cycle to render")

type rgb struct{ r, g, b int }

// Generate returns PDF bytes for c. Panel images are downloaded with f; a
// nil f, a degraded panel or a failed download draws the panel description
// with a warning instead of the picture.
func Generate(ctx context.Context, c *game.Cycle, f Fetcher) ([]byte, error) {
	if c == nil {
		return nil, ErrNoCycle
	}
	images := fetchAll(ctx, c.Panels, f)

	accent := parseHex(c.Theme.Button, rgb{0, 153, 255})
	bg := accent.tint(0.9)

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(c.Title, true)
	pdf.SetCreator("ecostory", true)
	pdf.SetHeaderFunc(func() {
		pdf.SetFillColor(bg.r, bg.g, bg.b)
		pdf.Rect(0, 0, pageW, pageH, "F")
		pdf.SetXY(margin, margin)
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title bar
	pdf.SetFillColor(accent.r, accent.g, accent.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(pageW-2*margin, 32, tr(c.Title), "", 1, "C", true, 0, "")
	pdf.Ln(4)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFont("Helvetica", "I", bodySize)
	pdf.CellFormat(pageW-2*margin, 14, tr("Theme Selected: "+c.Selection.Theme), "", 1, "R", false, 0, "")
	pdf.Ln(6)

	section(pdf, tr, accent, "Story")
	pdf.MultiCell(0, 14, tr(c.Story), "", "L", false)
	pdf.Ln(8)

	section(pdf, tr, accent, "Game Rules")
	pdf.MultiCell(0, 14, tr("Challenge: "+c.Rules.Challenge), "", "L", false)
	pdf.MultiCell(0, 14, tr("Goal: "+c.Rules.Goal), "", "L", false)
	pdf.MultiCell(0, 14, tr("Points: "+c.Rules.Points), "", "L", false)
	pdf.Ln(8)

	section(pdf, tr, accent, "Comic")
	if c.Unparsed() {
		pdf.SetFont("Helvetica", "I", bodySize)
		pdf.MultiCell(0, 14, "The model did not return clearly numbered scenes.", "", "L", false)
		pdf.SetFont("Courier", "", 9)
		pdf.MultiCell(0, 12, tr(c.SceneText), "", "L", false)
	} else {
		drawPanels(pdf, tr, c.Panels, images)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, tr func(string) string, accent rgb, title string) {
	pdf.SetFont("Helvetica", "B", headSize)
	pdf.SetTextColor(accent.r, accent.g, accent.b)
	pdf.CellFormat(0, 18, tr(title), "B", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", bodySize)
	pdf.SetTextColor(40, 40, 40)
}

// fetchAll downloads the images of the OK panels, three at a time. Entries
// stay nil for panels without a usable image.
func fetchAll(ctx context.Context, panels []game.PanelImage, f Fetcher) [][]byte {
	out := make([][]byte, len(panels))
	if f == nil {
		return out
	}
	var g errgroup.Group
	g.SetLimit(3)
	for i, p := range panels {
		if !p.OK() {
			continue
		}
		i, p := i, p // per-iteration copies (go 1.21 loop semantics)
		g.Go(func() error {
			b, err := f.Fetch(ctx, p.URL)
			if err == nil {
				out[i] = b
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// drawPanels lays the panels out two per row, starting a new page when a
// row would not fit.
func drawPanels(pdf *gofpdf.Fpdf, tr func(string) string, panels []game.PanelImage, images [][]byte) {
	pdf.SetAutoPageBreak(false, 0)
	defer pdf.SetAutoPageBreak(true, margin)

	rowH := frameH + captionH*maxCaption + 10
	y := pdf.GetY()
	for i, p := range panels {
		col := i % 2
		if col == 0 && y+rowH > pageH-margin {
			pdf.AddPage()
			y = margin
		}
		x := margin + float64(col)*(frameW+gap)

		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(1.5)
		pdf.Rect(x, y, frameW, frameH, "D")
		pdf.SetLineWidth(1)

		name := "panel" + strconv.Itoa(p.Panel.Index)
		if imgType := registerImage(pdf, name, images[i]); imgType != "" {
			pdf.ImageOptions(name, x+2, y+2, frameW-4, frameH-4, false,
				gofpdf.ImageOptions{ImageType: imgType}, 0, "")
			caption(pdf, tr, x, y+frameH+4, strconv.Itoa(p.Panel.Index)+". "+p.Panel.Text)
		} else {
			pdf.SetTextColor(180, 40, 40)
			pdf.SetFont("Helvetica", "B", bodySize)
			pdf.SetXY(x+8, y+frameH/2-20)
			pdf.MultiCell(frameW-16, 13, "Could not load image for Panel "+strconv.Itoa(p.Panel.Index)+".", "", "C", false)
			pdf.SetTextColor(40, 40, 40)
			pdf.SetFont("Helvetica", "", bodySize)
			caption(pdf, tr, x, y+frameH+4, p.Panel.Text)
		}

		if col == 1 || i == len(panels)-1 {
			y += rowH
		}
	}
	pdf.SetY(y)
}

// caption writes at most maxCaption lines of text under a frame.
func caption(pdf *gofpdf.Fpdf, tr func(string) string, x, y float64, text string) {
	pdf.SetFont("Helvetica", "", 9)
	lines := pdf.SplitLines([]byte(tr(text)), frameW)
	if len(lines) > maxCaption {
		lines = lines[:maxCaption]
		last := strings.TrimRight(string(lines[maxCaption-1]), " ")
		if len(last) > 3 {
			last = last[:len(last)-3]
		}
		lines[maxCaption-1] = []byte(last + "...")
	}
	for i, l := range lines {
		pdf.SetXY(x, y+float64(i)*captionH)
		pdf.CellFormat(frameW, captionH, string(l), "", 0, "L", false, 0, "")
	}
	pdf.SetFont("Helvetica", "", bodySize)
}

// registerImage adds b to the document and returns its gofpdf image type,
// or "" when b is missing or not a decodable PNG, JPEG or GIF.
func registerImage(pdf *gofpdf.Fpdf, name string, b []byte) string {
	if len(b) == 0 {
		return ""
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return ""
	}
	var imgType string
	switch format {
	case "png":
		imgType = "PNG"
	case "jpeg":
		imgType = "JPG"
	case "gif":
		imgType = "GIF"
	default:
		return ""
	}
	pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(b))
	if !pdf.Ok() {
		pdf.ClearError()
		return ""
	}
	return imgType
}

// tint mixes the colour toward white; f=1 is white.
func (c rgb) tint(f float64) rgb {
	mix := func(v int) int { return v + int(float64(255-v)*f) }
	return rgb{mix(c.r), mix(c.g), mix(c.b)}
}

// parseHex reads "#rrggbb", returning def when s is malformed.
func parseHex(s string, def rgb) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return def
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return def
	}
	return rgb{int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)}
}

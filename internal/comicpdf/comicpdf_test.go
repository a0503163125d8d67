package comicpdf

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ecostory/internal/game"
)

type stubFetcher struct {
	mu    sync.Mutex
	calls []string
	data  []byte
	err   error
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, url)
	return s.data, s.err
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 0, G: 119, B: 182, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode PNG: %v", err)
	}
	return buf.Bytes()
}

func testCycle(panels ...game.PanelImage) *game.Cycle {
	return &game.Cycle{
		Selection: game.UserSelection{Hero: "Maya", Setting: "garden", Habit: "watering plants", Theme: "Nature Kids"},
		Title:     "Maya's Adventure in the Garden",
		Story:     "Maya saw the hose running.\nShe turned it off. 🌿",
		SceneText: "1. Maya sees the hose.\n2. She turns it off.",
		Rules:     game.RulesFor("watering plants"),
		Theme:     game.ResolveTheme("Nature Kids"),
		Panels:    panels,
	}
}

func isPDF(b []byte) bool {
	return bytes.HasPrefix(b, []byte("%PDF"))
}

func TestGenerate_NilCycle(t *testing.T) {
	_, err := Generate(context.Background(), nil, nil)
	if !errors.Is(err, ErrNoCycle) {
		t.Fatalf("Expected ErrNoCycle, got %v", err)
	}
}

func TestGenerate_EmbedsImagesForOKPanelsOnly(t *testing.T) {
	f := &stubFetcher{data: pngBytes(t)}
	c := testCycle(
		game.PanelImage{Panel: game.Panel{Index: 1, Text: "Maya sees the hose."}, Status: game.PanelOK, URL: "https://img/1.png"},
		game.PanelImage{Panel: game.Panel{Index: 2, Text: "She turns it off."}, Status: game.PanelDegraded, Reason: "boom"},
		game.PanelImage{Panel: game.Panel{Index: 3, Text: "The garden is green."}, Status: game.PanelOK, URL: "https://img/3.png"},
	)
	b, err := Generate(context.Background(), c, f)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !isPDF(b) {
		t.Error("output is not a PDF (missing %PDF header)")
	}
	if len(f.calls) != 2 {
		t.Errorf("Expected 2 fetches, got %d: %v", len(f.calls), f.calls)
	}
	for _, u := range f.calls {
		if u == "" {
			t.Error("Expected no fetch for the degraded panel")
		}
	}
}

func TestGenerate_FetchFailureStillRenders(t *testing.T) {
	f := &stubFetcher{err: errors.New("expired")}
	c := testCycle(game.PanelImage{Panel: game.Panel{Index: 1, Text: "x"}, Status: game.PanelOK, URL: "https://img/1.png"})
	b, err := Generate(context.Background(), c, f)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !isPDF(b) {
		t.Error("output is not a PDF")
	}
}

func TestGenerate_GarbageImageStillRenders(t *testing.T) {
	f := &stubFetcher{data: []byte("<html>not an image</html>")}
	c := testCycle(game.PanelImage{Panel: game.Panel{Index: 1, Text: "x"}, Status: game.PanelOK, URL: "https://img/1.png"})
	b, err := Generate(context.Background(), c, f)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !isPDF(b) {
		t.Error("output is not a PDF")
	}
}

func TestGenerate_UnparsedAndManyPanels(t *testing.T) {
	unparsed := testCycle()
	unparsed.SceneText = "Here is a comic without numbers."
	if b, err := Generate(context.Background(), unparsed, nil); err != nil || !isPDF(b) {
		t.Fatalf("Generate unparsed: err=%v pdf=%v", err, isPDF(b))
	}

	var panels []game.PanelImage
	for i := 1; i <= game.MaxPanels; i++ {
		panels = append(panels, game.PanelImage{
			Panel:  game.Panel{Index: i, Text: "A very long panel description that goes on and on so the caption has to wrap over several lines and eventually be cut short."},
			Status: game.PanelDegraded,
		})
	}
	if b, err := Generate(context.Background(), testCycle(panels...), nil); err != nil || !isPDF(b) {
		t.Fatalf("Generate six panels: err=%v pdf=%v", err, isPDF(b))
	}
}

func TestParseHex(t *testing.T) {
	def := rgb{1, 2, 3}
	tests := []struct {
		in   string
		want rgb
	}{
		{"#0077b6", rgb{0, 119, 182}},
		{"e8f5e9", rgb{232, 245, 233}},
		{"#fff", def},
		{"#zzzzzz", def},
		{"", def},
		{"linear-gradient(to bottom right, #1b5e20, #4caf50)", def},
	}
	for _, tt := range tests {
		if got := parseHex(tt.in, def); got != tt.want {
			t.Errorf("parseHex(%q) = %v, expected %v", tt.in, got, tt.want)
		}
	}
}

func TestTint(t *testing.T) {
	c := rgb{0, 153, 255}
	if got := c.tint(0); got != c {
		t.Errorf("Expected unchanged colour, got %v", got)
	}
	if got := c.tint(1); got != (rgb{255, 255, 255}) {
		t.Errorf("Expected white, got %v", got)
	}
}

func TestCachingFetcher(t *testing.T) {
	next := &stubFetcher{data: []byte("img")}
	f := NewCachingFetcher(next, time.Minute)
	for i := 0; i < 3; i++ {
		b, err := f.Fetch(context.Background(), "https://img/1.png")
		if err != nil || string(b) != "img" {
			t.Fatalf("Fetch: %q, %v", b, err)
		}
	}
	if len(next.calls) != 1 {
		t.Errorf("Expected 1 upstream fetch, got %d", len(next.calls))
	}

	next.err = errors.New("gone")
	if _, err := f.Fetch(context.Background(), "https://img/2.png"); err == nil {
		t.Error("Expected error for uncached failing url")
	}
}

func TestHTTPFetcher(t *testing.T) {
	img := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	b, err := HTTPFetcher{}.Fetch(context.Background(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(b, img) {
		t.Error("Expected image bytes back")
	}
	if _, err := (HTTPFetcher{Client: srv.Client()}).Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Error("Expected error for 404")
	}
}

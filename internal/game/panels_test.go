package game

import (
	"reflect"
	"strconv"
	"testing"
)

func panelTexts(ps []Panel) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Text
	}
	return out
}

func TestExtractPanels_Simple(t *testing.T) {
	got := ExtractPanels("1. A cat sits.\n2. A dog runs.\n3. Rain falls.")
	want := []Panel{
		{Index: 1, Text: "A cat sits."},
		{Index: 2, Text: "A dog runs."},
		{Index: 3, Text: "Rain falls."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestExtractPanels_TruncatesAtSix(t *testing.T) {
	var texts []string
	for i := 1; i <= 8; i++ {
		texts = append(texts, "Scene number "+strconv.Itoa(i)+".")
	}
	got := ExtractPanels(NumberPanels(texts))
	if len(got) != MaxPanels {
		t.Fatalf("Expected %d panels, got %d", MaxPanels, len(got))
	}
	for i, p := range got {
		if p.Index != i+1 {
			t.Errorf("Panel %d: expected index %d, got %d", i, i+1, p.Index)
		}
		if p.Text != texts[i] {
			t.Errorf("Panel %d: expected text %q, got %q", i, texts[i], p.Text)
		}
	}
}

func TestExtractPanels_NoMarkers(t *testing.T) {
	inputs := []string{
		"",
		"Just a paragraph without numbers.",
		"Panel one: a cat.\nPanel two: a dog.",
		"3.5 liters saved\nv1.2 release",
		"1.Tight\n2.Spacing",
	}
	for _, in := range inputs {
		if got := ExtractPanels(in); len(got) != 0 {
			t.Errorf("ExtractPanels(%q): expected no panels, got %v", in, got)
		}
	}
}

func TestExtractPanels_PreambleDropped(t *testing.T) {
	in := "Here is your comic:\n\n1. The hero wakes up.\n2. The hero brushes teeth."
	got := panelTexts(ExtractPanels(in))
	want := []string{"The hero wakes up.", "The hero brushes teeth."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractPanels_MultilineBody(t *testing.T) {
	in := "1. Andy at the sink.\nThe tap is running.\n\n2. Drippy appears."
	got := ExtractPanels(in)
	if len(got) != 2 {
		t.Fatalf("Expected 2 panels, got %d", len(got))
	}
	if got[0].Text != "Andy at the sink.\nThe tap is running." {
		t.Errorf("Unexpected first panel text %q", got[0].Text)
	}
	if got[1].Text != "Drippy appears." {
		t.Errorf("Unexpected second panel text %q", got[1].Text)
	}
}

func TestExtractPanels_IndexByPositionNotNumber(t *testing.T) {
	got := ExtractPanels("3. Third first.\n1. Then one.\n7. Then seven.")
	want := []Panel{
		{Index: 1, Text: "Third first."},
		{Index: 2, Text: "Then one."},
		{Index: 3, Text: "Then seven."},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestExtractPanels_MultiDigitAndCRLF(t *testing.T) {
	got := panelTexts(ExtractPanels("10. Ten.\r\n11.   Eleven.\r\n"))
	want := []string{"Ten.", "Eleven."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractPanels_MarkerOnOwnLine(t *testing.T) {
	got := panelTexts(ExtractPanels("1.\nA cat sits.\n2.\nA dog runs."))
	want := []string{"A cat sits.", "A dog runs."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractPanels_DecimalInsideBodyIsNotMarker(t *testing.T) {
	got := panelTexts(ExtractPanels("1. Andy saves water.\n2.5 gallons saved!\n2. Drippy cheers."))
	want := []string{"Andy saves water.\n2.5 gallons saved!", "Drippy cheers."}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestExtractPanels_RoundTrip(t *testing.T) {
	inputs := []string{
		"1. A cat sits.\n2. A dog runs.\n3. Rain falls.",
		"Intro\n1. One\nstill one\n2. Two\n3. Three\n4. Four\n5. Five\n6. Six\n7. Seven",
		"5. Out of order\n2. Body\n  with indent",
	}
	for _, in := range inputs {
		first := panelTexts(ExtractPanels(in))
		second := panelTexts(ExtractPanels(NumberPanels(first)))
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Round trip of %q: %q != %q", in, first, second)
		}
	}
}

func TestCutNumberMarker(t *testing.T) {
	tests := []struct {
		line   string
		rest   string
		marker bool
	}{
		{"1. Hello", "Hello", true},
		{"  2.\tTabbed", "Tabbed", true},
		{"3.", "", true},
		{"42.  Spaced", "Spaced", true},
		{"1.Hello", "", false},
		{"1) Hello", "", false},
		{". Hello", "", false},
		{"a1. Hello", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		rest, ok := cutNumberMarker(tt.line)
		if ok != tt.marker || rest != tt.rest {
			t.Errorf("cutNumberMarker(%q) = (%q, %v), expected (%q, %v)", tt.line, rest, ok, tt.rest, tt.marker)
		}
	}
}

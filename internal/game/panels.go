package game

import (
	"strconv"
	"strings"
)

// MaxPanels is the most panels a comic gets; the scene prompt asks for 4 to 6.
const MaxPanels = 6

type extractState int

const (
	seekingNumberMarker extractState = iota
	accumulatingPanelBody
)

// ExtractPanels splits a numbered scene breakdown ("1. ...\n2. ...") into
// panels. A line opens a new panel when it starts with digits and a period
// followed by whitespace or end of line; the lines after it, up to the next
// such line, belong to that panel. Text before the first marker is dropped.
// At most MaxPanels panels are returned, indexed by position. A breakdown
// with no marker yields an empty slice.
func ExtractPanels(sceneText string) []Panel {
	var (
		state extractState
		body  []string
		out   []Panel
	)
	closePanel := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		out = append(out, Panel{Index: len(out) + 1, Text: text})
		body = nil
	}

	for _, line := range strings.Split(sceneText, "\n") {
		line = strings.TrimSuffix(line, "\r")
		rest, isMarker := cutNumberMarker(line)

		switch state {
		case seekingNumberMarker:
			if !isMarker {
				continue
			}
			body = []string{rest}
			state = accumulatingPanelBody
		case accumulatingPanelBody:
			if !isMarker {
				body = append(body, line)
				continue
			}
			closePanel()
			if len(out) == MaxPanels {
				return out
			}
			body = []string{rest}
		}
	}
	if state == accumulatingPanelBody {
		closePanel()
	}
	return out
}

// cutNumberMarker reports whether line starts with "N." followed by
// whitespace or end of line (leading blanks allowed) and returns the text
// after the marker.
func cutNumberMarker(line string) (string, bool) {
	s := strings.TrimLeft(line, " \t")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '.' {
		return "", false
	}
	rest := s[i+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimLeft(rest, " \t"), true
}

// NumberPanels renders panels back into "1. text" lines.
func NumberPanels(texts []string) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(t)
	}
	return b.String()
}

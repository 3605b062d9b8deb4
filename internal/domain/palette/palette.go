// Package palette maps event types to strip colours.
package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/okian/headlights/internal/domain/classify"
	"github.com/okian/headlights/internal/domain/model"
	"github.com/okian/headlights/internal/domain/strip"
)

var defaults = map[model.EventType]strip.Color{
	model.LocationToWork: {R: 100, G: 255, B: 0},
	model.LocationToHome: {R: 100, G: 0, B: 0},
	model.HomeToWork:     {R: 200, G: 255, B: 0},
	model.WorkToHome:     {R: 255, G: 100, B: 0},
	model.Calendar:       {R: 150, G: 0, B: 255},
	model.Settings:       {R: 0, G: 255, B: 50},
	model.Error:          {R: 0, G: 255, B: 0},
}

// Palette is a total map from displayable event types to colours.
// It is immutable once built.
type Palette struct {
	colors map[model.EventType]strip.Color
}

// Default returns the stock palette.
func Default() *Palette {
	p := &Palette{colors: make(map[model.EventType]strip.Color, len(defaults))}
	for t, c := range defaults {
		p.colors[t] = c
	}
	return p
}

// New returns the stock palette with overrides applied. Keys are event type
// wire names ("location_work", "error", ...); values are hex colours.
func New(overrides map[string]string) (*Palette, error) {
	p := Default()
	for name, hex := range overrides {
		t := classify.ParseEventType(name)
		if !t.Known() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, name)
		}
		c, err := ParseHex(hex)
		if err != nil {
			return nil, fmt.Errorf("color for %s: %w", name, err)
		}
		p.colors[t] = c
	}
	return p, nil
}

// Lookup returns the colour for t. It reports false for Unrecognized.
func (p *Palette) Lookup(t model.EventType) (strip.Color, bool) {
	c, ok := p.colors[t]
	return c, ok
}

// Entries returns the palette as wire name -> hex, sorted by name.
func (p *Palette) Entries() []Entry {
	out := make([]Entry, 0, len(p.colors))
	for t, c := range p.colors {
		out = append(out, Entry{Type: t.String(), Color: Hex(c)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Entry is one palette row.
type Entry struct {
	Type  string `json:"type"`
	Color string `json:"color"`
}

// ParseHex parses "#rrggbb" or "#rgb"; the leading '#' is optional.
func ParseHex(s string) (strip.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return strip.Off, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	r, g, b := c.RGB255()
	return strip.Color{R: r, G: g, B: b}, nil
}

// Hex formats c as "#rrggbb".
func Hex(c strip.Color) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

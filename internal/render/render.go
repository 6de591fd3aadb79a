// Package render lays status lines out on a monochrome bitmap.
package render

import (
	"image"
	"image/color"
	"strings"

	"codeberg.org/mutker/pistatus/internal/logger"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// LeftMargin is the x origin of every line.
	LeftMargin = 5
	// LineGap is added to the font size to get the line pitch.
	LineGap   = 2
	separator = ":"
)

// Palette is the two-colour palette of a Surface. Index 0 is the white
// background.
var Palette = color.Palette{color.White, color.Black}

// NewSurface returns a blank white 1-bit canvas.
func NewSurface(width, height int) *image.Paletted {
	return image.NewPaletted(image.Rect(0, 0, width, height), Palette)
}

// Placement is where one line is drawn. Y is the top of the line box.
type Placement struct {
	Y      int
	Label  string
	Value  string
	LabelX int
	ValueX int
}

// Result summarizes a render pass.
type Result struct {
	Drawn   int
	Dropped []string
}

type Renderer struct {
	fonts  *Fonts
	logger logger.Logger
}

func New(fonts *Fonts, log logger.Logger) *Renderer {
	if log == nil {
		log = logger.Nop()
	}

	return &Renderer{fonts: fonts, logger: log}
}

// Pitch returns the vertical distance between consecutive line origins.
func (r *Renderer) Pitch() int {
	return r.fonts.Size + LineGap
}

// LineHeight is the height of a line box, from the top of the tallest
// ascender to the bottom of the deepest descender of either face.
func (r *Renderer) LineHeight() int {
	return max(extent(r.fonts.Bold), extent(r.fonts.Regular))
}

func extent(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// Layout places lines top to bottom. Lines whose box would extend past
// height are returned as dropped instead of placed.
func (r *Renderer) Layout(lines []string, height int) ([]Placement, []string) {
	placements := make([]Placement, 0, len(lines))
	var dropped []string

	lineHeight := r.LineHeight()
	y := 0
	for _, line := range lines {
		if y+lineHeight > height {
			dropped = append(dropped, line)
			continue
		}

		p := Placement{Y: y, LabelX: LeftMargin, ValueX: LeftMargin, Value: line}
		if label, value, ok := strings.Cut(line, separator); ok {
			p.Label = label + separator + " "
			p.Value = strings.TrimSpace(value)
			p.ValueX = LeftMargin + font.MeasureString(r.fonts.Bold, p.Label).Ceil()
		}

		placements = append(placements, p)
		y += r.Pitch()
	}

	return placements, dropped
}

// Render draws lines on a fresh width x height surface.
func (r *Renderer) Render(lines []string, width, height int) (*image.Paletted, Result) {
	img := NewSurface(width, height)
	placements, dropped := r.Layout(lines, height)

	for _, p := range placements {
		if p.Label != "" {
			r.draw(img, r.fonts.Bold, p.LabelX, p.Y, p.Label)
		}
		r.draw(img, r.fonts.Regular, p.ValueX, p.Y, p.Value)
	}

	if len(dropped) > 0 {
		r.logger.Warn().
			Int("height", height).
			Int("pitch", r.Pitch()).
			Strs("dropped", dropped).
			Msg("Status does not fit the display, lines dropped")
	}

	return img, Result{Drawn: len(placements), Dropped: dropped}
}

func (r *Renderer) draw(img *image.Paletted, face font.Face, x, top int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(top) + face.Metrics().Ascent},
	}
	d.DrawString(text)
}

package render_test

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/mutker/pistatus/internal/logger"
	"codeberg.org/mutker/pistatus/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var report = []string{
	"CPU: 12.3%, Battery: 87%, Charging",
	"Memory: 1235/3906 MB",
	"CPU Temp: 48.3°C",
	"Load Avg: 0.50, 0.25, 0.13",
	"IP Addr: 192.168.1.23",
	"Net: Sent: 1.50 MB, Recv: 10.00 MB",
	"Wi-Fi: HomeNet",
	"Tailscale: Down",
}

func goFonts(t *testing.T, size int) *render.Fonts {
	t.Helper()
	bold, err := render.ParseFace(gobold.TTF, size)
	require.NoError(t, err)
	regular, err := render.ParseFace(goregular.TTF, size)
	require.NoError(t, err)
	return &render.Fonts{Bold: bold, Regular: regular, Size: size}
}

func TestLayoutPitch(t *testing.T) {
	for _, size := range []int{8, 10, 12} {
		r := render.New(goFonts(t, size), logger.Nop())

		placements, dropped := r.Layout(report, 1000)
		require.Len(t, placements, len(report))
		assert.Empty(t, dropped)

		assert.Equal(t, 0, placements[0].Y)
		for i := 1; i < len(placements); i++ {
			assert.Equal(t, size+2, placements[i].Y-placements[i-1].Y, "line %d, size %d", i, size)
		}
	}
}

func TestLayoutSplitsLabel(t *testing.T) {
	fonts := goFonts(t, 10)
	r := render.New(fonts, logger.Nop())

	lines := []string{
		"Label: value",
		"Label:value",
		"Label:     value   ",
		"Net: Sent: 1.50 MB, Recv: 2.00 MB",
	}
	placements, _ := r.Layout(lines, 1000)

	for i, p := range placements[:3] {
		assert.Equal(t, "Label: ", p.Label, "line %d", i)
		assert.Equal(t, "value", p.Value, "line %d", i)
		assert.True(t, strings.HasSuffix(p.Label, ": ") && !strings.HasSuffix(p.Label, ":  "))
	}

	assert.Equal(t, "Net: ", placements[3].Label, "split happens at the first separator")
	assert.Equal(t, "Sent: 1.50 MB, Recv: 2.00 MB", placements[3].Value)

	labelWidth := font.MeasureString(fonts.Bold, "Label: ").Ceil()
	assert.Equal(t, render.LeftMargin, placements[0].LabelX)
	assert.Equal(t, render.LeftMargin+labelWidth, placements[0].ValueX)
}

func TestLayoutWithoutSeparator(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())

	placements, _ := r.Layout([]string{"plain text line"}, 100)
	require.Len(t, placements, 1)
	assert.Empty(t, placements[0].Label)
	assert.Equal(t, "plain text line", placements[0].Value)
	assert.Equal(t, render.LeftMargin, placements[0].ValueX)
}

func TestLayoutDropsOverflow(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())

	placements, dropped := r.Layout(report, 30)
	require.Len(t, placements, 2)
	assert.Equal(t, report[2:], dropped)

	// 8 lines at pitch 12 with a 12 pixel box need 7*12+12 = 96 pixels.
	require.Equal(t, 12, r.LineHeight())
	placements, dropped = r.Layout(report, 96)
	assert.Len(t, placements, 8)
	assert.Empty(t, dropped)

	placements, dropped = r.Layout(report, 95)
	assert.Len(t, placements, 7)
	assert.Equal(t, []string{report[7]}, dropped)
}

func blackRows(img *image.Paletted) []bool {
	b := img.Bounds()
	rows := make([]bool, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.ColorIndexAt(x, y) != 0 {
				rows[y-b.Min.Y] = true
				break
			}
		}
	}
	return rows
}

func TestRender(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())

	img, res := r.Render(report, 200, 96)
	assert.Equal(t, image.Rect(0, 0, 200, 96), img.Bounds())
	assert.Equal(t, 8, res.Drawn)
	assert.Empty(t, res.Dropped)
	assert.Len(t, img.Palette, 2)

	rows := blackRows(img)
	for i := range report {
		inked := false
		for y := i * 12; y < i*12+12 && y < len(rows); y++ {
			inked = inked || rows[y]
		}
		assert.True(t, inked, "line %d has ink", i)
	}

	// One column of slack for glyph side bearings.
	for x := 0; x < render.LeftMargin-1; x++ {
		for y := 0; y < 96; y++ {
			require.Zero(t, img.ColorIndexAt(x, y), "left margin stays blank at %d,%d", x, y)
		}
	}
}

func TestLineHeightCoversDescenders(t *testing.T) {
	fonts := goFonts(t, 10)
	r := render.New(fonts, logger.Nop())

	for _, face := range []font.Face{fonts.Bold, fonts.Regular} {
		m := face.Metrics()
		assert.GreaterOrEqual(t, r.LineHeight()*64, int(m.Ascent+m.Descent))
	}
	assert.Greater(t, r.LineHeight(), fonts.Size, "box is taller than the nominal font size")
}

func TestRenderInkStaysInsideLineBox(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())
	lines := []string{"Wi-Fi: gjpqy", "Tailscale: gjpqy"}

	img, res := r.Render(lines, 200, 60)
	require.Equal(t, 2, res.Drawn)

	rows := blackRows(img)
	bottom := r.Pitch() + r.LineHeight()
	for y := bottom; y < len(rows); y++ {
		assert.False(t, rows[y], "row %d below the last line box has ink", y)
	}
	assert.True(t, rows[bottom-3] || rows[bottom-2] || rows[bottom-1], "descenders reach into the box bottom")
}

func TestRenderTruncated(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())

	img, res := r.Render(report, 200, 40)
	assert.Equal(t, 3, res.Drawn)
	assert.Len(t, res.Dropped, 5)
	assert.Equal(t, image.Rect(0, 0, 200, 40), img.Bounds())
}

func TestRenderEmpty(t *testing.T) {
	r := render.New(goFonts(t, 10), logger.Nop())

	img, res := r.Render(nil, 16, 8)
	assert.Zero(t, res.Drawn)
	for _, px := range img.Pix {
		require.Zero(t, px)
	}
}

func TestLoadFonts(t *testing.T) {
	dir := t.TempDir()
	regular := filepath.Join(dir, "regular.ttf")
	require.NoError(t, os.WriteFile(regular, goregular.TTF, 0o600))

	fonts, err := render.LoadFonts(filepath.Join(dir, "missing-bold.ttf"), regular, 10, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 10, fonts.Size)
	assert.NotNil(t, fonts.Bold, "missing font falls back to the bundled face")
	assert.NotNil(t, fonts.Regular)

	boldFallback := font.MeasureString(fonts.Bold, "Memory: ")
	want, err := render.ParseFace(gobold.TTF, 10)
	require.NoError(t, err)
	assert.Equal(t, font.MeasureString(want, "Memory: "), boldFallback)
}

func TestLoadFaceErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := render.LoadFace(filepath.Join(dir, "nope.ttf"), 10)
	assert.Error(t, err)

	junk := filepath.Join(dir, "junk.ttf")
	require.NoError(t, os.WriteFile(junk, []byte("not a font"), 0o600))
	_, err = render.LoadFace(junk, 10)
	assert.Error(t, err)
}

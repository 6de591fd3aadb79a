package display

import (
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/mutker/pistatus/internal/errors"
)

// Papirus EPD FUSE commands written to <path>/command.
const (
	CommandUpdate        = 'U'
	CommandFastUpdate    = 'F'
	CommandPartialUpdate = 'P'
	CommandClear         = 'C'
)

// Panel describes the attached panel, e.g. "EPD 2.0 200x96 COG 2 FILM 231".
type Panel struct {
	Name   string
	Size   string
	Width  int
	Height int
	COG    int
	Film   int
}

var panelPattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d+\.\d+)\s+(\d+)x(\d+)\s+COG\s+(\d+)\s+FILM\s+(\d+)\s*$`)

// ParsePanel parses the contents of the EPD panel file.
func ParsePanel(s string) (Panel, error) {
	m := panelPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Panel{}, errors.New().WithData(ErrPanelFormat, strings.TrimSpace(s))
	}

	atoi := func(v string) int {
		n, _ := strconv.Atoi(v)
		return n
	}

	return Panel{
		Name:   m[1],
		Size:   m[2],
		Width:  atoi(m[3]),
		Height: atoi(m[4]),
		COG:    atoi(m[5]),
		Film:   atoi(m[6]),
	}, nil
}

// Papirus drives a Papirus HAT through the EPD FUSE filesystem.
type Papirus struct {
	path    string
	panel   Panel
	command byte
}

// OpenPapirus reads the panel description under path (normally /dev/epd).
// command is the refresh command sent by Update.
func OpenPapirus(path string, command byte) (*Papirus, error) {
	raw, err := os.ReadFile(filepath.Join(path, "panel"))
	if err != nil {
		return nil, errors.New().Wrap(ErrPanelRead, err)
	}

	panel, err := ParsePanel(string(raw))
	if err != nil {
		return nil, err
	}

	return &Papirus{path: path, panel: panel, command: command}, nil
}

func (p *Papirus) Panel() Panel { return p.panel }
func (p *Papirus) Width() int   { return p.panel.Width }
func (p *Papirus) Height() int  { return p.panel.Height }

// Display writes the frame to the panel buffer.
func (p *Papirus) Display(img *image.Paletted) error {
	errFactory := errors.New()

	b := img.Bounds()
	if b.Dx() != p.panel.Width || b.Dy() != p.panel.Height {
		return errFactory.WithData(ErrSizeMismatch, struct {
			Want, Got image.Point
		}{image.Pt(p.panel.Width, p.panel.Height), b.Size()})
	}

	f, err := os.OpenFile(filepath.Join(p.path, "LE", "display_inverse"), os.O_RDWR, 0)
	if err != nil {
		return errFactory.Wrap(ErrWriteFrame, err)
	}
	defer f.Close()

	if _, err := f.Write(PackBits(img)); err != nil {
		return errFactory.Wrap(ErrWriteFrame, err)
	}

	return nil
}

// Update refreshes the panel from its buffer.
func (p *Papirus) Update() error {
	return p.send(p.command)
}

// Clear blanks the panel.
func (p *Papirus) Clear() error {
	return p.send(CommandClear)
}

func (p *Papirus) Close() error {
	return nil
}

func (p *Papirus) send(cmd byte) error {
	f, err := os.OpenFile(filepath.Join(p.path, "command"), os.O_WRONLY, 0)
	if err != nil {
		return errors.New().Wrap(ErrCommand, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte{cmd}); err != nil {
		return errors.New().Wrap(ErrCommand, err)
	}

	return nil
}

// PackBits packs a frame row-major, MSB first, one bit per pixel with the
// bit set for white. Rows are padded to a whole byte.
func PackBits(img *image.Paletted) []byte {
	b := img.Bounds()
	stride := (b.Dx() + 7) / 8
	out := make([]byte, stride*b.Dy())

	for y := 0; y < b.Dy(); y++ {
		row := out[y*stride : (y+1)*stride]
		for x := 0; x < b.Dx(); x++ {
			if isWhite(img, b.Min.X+x, b.Min.Y+y) {
				row[x/8] |= 0x80 >> uint(x%8)
			}
		}
	}

	return out
}

func isWhite(img *image.Paletted, x, y int) bool {
	r, g, b, _ := img.Palette[img.ColorIndexAt(x, y)].RGBA()
	// Luma threshold at half intensity.
	return 299*r+587*g+114*b >= 1000*0x7fff
}

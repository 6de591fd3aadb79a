package display

import (
	"image"
	"image/png"
	"os"
	"path/filepath"

	"codeberg.org/mutker/pistatus/internal/errors"
)

// PNG writes each committed frame to a file. It stands in for a panel
// when developing away from the device.
type PNG struct {
	path    string
	width   int
	height  int
	pending *image.Paletted
}

func NewPNG(path string, width, height int) *PNG {
	return &PNG{path: path, width: width, height: height}
}

func (p *PNG) Width() int  { return p.width }
func (p *PNG) Height() int { return p.height }

func (p *PNG) Display(img *image.Paletted) error {
	if img.Bounds().Dx() != p.width || img.Bounds().Dy() != p.height {
		return errors.New().WithData(ErrSizeMismatch, img.Bounds().Size())
	}
	p.pending = img

	return nil
}

// Update writes the pending frame, replacing the file atomically.
func (p *PNG) Update() error {
	errFactory := errors.New()

	if p.pending == nil {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".pistatus-*.png")
	if err != nil {
		return errFactory.Wrap(ErrWriteFrame, err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, p.pending); err != nil {
		tmp.Close()
		return errFactory.Wrap(ErrWriteFrame, err)
	}
	if err := tmp.Close(); err != nil {
		return errFactory.Wrap(ErrWriteFrame, err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return errFactory.Wrap(ErrWriteFrame, err)
	}

	return nil
}

func (p *PNG) Close() error {
	return nil
}

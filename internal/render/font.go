package render

import (
	"os"

	"codeberg.org/mutker/pistatus/internal/errors"
	"codeberg.org/mutker/pistatus/internal/logger"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Fonts holds the two weights used for a status line.
type Fonts struct {
	Bold    font.Face
	Regular font.Face
	Size    int
}

// ParseFace parses TrueType data at the given pixel size.
func ParseFace(data []byte, size int) (font.Face, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.New().Wrap(ErrFontParse, err)
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// LoadFace reads and parses a TrueType file.
func LoadFace(path string, size int) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New().Wrap(ErrFontRead, err)
	}

	return ParseFace(data, size)
}

// LoadFonts loads the bold and regular faces. A font that cannot be loaded
// is replaced by the bundled Go font of the same weight.
func LoadFonts(boldPath, regularPath string, size int, log logger.Logger) (*Fonts, error) {
	bold, err := loadOrFallback(boldPath, gobold.TTF, size, log)
	if err != nil {
		return nil, err
	}

	regular, err := loadOrFallback(regularPath, goregular.TTF, size, log)
	if err != nil {
		return nil, err
	}

	return &Fonts{Bold: bold, Regular: regular, Size: size}, nil
}

func loadOrFallback(path string, fallback []byte, size int, log logger.Logger) (font.Face, error) {
	face, err := LoadFace(path, size)
	if err == nil {
		return face, nil
	}

	log.Warn().Err(err).Str("path", path).Msg("Font unavailable, using bundled Go font")

	return ParseFace(fallback, size)
}

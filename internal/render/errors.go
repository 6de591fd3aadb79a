package render

import "codeberg.org/mutker/pistatus/internal/errors"

const (
	ErrFontRead  = errors.ErrorCode("render_font_read_failed")
	ErrFontParse = errors.ErrorCode("render_font_parse_failed")
)

package display

import "codeberg.org/mutker/pistatus/internal/errors"

const (
	ErrPanelRead    = errors.ErrorCode("display_panel_read_failed")
	ErrPanelFormat  = errors.ErrorCode("display_panel_format_invalid")
	ErrSizeMismatch = errors.ErrorCode("display_size_mismatch")
	ErrWriteFrame   = errors.ErrorCode("display_write_frame_failed")
	ErrCommand      = errors.ErrorCode("display_command_failed")
	ErrProbe        = errors.ErrorCode("display_probe_failed")
)

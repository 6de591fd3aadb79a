package monitor

import "codeberg.org/mutker/pistatus/internal/errors"

const (
	ErrPushFrame = errors.ErrorCode("monitor_push_frame_failed")
	ErrRefresh   = errors.ErrorCode("monitor_refresh_failed")
)

package pijuice

import "codeberg.org/mutker/pistatus/internal/errors"

const (
	ErrHostInit     = errors.ErrorCode("pijuice_host_init_failed")
	ErrBusOpen      = errors.ErrorCode("pijuice_bus_open_failed")
	ErrTransfer     = errors.ErrorCode("pijuice_transfer_failed")
	ErrChecksum     = errors.ErrorCode("pijuice_checksum_mismatch")
	ErrInvalidValue = errors.ErrorCode("pijuice_invalid_value")
	ErrClosed       = errors.ErrorCode("pijuice_closed")
)

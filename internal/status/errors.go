package status

import "codeberg.org/mutker/pistatus/internal/errors"

const (
	ErrCPUSample        = errors.ErrorCode("status_cpu_sample_failed")
	ErrMemoryRead       = errors.ErrorCode("status_memory_read_failed")
	ErrLoadRead         = errors.ErrorCode("status_load_read_failed")
	ErrInterfacesRead   = errors.ErrorCode("status_interfaces_read_failed")
	ErrCountersRead     = errors.ErrorCode("status_counters_read_failed")
	ErrBatteryUnavail   = errors.ErrorCode("status_battery_unavailable")
	ErrTemperatureParse = errors.ErrorCode("status_temperature_parse_failed")
)

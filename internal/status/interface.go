package status

import (
	"context"
	"time"

	"codeberg.org/mutker/pistatus/internal/pijuice"
)

// Sentinels shown in place of a value that could not be read.
const (
	NotAvailable = "N/A"
	BatteryError = "Error"
	OverlayDown  = "Down"
)

// Line is one labeled row of the report.
type Line struct {
	Label string
	Value string
}

// String returns the line as rendered text, "Label: Value".
func (l Line) String() string {
	return l.Label + ": " + l.Value
}

// Report is the ordered set of lines for one refresh cycle. Order is
// display order.
type Report []Line

// Lines returns the report as rendered text lines.
func (r Report) Lines() []string {
	lines := make([]string, len(r))
	for i, l := range r {
		lines[i] = l.String()
	}

	return lines
}

// Field is a best-effort reading: a formatted value or unavailable.
type Field struct {
	value string
	ok    bool
}

// Unavailable marks a reading that could not be taken.
var Unavailable = Field{}

// Value wraps a successfully read value.
func Value(v string) Field {
	return Field{value: v, ok: true}
}

// Available reports whether the reading succeeded.
func (f Field) Available() bool {
	return f.ok
}

// Or returns the value, or fallback if the reading is unavailable.
func (f Field) Or(fallback string) string {
	if !f.ok {
		return fallback
	}

	return f.value
}

// LoadAvg holds the 1, 5 and 15 minute load averages.
type LoadAvg struct {
	Load1, Load5, Load15 float64
}

// Interface is a network interface with its addresses in CIDR notation.
type Interface struct {
	Name  string
	Addrs []string
}

// HostStats provides operating system metrics.
type HostStats interface {
	// CPUPercent blocks for window and returns total CPU utilisation.
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	// Memory returns total and used bytes.
	Memory(ctx context.Context) (total, used uint64, err error)
	LoadAvg(ctx context.Context) (LoadAvg, error)
	// Interfaces returns interfaces in kernel iteration order.
	Interfaces(ctx context.Context) ([]Interface, error)
	// IOCounters returns cumulative bytes sent and received across all interfaces.
	IOCounters(ctx context.Context) (sent, recv uint64, err error)
}

// BatteryReader queries a power-management board.
type BatteryReader interface {
	ChargeLevel() (int, error)
	Status() (pijuice.Status, error)
}

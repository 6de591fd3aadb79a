// Package status samples host telemetry into a fixed-order report.
package status

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/pistatus/internal/logger"
	"github.com/dustin/go-humanize"
)

// DefaultCPUWindow is how long a CPU utilisation sample blocks.
const DefaultCPUWindow = time.Second

// Options configures the file, command and interface sources.
type Options struct {
	TemperaturePath string
	Overlay         string
	SSIDCommand     []string
	CPUWindow       time.Duration
}

// Collector builds a Report from its sources. Every source is best-effort:
// a failure degrades that field to a sentinel and never fails the cycle.
type Collector struct {
	host    HostStats
	battery BatteryReader
	opts    Options
	logger  logger.Logger
}

// NewCollector returns a collector. A nil battery reader behaves as an
// absent board.
func NewCollector(host HostStats, battery BatteryReader, opts Options, log logger.Logger) *Collector {
	if battery == nil {
		battery = UnavailableBattery(nil)
	}
	if opts.CPUWindow <= 0 {
		opts.CPUWindow = DefaultCPUWindow
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Collector{
		host:    host,
		battery: battery,
		opts:    opts,
		logger:  log,
	}
}

// Collect samples every source and returns the report. It always holds
// exactly eight lines.
func (c *Collector) Collect(ctx context.Context) Report {
	start := time.Now()

	cpuLoad := Unavailable
	if pct, err := c.host.CPUPercent(ctx, c.opts.CPUWindow); err == nil {
		cpuLoad = Value(formatPercent(pct))
	} else {
		c.logger.Debug().Err(err).Msg("CPU sample failed")
	}

	battery, err := readBattery(c.battery)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Battery query failed")
	}

	memory := Unavailable
	if total, used, err := c.host.Memory(ctx); err == nil {
		memory = Value(fmt.Sprintf("%d/%d MB", wholeMB(used), wholeMB(total)))
	} else {
		c.logger.Debug().Err(err).Msg("Memory read failed")
	}

	temperature, err := readTemperature(c.opts.TemperaturePath)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", c.opts.TemperaturePath).Msg("Temperature read failed")
	}

	loadAvg := Unavailable
	if avg, err := c.host.LoadAvg(ctx); err == nil {
		loadAvg = Value(fmt.Sprintf("%.2f, %.2f, %.2f", avg.Load1, avg.Load5, avg.Load15))
	} else {
		c.logger.Debug().Err(err).Msg("Load average read failed")
	}

	ifaces, err := c.host.Interfaces(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Interface listing failed")
	}

	network := Unavailable
	if sent, recv, err := c.host.IOCounters(ctx); err == nil {
		network = Value(fmt.Sprintf("Sent: %s MB, Recv: %s MB", formatMB(sent), formatMB(recv)))
		c.logger.Debug().
			Str("sent", humanize.IBytes(sent)).
			Str("recv", humanize.IBytes(recv)).
			Msg("Network counters")
	} else {
		c.logger.Debug().Err(err).Msg("Network counters read failed")
	}

	ssid, err := readSSID(ctx, c.opts.SSIDCommand)
	if err != nil {
		c.logger.Debug().Err(err).Strs("command", c.opts.SSIDCommand).Msg("SSID query failed")
	}

	report := Report{
		{Label: "CPU", Value: cpuBatteryValue(cpuLoad, battery)},
		{Label: "Memory", Value: memory.Or(NotAvailable)},
		{Label: "CPU Temp", Value: temperature.Or(NotAvailable)},
		{Label: "Load Avg", Value: loadAvg.Or(NotAvailable)},
		{Label: "IP Addr", Value: firstIPv4(ifaces).Or(NotAvailable)},
		{Label: "Net", Value: network.Or(NotAvailable)},
		{Label: "Wi-Fi", Value: ssid.Or(NotAvailable)},
		{Label: "Tailscale", Value: interfaceIPv4(ifaces, c.opts.Overlay).Or(OverlayDown)},
	}

	c.logger.Debug().
		Strs("lines", report.Lines()).
		Dur("took", time.Since(start)).
		Msg("Status collected")

	return report
}

func cpuBatteryValue(cpuLoad Field, battery Battery) string {
	cpu := NotAvailable
	if cpuLoad.Available() {
		cpu = cpuLoad.Or("") + "%"
	}

	charge := NotAvailable
	if battery.Charge.Available() {
		charge = battery.Charge.Or("") + "%"
	}

	return fmt.Sprintf("%s, Battery: %s, %s", cpu, charge, battery.State.Or(BatteryError))
}

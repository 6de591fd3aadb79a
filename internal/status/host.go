package status

import (
	"context"
	"time"

	"codeberg.org/mutker/pistatus/internal/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

type hostStats struct{}

// NewHostStats returns HostStats backed by gopsutil.
func NewHostStats() HostStats {
	return hostStats{}
}

func (hostStats) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	errFactory := errors.New()

	pcts, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return 0, errFactory.Wrap(ErrCPUSample, err)
	}
	if len(pcts) == 0 {
		return 0, errFactory.New(ErrCPUSample)
	}

	return pcts[0], nil
}

func (hostStats) Memory(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, errors.New().Wrap(ErrMemoryRead, err)
	}

	return vm.Total, vm.Used, nil
}

func (hostStats) LoadAvg(ctx context.Context) (LoadAvg, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return LoadAvg{}, errors.New().Wrap(ErrLoadRead, err)
	}

	return LoadAvg{Load1: avg.Load1, Load5: avg.Load5, Load15: avg.Load15}, nil
}

func (hostStats) Interfaces(ctx context.Context) ([]Interface, error) {
	stats, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, errors.New().Wrap(ErrInterfacesRead, err)
	}

	ifaces := make([]Interface, 0, len(stats))
	for _, s := range stats {
		iface := Interface{Name: s.Name, Addrs: make([]string, 0, len(s.Addrs))}
		for _, a := range s.Addrs {
			iface.Addrs = append(iface.Addrs, a.Addr)
		}
		ifaces = append(ifaces, iface)
	}

	return ifaces, nil
}

func (hostStats) IOCounters(ctx context.Context) (uint64, uint64, error) {
	errFactory := errors.New()

	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return 0, 0, errFactory.Wrap(ErrCountersRead, err)
	}
	if len(counters) == 0 {
		return 0, 0, errFactory.New(ErrCountersRead)
	}

	return counters[0].BytesSent, counters[0].BytesRecv, nil
}

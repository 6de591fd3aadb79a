package status

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/mutker/pistatus/internal/errors"
	"codeberg.org/mutker/pistatus/internal/pijuice"
)

const bytesPerMB = 1024 * 1024

// Battery is the resolved battery reading. Both fields are unavailable
// when any query fails.
type Battery struct {
	Charge Field
	State  Field
}

func readBattery(r BatteryReader) (Battery, error) {
	level, err := r.ChargeLevel()
	if err != nil {
		return Battery{}, err
	}

	st, err := r.Status()
	if err != nil {
		return Battery{}, err
	}

	return Battery{
		Charge: Value(strconv.Itoa(level)),
		State:  Value(chargingState(st.PowerInput)),
	}, nil
}

func chargingState(p pijuice.PowerState) string {
	switch p {
	case pijuice.PowerPresent:
		return "Charging"
	case pijuice.PowerNotPresent:
		return "Discharging"
	default:
		return "Unknown"
	}
}

// unavailableBattery stands in when the board could not be opened.
type unavailableBattery struct {
	err error
}

// UnavailableBattery returns a BatteryReader that fails every query with err.
func UnavailableBattery(err error) BatteryReader {
	return unavailableBattery{err: errors.New().Wrap(ErrBatteryUnavail, err)}
}

func (u unavailableBattery) ChargeLevel() (int, error) {
	return 0, u.err
}

func (u unavailableBattery) Status() (pijuice.Status, error) {
	return pijuice.Status{}, u.err
}

// readTemperature reads a millidegree value and formats it in degrees
// with one decimal.
func readTemperature(path string) (Field, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Unavailable, err
	}

	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil {
		return Unavailable, errors.New().Wrap(ErrTemperatureParse, err)
	}

	return Value(fmt.Sprintf("%.1f°C", milli/1000)), nil
}

// readSSID runs the wireless tool and returns its trimmed stdout.
func readSSID(ctx context.Context, command []string) (Field, error) {
	if len(command) == 0 {
		return Unavailable, errors.New().New(errors.ErrInvalidArgument)
	}

	out, err := exec.CommandContext(ctx, command[0], command[1:]...).Output()
	if err != nil {
		return Unavailable, err
	}

	ssid := strings.TrimSpace(string(out))
	if ssid == "" {
		return Unavailable, nil
	}

	return Value(ssid), nil
}

// firstIPv4 returns the first non-loopback IPv4 address in iteration order.
func firstIPv4(ifaces []Interface) Field {
	for _, iface := range ifaces {
		for _, addr := range iface.Addrs {
			if ip := parseIPv4(addr); ip != nil && !ip.IsLoopback() {
				return Value(ip.String())
			}
		}
	}

	return Unavailable
}

// interfaceIPv4 returns the first IPv4 address assigned to the named interface.
func interfaceIPv4(ifaces []Interface, name string) Field {
	for _, iface := range ifaces {
		if iface.Name != name {
			continue
		}
		for _, addr := range iface.Addrs {
			if ip := parseIPv4(addr); ip != nil && !ip.IsUnspecified() {
				return Value(ip.String())
			}
		}
	}

	return Unavailable
}

func parseIPv4(addr string) net.IP {
	ip, _, err := net.ParseCIDR(addr)
	if err != nil {
		ip = net.ParseIP(addr)
	}

	return ip.To4()
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', 1, 64)
}

func wholeMB(b uint64) uint64 {
	return uint64(math.Round(float64(b) / bytesPerMB))
}

func formatMB(b uint64) string {
	return strconv.FormatFloat(float64(b)/bytesPerMB, 'f', 2, 64)
}

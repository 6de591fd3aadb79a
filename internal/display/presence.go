package display

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"codeberg.org/mutker/pistatus/internal/errors"
)

// DefaultAddress is the I2C address of the Papirus HAT.
const DefaultAddress = 0x48

// Require runs i2cdetect on bus and returns an ErrDeviceAbsent error unless
// addr answers. A missing or failing tool counts as an absent device.
func Require(ctx context.Context, bus string, addr int) error {
	return requireWith(ctx, "i2cdetect", bus, addr)
}

func requireWith(ctx context.Context, tool, bus string, addr int) error {
	errFactory := errors.New()

	present, err := probeWith(ctx, tool, bus, addr)
	if err != nil {
		return errFactory.Wrap(errors.ErrDeviceAbsent, err)
	}
	if !present {
		return errFactory.WithData(errors.ErrDeviceAbsent, fmt.Sprintf("0x%02x on bus %s", addr, bus))
	}

	return nil
}

func probeWith(ctx context.Context, tool, bus string, addr int) (bool, error) {
	out, err := exec.CommandContext(ctx, tool, "-y", bus).Output()
	if err != nil {
		return false, errors.New().Wrap(ErrProbe, err)
	}

	return ParseDetect(string(out), addr), nil
}

// ParseDetect reports whether addr is present in i2cdetect output. A cell
// holding the address or "UU" (claimed by a kernel driver) counts.
func ParseDetect(out string, addr int) bool {
	rowBase := addr &^ 0x0F
	col := addr & 0x0F
	want := fmt.Sprintf("%02x", addr)

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		prefix, cells, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}

		base, err := strconv.ParseUint(strings.TrimSpace(prefix), 16, 8)
		if err != nil || int(base) != rowBase {
			continue
		}

		// Cells are three characters wide; low addresses on row 00 are
		// left blank rather than printed as "--".
		start := 1 + 3*col
		if start+2 > len(cells) {
			return false
		}
		cell := strings.ToLower(cells[start : start+2])

		return cell == want || cell == "uu"
	}

	return false
}

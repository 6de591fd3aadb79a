// Package pijuice reads battery state from a PiJuice HAT over I2C.
package pijuice

import (
	"codeberg.org/mutker/pistatus/internal/errors"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const (
	DefaultAddress = 0x14

	cmdStatus      = 0x40
	cmdChargeLevel = 0x41
)

// PowerState describes a power input as reported by the firmware
type PowerState string

const (
	PowerNotPresent PowerState = "NOT_PRESENT"
	PowerBad        PowerState = "BAD"
	PowerWeak       PowerState = "WEAK"
	PowerPresent    PowerState = "PRESENT"
)

var powerStates = [4]PowerState{PowerNotPresent, PowerBad, PowerWeak, PowerPresent}

// BatteryState describes the battery as reported by the firmware
type BatteryState string

const (
	BatteryNormal           BatteryState = "NORMAL"
	BatteryChargingFromIn   BatteryState = "CHARGING_FROM_IN"
	BatteryChargingFrom5VIO BatteryState = "CHARGING_FROM_5V_IO"
	BatteryNotPresent       BatteryState = "NOT_PRESENT"
)

var batteryStates = [4]BatteryState{BatteryNormal, BatteryChargingFromIn, BatteryChargingFrom5VIO, BatteryNotPresent}

// Status is the decoded status register
type Status struct {
	Fault          bool
	Button         bool
	Battery        BatteryState
	PowerInput     PowerState
	PowerInput5VIO PowerState
}

// Client talks to one PiJuice board. It is opened once and passed to
// whoever needs battery readings. A Client is not safe for concurrent use.
type Client struct {
	dev    *i2c.Dev
	closer func() error
}

// Open initializes the host drivers and opens the named I2C bus.
func Open(bus string, addr uint16) (*Client, error) {
	errFactory := errors.New()

	if _, err := host.Init(); err != nil {
		return nil, errFactory.Wrap(ErrHostInit, err)
	}

	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, errFactory.Wrap(ErrBusOpen, err)
	}

	c := New(b, addr)
	c.closer = b.Close

	return c, nil
}

// New returns a client on an already opened bus. The caller keeps
// ownership of the bus.
func New(bus i2c.Bus, addr uint16) *Client {
	return &Client{dev: &i2c.Dev{Bus: bus, Addr: addr}}
}

// ChargeLevel returns the battery charge in percent.
func (c *Client) ChargeLevel() (int, error) {
	d, err := c.read(cmdChargeLevel, 1)
	if err != nil {
		return 0, err
	}

	if d[0] > 100 {
		return 0, errors.New().WithData(ErrInvalidValue, int(d[0]))
	}

	return int(d[0]), nil
}

// Status returns the decoded status register.
func (c *Client) Status() (Status, error) {
	d, err := c.read(cmdStatus, 1)
	if err != nil {
		return Status{}, err
	}

	return decodeStatus(d[0]), nil
}

// Close releases the bus if the client opened it.
func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}

	err := c.closer()
	c.closer = nil
	c.dev = nil
	if err != nil {
		return errors.New().Wrap(ErrTransfer, err)
	}

	return nil
}

func decodeStatus(b byte) Status {
	return Status{
		Fault:          b&0x01 != 0,
		Button:         (b>>1)&0x01 != 0,
		Battery:        batteryStates[(b>>2)&0x03],
		PowerInput:     powerStates[(b>>4)&0x03],
		PowerInput5VIO: powerStates[(b>>6)&0x03],
	}
}

// read sends cmd and reads length data bytes followed by a checksum byte.
func (c *Client) read(cmd byte, length int) ([]byte, error) {
	errFactory := errors.New()

	if c.dev == nil {
		return nil, errFactory.New(ErrClosed)
	}

	buf := make([]byte, length+1)
	if err := c.dev.Tx([]byte{cmd}, buf); err != nil {
		return nil, errFactory.Wrap(ErrTransfer, err)
	}

	data, sum := buf[:length], buf[length]
	if checksum(data) == sum {
		return data, nil
	}

	// The firmware occasionally drops the MSB of the first byte.
	data[0] |= 0x80
	if checksum(data) == sum {
		return data, nil
	}

	return nil, errFactory.WithData(ErrChecksum, struct {
		Command byte
		Got     byte
	}{cmd, sum})
}

func checksum(data []byte) byte {
	fcs := byte(0xFF)
	for _, b := range data {
		fcs ^= b
	}

	return fcs
}

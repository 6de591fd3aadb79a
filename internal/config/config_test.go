package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/pistatus/internal/config"
	"codeberg.org/mutker/pistatus/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pistatus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
interval = 30
log_level = "debug"

[font]
size = 12
bold = "/fonts/bold.ttf"

[display]
driver = "png"
output = "/tmp/frame.png"
width = 264
height = 176

[pijuice]
address = 0x15

[network]
overlay = "wg0"
ssid_command = ["nmcli", "-t", "-f", "active,ssid", "dev", "wifi"]
`)
	t.Setenv("PISTATUS_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.Font.Size)
	assert.Equal(t, "/fonts/bold.ttf", cfg.Font.Bold)
	assert.Equal(t, config.DefaultRegularFont, cfg.Font.Regular, "unset keys keep their defaults")
	assert.Equal(t, config.DriverPNG, cfg.Display.Driver)
	assert.Equal(t, "/tmp/frame.png", cfg.Display.Output)
	assert.Equal(t, 264, cfg.Display.Width)
	assert.Equal(t, 176, cfg.Display.Height)
	assert.Equal(t, 0x15, cfg.PiJuice.Address)
	assert.Equal(t, "wg0", cfg.Network.Overlay)
	assert.Equal(t, []string{"nmcli", "-t", "-f", "active,ssid", "dev", "wifi"}, cfg.Network.SSIDCommand)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Interval)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 10, cfg.Font.Size)
	assert.Equal(t, config.DefaultBoldFont, cfg.Font.Bold)
	assert.Equal(t, config.DefaultRegularFont, cfg.Font.Regular)
	assert.Equal(t, config.DriverPapirus, cfg.Display.Driver)
	assert.Equal(t, "/dev/epd", cfg.Display.Path)
	assert.Equal(t, string(config.UpdateFull), cfg.Display.Update)
	assert.Equal(t, 0x48, cfg.Display.Address)
	assert.Equal(t, "1", cfg.I2C.Bus)
	assert.Equal(t, 0x14, cfg.PiJuice.Address)
	assert.Equal(t, config.DefaultTemperaturePath, cfg.Sensors.Temperature)
	assert.Equal(t, "tailscale0", cfg.Network.Overlay)
	assert.Equal(t, []string{"iwgetid", "-r"}, cfg.Network.SSIDCommand)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("PISTATUS_CONFIG", configPath)

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidLogLevel(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", writeConfig(t, `log_level = "invalid"`))

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "log_level", verr.Field)
}

func TestInvalidInterval(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")

	_, err := config.Load([]string{"--interval", "0"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestUnknownDisplayDriver(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")

	_, err := config.Load([]string{"--display", "hdmi"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestFlagsOverrideFile(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", writeConfig(t, `
interval = 30
log_level = "warning"
`))

	cfg, err := config.Load([]string{"--log-level", "debug", "--font-size", "8"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 8, cfg.Font.Size)
	assert.Equal(t, 30, cfg.Interval)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")
	t.Setenv("PISTATUS_NETWORK_OVERLAY", "wg0")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "wg0", cfg.Network.Overlay)
}

func TestUnknownFlag(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")

	_, err := config.Load([]string{"--no-such-flag"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestSSIDCommandFromString(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")
	t.Setenv("PISTATUS_NETWORK_SSID_COMMAND", "iwgetid  -r wlan0")

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"iwgetid", "-r", "wlan0"}, cfg.Network.SSIDCommand)
}

func TestSSIDCommandFromFileString(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", writeConfig(t, `
[network]
ssid_command = "iwgetid -r"
`))

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"iwgetid", "-r"}, cfg.Network.SSIDCommand)
}

func TestSSIDCommandBlankString(t *testing.T) {
	t.Setenv("PISTATUS_CONFIG", "")
	t.Setenv("PISTATUS_NETWORK_SSID_COMMAND", "   ")

	_, err := config.Load(nil)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

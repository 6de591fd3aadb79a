package config

import (
	"os"
	"strings"

	"codeberg.org/mutker/pistatus/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval        = 10
	DefaultLogLevel        = "info"
	DefaultFontSize        = 10
	DefaultBoldFont        = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	DefaultRegularFont     = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
	DefaultEPDPath         = "/dev/epd"
	DefaultOutput          = "pistatus.png"
	DefaultI2CBus          = "1"
	DefaultDisplayAddress  = 0x48
	DefaultPiJuiceAddress  = 0x14
	DefaultTemperaturePath = "/sys/class/thermal/thermal_zone0/temp"
	DefaultOverlay         = "tailscale0"

	envPrefix         = "PISTATUS"
	defaultConfigPath = "/etc/pistatus.toml"
)

// DefaultSSIDCommand prints the SSID of the associated network
var DefaultSSIDCommand = []string{"iwgetid", "-r"}

type Config struct {
	Interval int    `mapstructure:"interval"`
	LogLevel string `mapstructure:"log_level"`

	Font    FontConfig    `mapstructure:"font"`
	Display DisplayConfig `mapstructure:"display"`
	I2C     I2CConfig     `mapstructure:"i2c"`
	PiJuice PiJuiceConfig `mapstructure:"pijuice"`
	Sensors SensorsConfig `mapstructure:"sensors"`
	Network NetworkConfig `mapstructure:"network"`
}

type FontConfig struct {
	Bold    string `mapstructure:"bold"`
	Regular string `mapstructure:"regular"`
	Size    int    `mapstructure:"size"`
}

type DisplayConfig struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	Update  string `mapstructure:"update"`
	Output  string `mapstructure:"output"`
	Width   int    `mapstructure:"width"`
	Height  int    `mapstructure:"height"`
	Address int    `mapstructure:"address"`
}

type I2CConfig struct {
	Bus string `mapstructure:"bus"`
}

type PiJuiceConfig struct {
	Address int `mapstructure:"address"`
}

type SensorsConfig struct {
	Temperature string `mapstructure:"temperature"`
}

type NetworkConfig struct {
	Overlay     string   `mapstructure:"overlay"`
	SSIDCommand []string `mapstructure:"ssid_command"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("font.bold", DefaultBoldFont)
	v.SetDefault("font.regular", DefaultRegularFont)
	v.SetDefault("font.size", DefaultFontSize)
	v.SetDefault("display.driver", DriverPapirus)
	v.SetDefault("display.path", DefaultEPDPath)
	v.SetDefault("display.update", string(UpdateFull))
	v.SetDefault("display.output", DefaultOutput)
	v.SetDefault("display.width", 200)
	v.SetDefault("display.height", 96)
	v.SetDefault("display.address", DefaultDisplayAddress)
	v.SetDefault("i2c.bus", DefaultI2CBus)
	v.SetDefault("pijuice.address", DefaultPiJuiceAddress)
	v.SetDefault("sensors.temperature", DefaultTemperaturePath)
	v.SetDefault("network.overlay", DefaultOverlay)
	v.SetDefault("network.ssid_command", DefaultSSIDCommand)
}

// Load reads configuration from defaults, the config file, the environment
// and the given command line arguments, in increasing order of precedence.
func Load(args []string) (*Config, error) {
	errFactory := errors.New()
	v := viper.New()
	setDefaults(v)

	flags := pflag.NewFlagSet("pistatus", pflag.ContinueOnError)
	configFlag := flags.String("config", "", "Path to the configuration file")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Int("interval", DefaultInterval, "Seconds to wait between refreshes")
	flags.Int("font-size", DefaultFontSize, "Font size in pixels")
	flags.String("bold-font", DefaultBoldFont, "Path to the bold TrueType font")
	flags.String("regular-font", DefaultRegularFont, "Path to the regular TrueType font")
	flags.String("display", DriverPapirus, "Display driver (papirus, png)")

	if err := flags.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"log_level":      "log-level",
		"interval":       "interval",
		"font.size":      "font-size",
		"font.bold":      "bold-font",
		"font.regular":   "regular-font",
		"display.driver": "display",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, *configFlag); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	// A command given as a single string (environment or a TOML string)
	// is split into arguments the way a shell would split plain words.
	if cmd, ok := v.Get("network.ssid_command").(string); ok {
		cfg.Network.SSIDCommand = strings.Fields(cmd)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readConfigFile(v *viper.Viper, explicit string) error {
	errFactory := errors.New()

	path := explicit
	if path == "" {
		path = os.Getenv(envPrefix + "_CONFIG")
	}

	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			return nil
		}
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

// Validate checks the loaded values and returns an error carrying the
// matching error code for the first invalid field.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.Wrap(errors.ErrInvalidInterval,
			&ValidationError{Field: "interval", Value: c.Interval, Reason: "must be positive"})
	}

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errFactory.Wrap(errors.ErrInvalidLogLevel,
			&ValidationError{Field: "log_level", Value: c.LogLevel, Reason: "unknown level"})
	}

	if c.Font.Size <= 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&ValidationError{Field: "font.size", Value: c.Font.Size, Reason: "must be positive"})
	}

	switch c.Display.Driver {
	case DriverPapirus:
		if !UpdateMode(c.Display.Update).IsValid() {
			return errFactory.Wrap(errors.ErrInvalidConfig,
				&ValidationError{Field: "display.update", Value: c.Display.Update, Reason: "expected full, fast or partial"})
		}
	case DriverPNG:
		if c.Display.Width <= 0 || c.Display.Height <= 0 {
			return errFactory.Wrap(errors.ErrInvalidConfig,
				&ValidationError{Field: "display.width", Value: c.Display.Width, Reason: "png size must be positive"})
		}
	default:
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&ValidationError{Field: "display.driver", Value: c.Display.Driver, Reason: "unknown driver"})
	}

	if len(c.Network.SSIDCommand) == 0 {
		return errFactory.Wrap(errors.ErrInvalidConfig,
			&ValidationError{Field: "network.ssid_command", Value: c.Network.SSIDCommand, Reason: "must not be empty"})
	}

	return nil
}

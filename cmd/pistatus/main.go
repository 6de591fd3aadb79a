package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/pistatus/internal/config"
	"codeberg.org/mutker/pistatus/internal/display"
	"codeberg.org/mutker/pistatus/internal/errors"
	"codeberg.org/mutker/pistatus/internal/logger"
	"codeberg.org/mutker/pistatus/internal/monitor"
	"codeberg.org/mutker/pistatus/internal/pid"
	"codeberg.org/mutker/pistatus/internal/pijuice"
	"codeberg.org/mutker/pistatus/internal/render"
	"codeberg.org/mutker/pistatus/internal/status"
)

const pidFile = "pistatus.pid"

var updateCommands = map[config.UpdateMode]byte{
	config.UpdateFull:    display.CommandUpdate,
	config.UpdateFast:    display.CommandFastUpdate,
	config.UpdatePartial: display.CommandPartialUpdate,
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		return 1
	}

	logger.Init(cfg.LogLevel, logger.IsService())
	logger.Debug().Msg("Config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if cfg.Display.Driver == config.DriverPapirus {
		if err := display.Require(ctx, cfg.I2C.Bus, cfg.Display.Address); err != nil {
			logger.Debug().Err(err).Msg("Bus probe failed")
			logger.Info().Msg("Papirus display not detected. Exiting.")
			return 0
		}
	}

	lock := pid.New(pidFile)
	if err := lock.Write(); err != nil {
		logError(err, "Failed to acquire PID file")
		return 1
	}
	defer func() {
		if err := lock.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	disp, err := openDisplay(cfg)
	if err != nil {
		logError(err, "Failed to open display")
		return 1
	}
	defer disp.Close()

	fonts, err := render.LoadFonts(cfg.Font.Bold, cfg.Font.Regular, cfg.Font.Size, logger.Default())
	if err != nil {
		logError(err, "Failed to load fonts")
		return 1
	}

	battery := openBattery(cfg)
	if c, ok := battery.(*pijuice.Client); ok {
		defer c.Close()
	}

	collector := status.NewCollector(status.NewHostStats(), battery, status.Options{
		TemperaturePath: cfg.Sensors.Temperature,
		Overlay:         cfg.Network.Overlay,
		SSIDCommand:     cfg.Network.SSIDCommand,
		CPUWindow:       status.DefaultCPUWindow,
	}, logger.Default())

	m := monitor.New(collector, render.New(fonts, logger.Default()), disp,
		time.Duration(cfg.Interval)*time.Second, logger.Default())

	logger.Info().
		Str("display", cfg.Display.Driver).
		Int("width", disp.Width()).
		Int("height", disp.Height()).
		Int("interval", cfg.Interval).
		Msg("Starting status display")

	m.Run(ctx)

	logger.Info().Msg("Exiting...")

	return 0
}

func openDisplay(cfg *config.Config) (display.Display, error) {
	if cfg.Display.Driver == config.DriverPNG {
		return display.NewPNG(cfg.Display.Output, cfg.Display.Width, cfg.Display.Height), nil
	}

	p, err := display.OpenPapirus(cfg.Display.Path, updateCommands[config.UpdateMode(cfg.Display.Update)])
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("panel", p.Panel().Size).
		Int("cog", p.Panel().COG).
		Int("film", p.Panel().Film).
		Msg("Detected Papirus panel")

	return p, nil
}

// openBattery opens the PiJuice once. When it cannot be opened every
// battery reading falls back to its sentinel.
func openBattery(cfg *config.Config) status.BatteryReader {
	c, err := pijuice.Open(cfg.I2C.Bus, uint16(cfg.PiJuice.Address))
	if err != nil {
		logger.Warn().Err(err).Msg("PiJuice unavailable, battery will read N/A")
		return status.UnavailableBattery(err)
	}

	return c
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

// logError reports a startup failure under ErrInitApp, keeping the
// component's own code in the chain.
func logError(err error, msg string) {
	logger.ErrorWithCode(errors.New().Wrap(errors.ErrInitApp, err)).Msg(msg)
}

// Package monitor runs the sample, render and push cycle.
package monitor

import (
	"context"
	"image"
	"time"

	"codeberg.org/mutker/pistatus/internal/display"
	"codeberg.org/mutker/pistatus/internal/errors"
	"codeberg.org/mutker/pistatus/internal/logger"
	"codeberg.org/mutker/pistatus/internal/render"
	"codeberg.org/mutker/pistatus/internal/status"
)

type Collector interface {
	Collect(ctx context.Context) status.Report
}

type Renderer interface {
	Render(lines []string, width, height int) (*image.Paletted, render.Result)
}

type Monitor struct {
	collector Collector
	renderer  Renderer
	display   display.Display
	interval  time.Duration
	logger    logger.Logger
}

func New(c Collector, r Renderer, d display.Display, interval time.Duration, log logger.Logger) *Monitor {
	if log == nil {
		log = logger.Nop()
	}

	return &Monitor{
		collector: c,
		renderer:  r,
		display:   d,
		interval:  interval,
		logger:    log,
	}
}

// Cycle samples, renders and pushes one frame. A cycle interrupted while
// sampling is abandoned without touching the display.
func (m *Monitor) Cycle(ctx context.Context) error {
	errFactory := errors.New()

	report := m.collector.Collect(ctx)
	if err := ctx.Err(); err != nil {
		return err
	}

	img, res := m.renderer.Render(report.Lines(), m.display.Width(), m.display.Height())
	m.logger.Debug().
		Int("drawn", res.Drawn).
		Int("dropped", len(res.Dropped)).
		Msg("Frame rendered")

	if err := m.display.Display(img); err != nil {
		return errFactory.Wrap(ErrPushFrame, err)
	}

	if err := m.display.Update(); err != nil {
		return errFactory.Wrap(ErrRefresh, err)
	}

	return nil
}

// Run repeats Cycle until ctx is cancelled. The delay between cycles is
// fixed and does not account for the time a cycle took. Display errors
// are logged and the loop continues.
func (m *Monitor) Run(ctx context.Context) {
	for {
		if err := m.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logCycleError(err)
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (m *Monitor) logCycleError(err error) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		m.logger.ErrorWithCode(appErr).Msg("Failed to refresh display")
		return
	}
	m.logger.Error().Err(err).Msg("Failed to refresh display")
}

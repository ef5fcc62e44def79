package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// monitor is the switcher's view of the display. DDCClient implements it;
// tests substitute a fake.
type monitor interface {
	CurrentInput(ctx context.Context) (int, error)
	SetInput(ctx context.Context, value int) error
	Standby(ctx context.Context) error
}

// Switcher dispatches macro pad key presses to monitor input switches.
// It holds the only mutable resources of the process (besides the device
// handle): everything else is the immutable config.
type Switcher struct {
	config *Config
	mon    monitor
	log    *slog.Logger
	sleep  func(time.Duration)
}

// NewSwitcher creates a Switcher over the given monitor.
func NewSwitcher(cfg *Config, mon monitor, log *slog.Logger) *Switcher {
	return &Switcher{config: cfg, mon: mon, log: log, sleep: time.Sleep}
}

// HandleEvent processes a single event from the device. Only key-down
// events with a bound code trigger a switch; everything else is ignored.
// Switch failures are logged and dropped so the loop stays alive — the
// user presses again once the monitor is reachable.
func (s *Switcher) HandleEvent(ctx context.Context, ev KeyEvent) {
	if ev.Value != 1 {
		// Release and repeat must not re-trigger while a button is held.
		return
	}

	binding, ok := s.config.Bindings[ev.Code]
	if !ok {
		s.log.Debug("unbound key press", "code", int(ev.Code), "key", evdev.CodeName(evdev.EV_KEY, ev.Code))
		return
	}

	s.log.Info("button press", "key", binding.Key, "input", binding.Input, "standby", binding.Standby)

	if err := s.Switch(ctx, binding); err != nil {
		if errors.Is(err, errDDCTimeout) {
			s.log.Error("switch timed out", "input", binding.Input, "error", err)
		} else {
			s.log.Error("switch failed", "input", binding.Input, "error", err)
		}
	}
}

// Switch makes the monitor's active input equal to the binding's target,
// issuing at most one set command. The current input is queried fresh on
// every call: the monitor can be moved by other hosts or its own buttons,
// so no local state is trusted.
func (s *Switcher) Switch(ctx context.Context, binding Binding) error {
	target := s.config.Inputs[binding.Input]

	current, err := s.mon.CurrentInput(ctx)
	if err != nil {
		return err
	}

	switch {
	case current == target:
		s.log.Info("input already active, not switching", "input", binding.Input, "value", target)
	default:
		s.log.Info("switching input", "input", binding.Input, "from", current, "to", target)
		if err := s.mon.SetInput(ctx, target); err != nil {
			return err
		}
		s.log.Info("switch succeeded", "input", binding.Input, "value", target)
		s.verify(ctx, binding, target)
	}

	if binding.Standby {
		s.log.Info("entering standby", "input", binding.Input)
		if err := s.mon.Standby(ctx); err != nil {
			return err
		}
	}

	return nil
}

// verify re-queries the monitor after a switch and logs what it reports.
// Purely informational: a mismatch is not acted on.
func (s *Switcher) verify(ctx context.Context, binding Binding, target int) {
	if !s.config.DDC.Verify {
		return
	}

	// Give the panel time to settle before it will answer DDC again.
	s.sleep(s.config.DDC.VerifyDelay())

	actual, err := s.mon.CurrentInput(ctx)
	if err != nil {
		s.log.Warn("post-switch verification failed", "input", binding.Input, "error", err)
		return
	}
	if actual != target {
		s.log.Warn("monitor reports unexpected input after switch", "want", target, "got", actual)
		return
	}
	s.log.Info("verified input", "input", binding.Input, "value", actual)
}

// InputName returns the logical name registered for a VCP value, or ""
// when the value is not in the registry.
func (s *Switcher) InputName(value int) string {
	for name, v := range s.config.Inputs {
		if v == value {
			return name
		}
	}
	return ""
}

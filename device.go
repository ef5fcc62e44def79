package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// errNoDevice is the startup-fatal "macro pad not found" condition. The
// process must not enter the event loop without its sole input source;
// main exits with a distinct status so the service manager can apply its
// restart-with-backoff policy.
var errNoDevice = errors.New("no matching input device found")

// KeyEvent carries a key code and value (1=press, 0=release, 2=repeat)
// read from the macro pad.
type KeyEvent struct {
	Code  evdev.EvCode
	Value int32
}

// FindMacroPad enumerates /dev/input/ devices and returns the first one
// whose name contains the configured substring (case-sensitive) and that
// reports EV_KEY capability. Enumeration order is kernel-defined, so the
// substring should be specific enough to disambiguate.
func FindMacroPad(match string, log *slog.Logger) (*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue
		}

		name, err := dev.Name()
		if err != nil {
			dev.Close()
			continue
		}

		if len(dev.CapableEvents(evdev.EV_KEY)) == 0 {
			dev.Close()
			continue
		}

		log.Debug("found input device", "name", name, "path", p.Path)

		if strings.Contains(name, match) {
			log.Info("using macro pad", "name", name, "path", p.Path)
			return dev, nil
		}

		dev.Close()
	}

	return nil, fmt.Errorf("%w (wanted name containing %q)", errNoDevice, match)
}

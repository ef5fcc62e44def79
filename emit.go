package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/bendahl/uinput"
)

// emitPress creates a uinput virtual keyboard carrying the configured
// device name and presses the key bound to the named input. This drives
// the whole pipeline without the physical pad: start the daemon after
// the virtual device exists and it will discover it like the real one.
func emitPress(configPath, input string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	binding, err := bindingForInput(cfg, input)
	if err != nil {
		return err
	}

	vkbd, err := uinput.CreateKeyboard("/dev/uinput", []byte(cfg.Device.Match))
	if err != nil {
		return fmt.Errorf("create virtual keyboard: %w", err)
	}
	defer vkbd.Close()

	// Let udev register the node before anything can read from it.
	time.Sleep(time.Second)

	fmt.Printf("ddc-switcher: pressing %s (%s)\n", binding.Key, binding.Input)
	if err := vkbd.KeyPress(int(binding.Code)); err != nil {
		return fmt.Errorf("press %s: %w", binding.Key, err)
	}

	// Keep the device alive long enough for the press to be consumed.
	time.Sleep(500 * time.Millisecond)
	return nil
}

// bindingForInput finds the binding for a logical input name. With
// multiple buttons bound to the same input the lowest key name wins, so
// repeated runs behave the same.
func bindingForInput(cfg *Config, input string) (Binding, error) {
	var matches []Binding
	for _, b := range cfg.Bindings {
		if b.Input == input {
			matches = append(matches, b)
		}
	}
	if len(matches) == 0 {
		return Binding{}, fmt.Errorf("no button bound to input %q", input)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Key < matches[j].Key })
	return matches[0], nil
}

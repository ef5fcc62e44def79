package main

import (
	"fmt"
	"os"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"gopkg.in/yaml.v3"
)

// DeviceConfig selects the macro pad among the enumerated input devices.
type DeviceConfig struct {
	// Match is a case-sensitive substring of the device name reported by
	// the kernel. The first matching device wins.
	Match string `yaml:"match"`
}

// DDCConfig holds the ddcutil invocation parameters.
type DDCConfig struct {
	Bus            int  `yaml:"bus"`
	QueryTimeoutMs int  `yaml:"query_timeout_ms"`
	SetTimeoutMs   int  `yaml:"set_timeout_ms"`
	Verify         bool `yaml:"verify"`
	VerifyDelayMs  int  `yaml:"verify_delay_ms"`
}

// QueryTimeout returns the getvcp deadline as a duration.
func (d DDCConfig) QueryTimeout() time.Duration {
	return time.Duration(d.QueryTimeoutMs) * time.Millisecond
}

// SetTimeout returns the setvcp deadline as a duration.
func (d DDCConfig) SetTimeout() time.Duration {
	return time.Duration(d.SetTimeoutMs) * time.Millisecond
}

// VerifyDelay returns the wait before the post-switch verification query.
func (d DDCConfig) VerifyDelay() time.Duration {
	return time.Duration(d.VerifyDelayMs) * time.Millisecond
}

// LogConfig controls the log destination. An empty file path disables the
// rotating file stream and logs go to stderr only.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	Level      string `yaml:"level"`
}

// ButtonDef is the raw YAML representation of a button binding.
type ButtonDef struct {
	Key     string `yaml:"key"`
	Input   string `yaml:"input"`
	Standby bool   `yaml:"standby"`
}

// Binding is a resolved button binding ready for the dispatcher.
type Binding struct {
	Key     string
	Code    evdev.EvCode
	Input   string
	Standby bool
}

// ConfigFile is the on-disk YAML shape.
type ConfigFile struct {
	Device  DeviceConfig   `yaml:"device"`
	Inputs  map[string]int `yaml:"inputs"`
	Buttons []ButtonDef    `yaml:"buttons"`
	DDC     DDCConfig      `yaml:"ddc"`
	Log     LogConfig      `yaml:"log"`
}

// Config is the validated, immutable runtime configuration. It is built
// once at startup and never mutated afterwards.
type Config struct {
	Device DeviceConfig
	// Inputs maps a logical input name to its VCP feature 0x60 value.
	Inputs map[string]int
	// Bindings maps an evdev key code to its resolved binding.
	Bindings map[evdev.EvCode]Binding
	DDC      DDCConfig
	Log      LogConfig
}

// defaultConfigFile returns the built-in configuration, matching the
// deployment this daemon was written for: a binepad BNK8 macro pad and a
// monitor on i2c bus 2 with DisplayPort, USB-C and HDMI sources.
func defaultConfigFile() ConfigFile {
	return ConfigFile{
		Device: DeviceConfig{Match: "binepad BNK8"},
		Inputs: map[string]int{
			"displayport": 15,
			"usbc":        27,
			"hdmi":        17,
		},
		Buttons: []ButtonDef{
			{Key: "KEY_F23", Input: "displayport"},
			{Key: "KEY_F24", Input: "usbc"},
			{Key: "KEY_F22", Input: "hdmi", Standby: true},
		},
		DDC: DDCConfig{
			Bus:            2,
			QueryTimeoutMs: 5000,
			SetTimeoutMs:   10000,
			Verify:         true,
			VerifyDelayMs:  1000,
		},
		Log: LogConfig{
			File:       "/var/log/ddc-switcher.log",
			MaxSizeMB:  1,
			MaxBackups: 3,
			Level:      "info",
		},
	}
}

// LoadConfig reads the YAML config at path and resolves it against the
// built-in defaults. A missing file is not an error: the defaults apply
// unchanged. The result is validated before being returned.
func LoadConfig(path string) (*Config, error) {
	cf := defaultConfigFile()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Built-in tables only.
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		// yaml merges into the pre-populated defaults map; an inputs
		// table in the file must replace the built-ins, not extend them.
		var probe struct {
			Inputs map[string]int `yaml:"inputs"`
		}
		if err := yaml.Unmarshal(data, &probe); err == nil && probe.Inputs != nil {
			cf.Inputs = probe.Inputs
		}
	}

	return resolveConfig(cf)
}

// resolveConfig validates a ConfigFile and resolves key names to evdev
// codes. All violations are configuration errors: the daemon must not
// enter the event loop with an inconsistent mapping.
func resolveConfig(cf ConfigFile) (*Config, error) {
	if cf.Device.Match == "" {
		return nil, fmt.Errorf("device.match must not be empty")
	}
	if len(cf.Inputs) == 0 {
		return nil, fmt.Errorf("inputs table must not be empty")
	}
	for name, value := range cf.Inputs {
		if value < 0 || value > 0xff {
			return nil, fmt.Errorf("input %q: VCP value %d out of range 0..255", name, value)
		}
	}
	if cf.DDC.Bus < 0 {
		return nil, fmt.Errorf("ddc.bus must not be negative")
	}
	if cf.DDC.QueryTimeoutMs <= 0 || cf.DDC.SetTimeoutMs <= 0 {
		return nil, fmt.Errorf("ddc timeouts must be positive")
	}

	bindings := make(map[evdev.EvCode]Binding, len(cf.Buttons))
	for _, b := range cf.Buttons {
		code, err := KeyCodeFromName(b.Key)
		if err != nil {
			return nil, fmt.Errorf("button %q: %w", b.Key, err)
		}
		if _, ok := cf.Inputs[b.Input]; !ok {
			return nil, fmt.Errorf("button %q: input %q not in inputs table", b.Key, b.Input)
		}
		if prev, ok := bindings[code]; ok {
			return nil, fmt.Errorf("button %q: key already bound to %q", b.Key, prev.Input)
		}
		bindings[code] = Binding{Key: b.Key, Code: code, Input: b.Input, Standby: b.Standby}
	}

	return &Config{
		Device:   cf.Device,
		Inputs:   cf.Inputs,
		Bindings: bindings,
		DDC:      cf.DDC,
		Log:      cf.Log,
	}, nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigResolves(t *testing.T) {
	cfg, err := resolveConfig(defaultConfigFile())
	require.NoError(t, err)

	assert.Equal(t, "binepad BNK8", cfg.Device.Match)
	assert.Equal(t, 2, cfg.DDC.Bus)
	assert.Equal(t, 15, cfg.Inputs["displayport"])
	assert.Equal(t, 27, cfg.Inputs["usbc"])
	assert.Equal(t, 17, cfg.Inputs["hdmi"])

	require.Contains(t, cfg.Bindings, evdev.EvCode(evdev.KEY_F23))
	assert.Equal(t, "displayport", cfg.Bindings[evdev.KEY_F23].Input)
	assert.False(t, cfg.Bindings[evdev.KEY_F23].Standby)

	require.Contains(t, cfg.Bindings, evdev.EvCode(evdev.KEY_F22))
	assert.Equal(t, "hdmi", cfg.Bindings[evdev.KEY_F22].Input)
	assert.True(t, cfg.Bindings[evdev.KEY_F22].Standby)
}

// Every bound input must resolve in the registry. resolveConfig enforces
// this; the assertion here guards the resolved form too.
func TestBindingsAlwaysResolveInRegistry(t *testing.T) {
	cfg, err := resolveConfig(defaultConfigFile())
	require.NoError(t, err)

	for _, b := range cfg.Bindings {
		_, ok := cfg.Inputs[b.Input]
		assert.True(t, ok, "binding %s references unknown input %q", b.Key, b.Input)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	want, err := resolveConfig(defaultConfigFile())
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
device:
  match: "Adafruit MacroPad"
inputs:
  displayport: 15
  hdmi2: 18
buttons:
  - key: KEY_F13
    input: hdmi2
ddc:
  bus: 7
  verify: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Adafruit MacroPad", cfg.Device.Match)
	assert.Equal(t, 7, cfg.DDC.Bus)
	assert.False(t, cfg.DDC.Verify)
	// Timeouts not set in the file keep their defaults.
	assert.Equal(t, 5000, cfg.DDC.QueryTimeoutMs)

	// The file's tables replace the built-ins wholesale.
	assert.Equal(t, map[string]int{"displayport": 15, "hdmi2": 18}, cfg.Inputs)
	require.Len(t, cfg.Bindings, 1)
	assert.Equal(t, "hdmi2", cfg.Bindings[evdev.KEY_F13].Input)
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("buttons: {not: a list}"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestResolveConfigValidation(t *testing.T) {
	valid := defaultConfigFile()

	tests := []struct {
		name   string
		mutate func(*ConfigFile)
	}{
		{"empty device match", func(cf *ConfigFile) { cf.Device.Match = "" }},
		{"empty inputs", func(cf *ConfigFile) { cf.Inputs = nil }},
		{"vcp value out of range", func(cf *ConfigFile) { cf.Inputs["displayport"] = 300 }},
		{"negative bus", func(cf *ConfigFile) { cf.DDC.Bus = -1 }},
		{"zero query timeout", func(cf *ConfigFile) { cf.DDC.QueryTimeoutMs = 0 }},
		{"unknown key name", func(cf *ConfigFile) { cf.Buttons[0].Key = "KEY_BOGUS" }},
		{"unregistered input", func(cf *ConfigFile) { cf.Buttons[0].Input = "vga" }},
		{"duplicate key", func(cf *ConfigFile) { cf.Buttons[1].Key = cf.Buttons[0].Key }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := valid
			cf.Inputs = map[string]int{}
			for k, v := range valid.Inputs {
				cf.Inputs[k] = v
			}
			cf.Buttons = append([]ButtonDef(nil), valid.Buttons...)

			tt.mutate(&cf)

			_, err := resolveConfig(cf)
			assert.Error(t, err)
		})
	}
}

// The embedded config written by `init` must stay consistent with the
// built-in defaults.
func TestInitConfigMatchesBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "config.yml")

	require.NoError(t, initConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	want, err := resolveConfig(defaultConfigFile())
	require.NoError(t, err)
	assert.Equal(t, want, cfg)
}

func TestInitConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("# mine"), 0644))

	assert.Error(t, initConfig(path))
}

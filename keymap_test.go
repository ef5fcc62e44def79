package main

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyCodeFromName(t *testing.T) {
	code, err := KeyCodeFromName("KEY_F23")
	require.NoError(t, err)
	assert.Equal(t, evdev.EvCode(evdev.KEY_F23), code)

	code, err = KeyCodeFromName("KEY_KP1")
	require.NoError(t, err)
	assert.Equal(t, evdev.EvCode(evdev.KEY_KP1), code)
}

func TestKeyCodeFromNumeric(t *testing.T) {
	code, err := KeyCodeFromName("193")
	require.NoError(t, err)
	assert.Equal(t, evdev.EvCode(193), code)
}

func TestKeyCodeFromNameErrors(t *testing.T) {
	for _, name := range []string{"KEY_BOGUS", "not-a-key", "", "-1", "99999"} {
		_, err := KeyCodeFromName(name)
		assert.Error(t, err, "expected error for %q", name)
	}
}

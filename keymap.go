package main

import (
	"fmt"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// KeyNameMap maps kernel key-code names to evdev codes for the keys a
// macro pad can plausibly be flashed to emit. Config files refer to keys
// by these names; numeric codes are accepted too for anything missing.
var KeyNameMap = map[string]evdev.EvCode{
	"KEY_A": evdev.KEY_A, "KEY_B": evdev.KEY_B, "KEY_C": evdev.KEY_C,
	"KEY_D": evdev.KEY_D, "KEY_E": evdev.KEY_E, "KEY_F": evdev.KEY_F,
	"KEY_G": evdev.KEY_G, "KEY_H": evdev.KEY_H, "KEY_I": evdev.KEY_I,
	"KEY_J": evdev.KEY_J, "KEY_K": evdev.KEY_K, "KEY_L": evdev.KEY_L,
	"KEY_M": evdev.KEY_M, "KEY_N": evdev.KEY_N, "KEY_O": evdev.KEY_O,
	"KEY_P": evdev.KEY_P, "KEY_Q": evdev.KEY_Q, "KEY_R": evdev.KEY_R,
	"KEY_S": evdev.KEY_S, "KEY_T": evdev.KEY_T, "KEY_U": evdev.KEY_U,
	"KEY_V": evdev.KEY_V, "KEY_W": evdev.KEY_W, "KEY_X": evdev.KEY_X,
	"KEY_Y": evdev.KEY_Y, "KEY_Z": evdev.KEY_Z,

	"KEY_0": evdev.KEY_0, "KEY_1": evdev.KEY_1, "KEY_2": evdev.KEY_2,
	"KEY_3": evdev.KEY_3, "KEY_4": evdev.KEY_4, "KEY_5": evdev.KEY_5,
	"KEY_6": evdev.KEY_6, "KEY_7": evdev.KEY_7, "KEY_8": evdev.KEY_8,
	"KEY_9": evdev.KEY_9,

	"KEY_F1": evdev.KEY_F1, "KEY_F2": evdev.KEY_F2, "KEY_F3": evdev.KEY_F3,
	"KEY_F4": evdev.KEY_F4, "KEY_F5": evdev.KEY_F5, "KEY_F6": evdev.KEY_F6,
	"KEY_F7": evdev.KEY_F7, "KEY_F8": evdev.KEY_F8, "KEY_F9": evdev.KEY_F9,
	"KEY_F10": evdev.KEY_F10, "KEY_F11": evdev.KEY_F11, "KEY_F12": evdev.KEY_F12,
	"KEY_F13": evdev.KEY_F13, "KEY_F14": evdev.KEY_F14, "KEY_F15": evdev.KEY_F15,
	"KEY_F16": evdev.KEY_F16, "KEY_F17": evdev.KEY_F17, "KEY_F18": evdev.KEY_F18,
	"KEY_F19": evdev.KEY_F19, "KEY_F20": evdev.KEY_F20, "KEY_F21": evdev.KEY_F21,
	"KEY_F22": evdev.KEY_F22, "KEY_F23": evdev.KEY_F23, "KEY_F24": evdev.KEY_F24,

	"KEY_KP0": evdev.KEY_KP0, "KEY_KP1": evdev.KEY_KP1, "KEY_KP2": evdev.KEY_KP2,
	"KEY_KP3": evdev.KEY_KP3, "KEY_KP4": evdev.KEY_KP4, "KEY_KP5": evdev.KEY_KP5,
	"KEY_KP6": evdev.KEY_KP6, "KEY_KP7": evdev.KEY_KP7, "KEY_KP8": evdev.KEY_KP8,
	"KEY_KP9": evdev.KEY_KP9, "KEY_KPENTER": evdev.KEY_KPENTER,

	"KEY_ENTER": evdev.KEY_ENTER, "KEY_SPACE": evdev.KEY_SPACE,
	"KEY_TAB": evdev.KEY_TAB, "KEY_ESC": evdev.KEY_ESC,
	"KEY_HOME": evdev.KEY_HOME, "KEY_END": evdev.KEY_END,
	"KEY_PAGEUP": evdev.KEY_PAGEUP, "KEY_PAGEDOWN": evdev.KEY_PAGEDOWN,
	"KEY_INSERT": evdev.KEY_INSERT, "KEY_DELETE": evdev.KEY_DELETE,

	"KEY_MUTE": evdev.KEY_MUTE, "KEY_VOLUMEUP": evdev.KEY_VOLUMEUP,
	"KEY_VOLUMEDOWN":   evdev.KEY_VOLUMEDOWN,
	"KEY_PLAYPAUSE":    evdev.KEY_PLAYPAUSE,
	"KEY_NEXTSONG":     evdev.KEY_NEXTSONG,
	"KEY_PREVIOUSSONG": evdev.KEY_PREVIOUSSONG,
}

// KeyCodeFromName resolves a config key reference to an evdev code.
// Accepted forms: a KEY_* name from KeyNameMap, or a bare decimal code.
func KeyCodeFromName(name string) (evdev.EvCode, error) {
	if code, ok := KeyNameMap[name]; ok {
		return code, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n < 0 || n > 0x2ff {
			return 0, fmt.Errorf("key code %d out of range", n)
		}
		return evdev.EvCode(n), nil
	}
	if strings.HasPrefix(name, "KEY_") {
		return 0, fmt.Errorf("unknown key name %q", name)
	}
	return 0, fmt.Errorf("invalid key reference %q (want KEY_* name or numeric code)", name)
}

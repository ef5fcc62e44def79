package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

const (
	// vcpInputSource is the VCP feature for the active input source.
	vcpInputSource = "60"
	// vcpPowerMode is the VCP feature for DPMS power mode; value 02 is
	// standby.
	vcpPowerMode    = "D6"
	vcpPowerStandby = "02"
)

// errDDCTimeout marks a ddcutil invocation that hit its deadline, as
// opposed to one that ran and failed. Callers log the two differently
// but both are recoverable: the press is dropped and the loop goes on.
var errDDCTimeout = errors.New("ddcutil timed out")

// runner executes an external command and returns its stdout. Split out
// so tests can substitute a fake for ddcutil.
type runner interface {
	run(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: %s %s", errDDCTimeout, name, strings.Join(args, " "))
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

// DDCClient talks to the monitor through the ddcutil command-line tool.
// Each call spawns one scoped subprocess under an explicit deadline.
type DDCClient struct {
	cfg DDCConfig
	run runner
	log *slog.Logger
}

// NewDDCClient creates a client for the monitor on the configured i2c bus.
func NewDDCClient(cfg DDCConfig, log *slog.Logger) *DDCClient {
	return &DDCClient{cfg: cfg, run: execRunner{}, log: log}
}

// slRe matches the "sl=0xNN" low byte in ddcutil getvcp output for
// simple non-continuous features.
var slRe = regexp.MustCompile(`sl=0x([0-9a-fA-F]+)`)

// curRe matches the continuous-feature output form as a fallback.
var curRe = regexp.MustCompile(`current value =\s*(\d+)`)

// parseVCPValue extracts the current value from ddcutil getvcp output.
func parseVCPValue(out string) (int, error) {
	if m := slRe.FindStringSubmatch(out); m != nil {
		v, err := strconv.ParseInt(m[1], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", m[1], err)
		}
		return int(v), nil
	}
	if m := curRe.FindStringSubmatch(out); m != nil {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", m[1], err)
		}
		return v, nil
	}
	return 0, fmt.Errorf("no VCP value in output %q", strings.TrimSpace(out))
}

// CurrentInput queries the monitor's active input source and returns its
// VCP value. The monitor is the source of truth; the result is never
// cached because other hosts and the monitor's own buttons change it.
func (c *DDCClient) CurrentInput(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.QueryTimeout())
	defer cancel()

	out, err := c.run.run(ctx, "ddcutil", "getvcp", vcpInputSource, c.busArg())
	if err != nil {
		return 0, fmt.Errorf("query input source: %w", err)
	}

	value, err := parseVCPValue(out)
	if err != nil {
		return 0, fmt.Errorf("query input source: %w", err)
	}
	c.log.Debug("queried input source", "value", value)
	return value, nil
}

// SetInput switches the monitor's active input source to the given VCP
// value. Exit status is authoritative; a failure is returned, not retried.
func (c *DDCClient) SetInput(ctx context.Context, value int) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SetTimeout())
	defer cancel()

	_, err := c.run.run(ctx, "ddcutil", "setvcp", vcpInputSource, strconv.Itoa(value), c.busArg())
	if err != nil {
		return fmt.Errorf("set input source %d: %w", value, err)
	}
	return nil
}

// Standby puts the monitor into DPMS standby. Verification is disabled:
// the panel stops answering DDC once it powers down, so a readback would
// always fail.
func (c *DDCClient) Standby(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.SetTimeout())
	defer cancel()

	_, err := c.run.run(ctx, "ddcutil", "setvcp", vcpPowerMode, vcpPowerStandby, c.busArg(), "--noverify")
	if err != nil {
		return fmt.Errorf("standby: %w", err)
	}
	return nil
}

func (c *DDCClient) busArg() string {
	return fmt.Sprintf("--bus=%d", c.cfg.Bus)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"
	evdev "github.com/holoplot/go-evdev"
)

var version = "1.0.0"

const defaultConfigPath = "/etc/ddc-switcher/config.yml"

// exitNoDevice distinguishes "macro pad not found" from other fatal
// errors so the unit's restart policy can be tuned per failure kind.
const exitNoDevice = 2

func run(configPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer closeLog()

	log.Info("starting ddc-switcher", "version", version, "config", configPath,
		"inputs", len(cfg.Inputs), "buttons", len(cfg.Bindings))

	dev, err := FindMacroPad(cfg.Device.Match, log)
	if err != nil {
		log.Error("device discovery failed", "error", err)
		return err
	}

	ctx := context.Background()
	ddc := NewDDCClient(cfg.DDC, log)
	switcher := NewSwitcher(cfg, ddc, log)

	// Informational only. The value is queried again before every switch
	// decision, never cached.
	if current, err := ddc.CurrentInput(ctx); err != nil {
		log.Warn("could not read initial input source", "error", err)
	} else {
		log.Info("initial input source", "value", current, "input", switcher.InputName(current))
	}

	// Clean shutdown on SIGINT/SIGTERM. The blocking device read has no
	// cancellation, so shutdown happens here rather than in the loop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("shutting down", "signal", sig.String())
		daemon.SdNotify(false, daemon.SdNotifyStopping)
		dev.Close()
		closeLog()
		os.Exit(0)
	}()

	daemon.SdNotify(false, daemon.SdNotifyReady)
	log.Info("listening for button presses")

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			// Device gone (USB replug) or read failure. Exit so the
			// service manager restarts us and discovery runs again.
			log.Error("device read failed", "error", err)
			return fmt.Errorf("read input event: %w", err)
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		switcher.HandleEvent(ctx, KeyEvent{Code: ev.Code, Value: ev.Value})
	}
}

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to YAML config file")
	flag.Parse()

	if args := flag.Args(); len(args) > 0 {
		switch args[0] {
		case "init":
			if err := initConfig(*configPath); err != nil {
				fmt.Fprintf(os.Stderr, "ddc-switcher: %v\n", err)
				os.Exit(1)
			}
			return
		case "emit":
			if len(args) != 2 {
				fmt.Fprintf(os.Stderr, "usage: ddc-switcher emit <input>\n")
				os.Exit(1)
			}
			if err := emitPress(*configPath, args[1]); err != nil {
				fmt.Fprintf(os.Stderr, "ddc-switcher: %v\n", err)
				os.Exit(1)
			}
			return
		case "version":
			fmt.Printf("ddc-switcher %s\n", version)
			return
		default:
			fmt.Fprintf(os.Stderr, "usage: ddc-switcher [-config path] [init|emit <input>|version]\n")
			os.Exit(1)
		}
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "ddc-switcher: %v\n", err)
		if errors.Is(err, errNoDevice) {
			os.Exit(exitNoDevice)
		}
		os.Exit(1)
	}
}

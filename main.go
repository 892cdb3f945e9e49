// Command beastmind opens the sandbox window: a top-down view of the herd
// and the player, driven from the keyboard or a gamepad.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/beastmind/config"
	"github.com/milk9111/beastmind/prefabs"
	"github.com/milk9111/beastmind/sim"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags("beastmind")
	baseMonitor := fs.BoolP("monitor", "m", false, "use the first monitor instead of the primary one")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load("", fs)
	if err != nil {
		return err
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	prefabs.Dir = cfg.Prefabs.Dir

	opts := sim.Options{Input: readKeyboard, Logger: log}
	if cfg.Prefabs.Watch {
		watcher, err := prefabs.NewWatcher()
		if err != nil {
			log.Warn("prefab watch disabled", zap.Error(err))
		} else {
			defer func() { _ = watcher.Close() }()
			opts.Changes = watcher.Events
			go func() {
				for err := range watcher.Errors {
					log.Warn("prefab watch", zap.Error(err))
				}
			}()
		}
	}

	game, err := NewGame(cfg, opts)
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}
	defer game.Close()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetTPS(cfg.Sandbox.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Sandbox.Width, cfg.Sandbox.Height)
	ebiten.SetWindowTitle("beastmind")

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

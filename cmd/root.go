package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"go-drummer/audio"
	"go-drummer/config"
	"go-drummer/control"
	"go-drummer/debug"
	"go-drummer/midi"
	"go-drummer/pads"
	"go-drummer/server"
	"go-drummer/theme"
	"go-drummer/tui"
)

var (
	cfgFile string
	cfg     *config.Config

	flagKit     string
	flagVolume  int
	flagListen  string
	flagNoAudio bool
	flagNoMIDI  bool
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "drummer",
	Short: "A nine-pad drum machine for the terminal",
	Long: `Play a 3x3 grid of drum samples from the keyboard, the mouse, a MIDI
controller or a WebSocket client. Pads flash when hit; power, bank and
volume live on the control panel.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runDrummer,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/go-drummer/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "write ~/.config/go-drummer/debug.log")

	rootCmd.Flags().StringVar(&flagKit, "kit", "", "built-in kit to load")
	rootCmd.Flags().IntVar(&flagVolume, "volume", 0, "initial volume 0-100")
	rootCmd.Flags().StringVar(&flagListen, "listen", "", "serve the state WebSocket on this address")
	rootCmd.Flags().BoolVar(&flagNoAudio, "no-audio", false, "run silently")
	rootCmd.Flags().BoolVar(&flagNoMIDI, "no-midi", false, "skip MIDI controller discovery")
}

// loadConfig reads the config file, then lets explicit flags override it
func loadConfig(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("kit") {
		c.Kit = flagKit
		c.Pads = nil
	}
	if flags.Changed("volume") {
		c.Volume = flagVolume
	}
	if flags.Changed("listen") {
		c.Server.Listen = flagListen
	}
	if flagNoAudio {
		c.Audio.Enabled = false
	}
	if flagNoMIDI {
		c.MIDI.Enabled = false
	}
	if flagDebug {
		c.Debug = true
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Debug {
		dir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("locating debug log: %w", err)
		}
		if err := debug.Enable(filepath.Join(dir, "debug.log")); err != nil {
			return fmt.Errorf("enabling debug log: %w", err)
		}
	}

	cfg = c
	return nil
}

// title names the sound set in the header
func title(c *config.Config) string {
	if len(c.Pads) > 0 {
		return "custom kit"
	}
	return pads.GetKit(c.Kit).Name
}

func runDrummer(cmd *cobra.Command, args []string) error {
	defer debug.Disable()

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	machine := pads.NewMachine(pads.Options{
		Registry: reg,
		Volume:   cfg.VolumeLevel(),
		Expiry:   cfg.Expiry,
	})
	defer machine.Close()

	th := theme.New(nil)
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Audio.Enabled {
		engine, err := audio.NewEngine(audio.Options{
			SampleRate: cfg.Audio.SampleRate,
			Buffer:     cfg.Audio.Buffer,
		})
		if err != nil {
			// Pads still flash without a sound device
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: audio disabled: %v\n", err)
			debug.Log("audio", "disabled: %v", err)
		} else {
			defer engine.Close()
			g.Go(func() error {
				n := loadAll(gctx, engineLoader(engine), machine, cfg.Audio.LoadTimeout, loadLimit)
				debug.Log("audio", "loaded %d/%d pads", n, pads.PadCount)
				return nil
			})
		}
	}

	var controls *control.Manager
	if cfg.MIDI.Enabled {
		devices := midi.NewDeviceManager(cfg.MIDI.Poll, true, uint8(cfg.MIDI.BaseNote))
		controls = control.NewManager(machine, th)
		g.Go(func() error { devices.Run(gctx); return nil })
		g.Go(func() error { controls.Watch(gctx, devices.Events()); return nil })
		g.Go(func() error { controls.Run(gctx); return nil })
	}

	if cfg.Server.Listen != "" {
		srv := server.NewServer(machine, debug.Logger("server"), server.Config{})
		g.Go(func() error { srv.Run(gctx); return nil })
		g.Go(func() error { return server.Serve(gctx, cfg.Server.Listen, srv) })
	}

	m := tui.NewModel(machine, controls, th, title(cfg))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(gctx))

	_, runErr := p.Run()
	cancel()
	waitErr := g.Wait()

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("running TUI: %w", runErr)
	}
	return waitErr
}

// Command flow-counter counts material units entering and leaving a conveyor
// staging area with an entry and an exit sensor, shows the tally on a 16x2
// panel and raises an alarm when the number present reaches the threshold.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sweeney/flow-counter/internal/config"
	"github.com/sweeney/flow-counter/internal/display"
	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/nvm"
	"github.com/sweeney/flow-counter/internal/persist"
	"github.com/sweeney/flow-counter/internal/station"
	"github.com/sweeney/flow-counter/internal/status"
	"github.com/sweeney/flow-counter/internal/version"
)

// device is the station's combined input and output hardware.
type device interface {
	gpio.Reader
	gpio.Writer
}

// environment opens the hardware. Tests replace it with fakes.
type environment struct {
	openIO     func(cfg *config.Config) (device, error)
	openMemory func(cfg *config.Config) (nvm.Memory, error)
	isTerminal func(w io.Writer) bool
}

func realEnvironment() *environment {
	return &environment{
		openIO: func(cfg *config.Config) (device, error) {
			dev, err := gpio.NewRealIO(cfg.GPIO.Chip, cfg.GPIO.Pins(), cfg.GPIO.OutputActiveLow)
			if err != nil {
				return nil, err
			}
			return dev, nil
		},
		openMemory: func(cfg *config.Config) (nvm.Memory, error) {
			mem, err := nvm.OpenFile(cfg.Storage.Path, nvm.DefaultBase, nvm.DefaultSize)
			if err != nil {
				return nil, err
			}
			return mem, nil
		},
		isTerminal: func(w io.Writer) bool {
			f, ok := w.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	}
}

// flags holds the command line overrides for the settings file.
type flags struct {
	configPath string
	logLevel   string
	storage    string
	display    string
}

func main() {
	if err := newRootCmd(realEnvironment()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(env *environment) *cobra.Command {
	f := new(flags)

	root := &cobra.Command{
		Use:   "flow-counter",
		Short: "Count material units through a conveyor staging area and raise the fill alarm.",
		Long: `Runs the counting station of a conveyor staging area: polls the entry
and exit sensors, keeps the IN/OUT/RM counts on the panel, switches the
buzzer and lamp on while the number of units present is at or above the
threshold, and lets the operator adjust the threshold with the decrement
and increment buttons. The threshold is kept in a flash image and survives
restarts; the counts do not.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return runStation(ctx, cmd.OutOrStdout(), cfg, env)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&f.storage, "storage", "", "path to the flash image holding the threshold")
	pf.StringVar(&f.display, "display", "", "panel output: auto, console, log or none")

	root.AddCommand(newPrintStateCmd(f, env))
	version.AttachCobraVersionCommand(root)

	return root
}

func newPrintStateCmd(f *flags, env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "print-state",
		Short: "Print the input levels and the stored threshold as JSON, then exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			return printState(cmd.Context(), cmd.OutOrStdout(), cfg, env)
		},
	}
}

// loadConfig reads the settings file and applies flags that were set.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if pf.Changed("storage") {
		cfg.Storage.Path = f.storage
	}
	if pf.Changed("display") {
		cfg.Display = f.display
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	lvl, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(lvl)

	return cfg, nil
}

func runStation(ctx context.Context, stdout io.Writer, cfg *config.Config, env *environment) error {
	defer logger.Sync()

	dev, err := env.openIO(cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer dev.Close()

	mem, err := env.openMemory(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	panel, closePanel := openDisplay(cfg.Display, stdout, env.isTerminal)
	defer closePanel()

	logger.InfoKV(ctx, "starting", "version", version.Short(), "chip", cfg.GPIO.Chip,
		"storage", cfg.Storage.Path, "display", cfg.Display)

	ctrl := station.New(station.Options{
		Reader:           dev,
		Writer:           dev,
		Store:            persist.NewThresholdStore(mem, cfg.Storage.Base, cfg.Storage.Attempts),
		Display:          panel,
		Timing:           cfg.Timing.StationTiming(),
		RepersistDefault: cfg.Storage.RepersistDefault,
	})

	err = ctrl.Run(ctx)
	logger.DebugKV(ctx, "final state", "status", string(status.FormatJSON(ctrl.Snapshot())))
	return err
}

// openDisplay picks the panel implementation. Auto mode draws on the
// terminal when stdout is one and logs panel changes otherwise.
func openDisplay(mode string, stdout io.Writer, isTerminal func(io.Writer) bool) (display.Display, func()) {
	if mode == config.DisplayAuto {
		mode = config.DisplayLog
		if isTerminal(stdout) {
			mode = config.DisplayConsole
		}
	}

	switch mode {
	case config.DisplayConsole:
		c := display.NewConsole(stdout)
		return c, func() { _ = c.Close() }
	case config.DisplayLog:
		return display.NewLogDisplay(logger.Logger().Named("panel")), func() {}
	default:
		return display.NewLCD(), func() {}
	}
}

func printState(ctx context.Context, stdout io.Writer, cfg *config.Config, env *environment) error {
	dev, err := env.openIO(cfg)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer dev.Close()

	sample, err := dev.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}

	mem, err := env.openMemory(cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	th, valid, err := persist.NewThresholdStore(mem, cfg.Storage.Base, cfg.Storage.Attempts).Load(ctx)
	if err != nil {
		return fmt.Errorf("load threshold: %w", err)
	}

	snap := status.Snapshot{
		Phase:          status.PhaseThresholdLoaded,
		Threshold:      th,
		ThresholdValid: valid,
		Inputs:         &sample,
		Now:            time.Now(),
	}

	_, err = fmt.Fprintln(stdout, string(status.FormatJSON(snap)))
	return err
}

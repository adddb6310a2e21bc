package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/logger"
	"github.com/sweeney/flow-counter/internal/nvm"
	"github.com/sweeney/flow-counter/internal/persist"
	"github.com/sweeney/flow-counter/internal/station"
)

const (
	// DefaultConfigFilename is the settings file read when no path is given.
	DefaultConfigFilename = "flow-counter.yaml"

	// DefaultStorageFilename is the default flash image path.
	DefaultStorageFilename = "flow-counter.flash"

	// DefaultFilePermissions is the permission used by Save.
	DefaultFilePermissions = 0o600
)

// Display modes.
const (
	DisplayAuto    = "auto"
	DisplayConsole = "console"
	DisplayLog     = "log"
	DisplayNone    = "none"
)

var (
	errConfigIsNotSet   = errors.New("configuration is not set")
	errDuplicatePin     = errors.New("gpio lines must be distinct")
	errNegativePin      = errors.New("gpio line offsets must not be negative")
	errUnknownDisplay   = errors.New("display mode must be auto, console, log or none")
	errUnknownLogLevel  = errors.New("log level must be debug, info, warn or error")
	errNegativeDuration = errors.New("timing values must not be negative")
	errStorageRange     = errors.New("storage base must leave room for the threshold bytes")
)

// Config holds every station setting.
type Config struct {
	GPIO     GPIO    `yaml:"gpio"`
	Timing   Timing  `yaml:"timing"`
	Storage  Storage `yaml:"storage"`
	Display  string  `yaml:"display"`
	LogLevel string  `yaml:"log_level"`
}

// GPIO selects the chip and the line offsets.
type GPIO struct {
	Chip      string `yaml:"chip"`
	Entry     *int   `yaml:"entry"`
	Exit      *int   `yaml:"exit"`
	Decrement *int   `yaml:"decrement"`
	Increment *int   `yaml:"increment"`
	Buzzer    *int   `yaml:"buzzer"`
	Lamp      *int   `yaml:"lamp"`
	// OutputActiveLow drives the buzzer and lamp low when on.
	OutputActiveLow bool `yaml:"output_active_low"`
}

// Timing overrides the control loop delays. Zero keeps the default, except
// for Heartbeat where a negative value disables the status line.
type Timing struct {
	Poll         time.Duration `yaml:"poll"`
	ReleasePoll  time.Duration `yaml:"release_poll"`
	Chirp        time.Duration `yaml:"chirp"`
	Settle       time.Duration `yaml:"settle"`
	ButtonRepeat time.Duration `yaml:"button_repeat"`
	Heartbeat    time.Duration `yaml:"heartbeat"`
}

// Storage configures the threshold flash image.
type Storage struct {
	Path     string `yaml:"path"`
	Base     uint16 `yaml:"base"`
	Attempts int    `yaml:"attempts"`
	// RepersistDefault writes the default threshold back when the stored
	// one is invalid at startup.
	RepersistDefault bool `yaml:"repersist_default"`
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	cfg := new(Config)
	_ = Validate(cfg)
	return cfg
}

// Load reads the settings at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults and rejects impossible settings.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := validateGPIO(&cfg.GPIO); err != nil {
		return err
	}
	if err := validateTiming(&cfg.Timing); err != nil {
		return err
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}

	switch cfg.Display {
	case "":
		cfg.Display = DisplayAuto
	case DisplayAuto, DisplayConsole, DisplayLog, DisplayNone:
	default:
		return fmt.Errorf("%w: %q", errUnknownDisplay, cfg.Display)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, ok := logger.ParseLogLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	return nil
}

func validateGPIO(g *GPIO) error {
	if g.Chip == "" {
		g.Chip = gpio.DefaultChip
	}

	def := gpio.DefaultPins()
	lines := []struct {
		field **int
		def   int
	}{
		{&g.Entry, def.Entry},
		{&g.Exit, def.Exit},
		{&g.Decrement, def.Decrement},
		{&g.Increment, def.Increment},
		{&g.Buzzer, def.Buzzer},
		{&g.Lamp, def.Lamp},
	}

	seen := make(map[int]bool, len(lines))
	for _, l := range lines {
		if *l.field == nil {
			v := l.def
			*l.field = &v
		}
		offset := **l.field
		if offset < 0 {
			return fmt.Errorf("%w: %d", errNegativePin, offset)
		}
		if seen[offset] {
			return fmt.Errorf("%w: %d used twice", errDuplicatePin, offset)
		}
		seen[offset] = true
	}
	return nil
}

func validateTiming(t *Timing) error {
	def := station.DefaultTiming()
	fields := []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&t.Poll, def.Poll},
		{&t.ReleasePoll, def.ReleasePoll},
		{&t.Chirp, def.Chirp},
		{&t.Settle, def.Settle},
		{&t.ButtonRepeat, def.ButtonRepeat},
	}
	for _, f := range fields {
		if *f.v < 0 {
			return fmt.Errorf("%w: %s", errNegativeDuration, *f.v)
		}
		if *f.v == 0 {
			*f.v = f.def
		}
	}
	if t.Heartbeat == 0 {
		t.Heartbeat = def.Heartbeat
	}
	return nil
}

func validateStorage(s *Storage) error {
	if s.Path == "" {
		s.Path = DefaultStorageFilename
	}
	if s.Base == 0 {
		s.Base = nvm.DefaultBase
	}
	if int(s.Base)+1 >= int(nvm.DefaultBase)+nvm.DefaultSize || s.Base < nvm.DefaultBase {
		return fmt.Errorf("%w: 0x%04X", errStorageRange, s.Base)
	}
	if s.Attempts <= 0 {
		s.Attempts = persist.DefaultAttempts
	}
	return nil
}

// Pins returns the line offsets. Call it on a validated Config.
func (g GPIO) Pins() gpio.Pins {
	return gpio.Pins{
		Entry:     deref(g.Entry),
		Exit:      deref(g.Exit),
		Decrement: deref(g.Decrement),
		Increment: deref(g.Increment),
		Buzzer:    deref(g.Buzzer),
		Lamp:      deref(g.Lamp),
	}
}

// StationTiming converts the settings to loop delays. A negative heartbeat
// becomes zero, which disables it.
func (t Timing) StationTiming() station.Timing {
	hb := t.Heartbeat
	if hb < 0 {
		hb = 0
	}
	return station.Timing{
		Poll:         t.Poll,
		ReleasePoll:  t.ReleasePoll,
		Chirp:        t.Chirp,
		Settle:       t.Settle,
		ButtonRepeat: t.ButtonRepeat,
		Heartbeat:    hb,
	}
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

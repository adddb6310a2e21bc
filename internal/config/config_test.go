package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweeney/flow-counter/internal/gpio"
	"github.com/sweeney/flow-counter/internal/nvm"
	"github.com/sweeney/flow-counter/internal/persist"
	"github.com/sweeney/flow-counter/internal/station"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	require.Equal(t, gpio.DefaultChip, cfg.GPIO.Chip)
	require.Equal(t, gpio.DefaultPins(), cfg.GPIO.Pins())
	require.False(t, cfg.GPIO.OutputActiveLow)
	require.Equal(t, station.DefaultTiming(), cfg.Timing.StationTiming())
	require.Equal(t, DefaultStorageFilename, cfg.Storage.Path)
	require.Equal(t, uint16(nvm.DefaultBase), cfg.Storage.Base)
	require.Equal(t, persist.DefaultAttempts, cfg.Storage.Attempts)
	require.False(t, cfg.Storage.RepersistDefault)
	require.Equal(t, DisplayAuto, cfg.Display)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `
gpio:
  chip: gpiochip4
  entry: 5
  exit: 6
  lamp: 0
  output_active_low: true
timing:
  chirp: 50ms
  button_repeat: 400ms
  heartbeat: -1s
storage:
  path: /var/lib/flow-counter/threshold.flash
  base: 0x2100
  attempts: 5
  repersist_default: true
display: log
log_level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	pins := cfg.GPIO.Pins()
	require.Equal(t, "gpiochip4", cfg.GPIO.Chip)
	require.Equal(t, 5, pins.Entry)
	require.Equal(t, 6, pins.Exit)
	require.Equal(t, 0, pins.Lamp, "explicit zero offset is kept")
	require.Equal(t, gpio.DefaultPinBuzzer, pins.Buzzer)
	require.True(t, cfg.GPIO.OutputActiveLow)

	timing := cfg.Timing.StationTiming()
	require.Equal(t, 50*time.Millisecond, timing.Chirp)
	require.Equal(t, 400*time.Millisecond, timing.ButtonRepeat)
	require.Equal(t, station.DefaultTiming().Settle, timing.Settle)
	require.Zero(t, timing.Heartbeat, "negative heartbeat disables it")

	require.Equal(t, uint16(0x2100), cfg.Storage.Base)
	require.Equal(t, 5, cfg.Storage.Attempts)
	require.True(t, cfg.Storage.RepersistDefault)
	require.Equal(t, DisplayLog, cfg.Display)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "gpio: [not, a, map"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	entry := gpio.DefaultPinExit
	cfg := &Config{GPIO: GPIO{Entry: &entry}}
	require.ErrorIs(t, Validate(cfg), errDuplicatePin)

	negative := -1
	cfg = &Config{GPIO: GPIO{Buzzer: &negative}}
	require.ErrorIs(t, Validate(cfg), errNegativePin)

	cfg = &Config{Timing: Timing{Settle: -time.Millisecond}}
	require.ErrorIs(t, Validate(cfg), errNegativeDuration)

	cfg = &Config{Display: "lcd"}
	require.ErrorIs(t, Validate(cfg), errUnknownDisplay)

	cfg = &Config{LogLevel: "loud"}
	require.ErrorIs(t, Validate(cfg), errUnknownLogLevel)

	cfg = &Config{Storage: Storage{Base: nvm.DefaultBase + nvm.DefaultSize - 1}}
	require.ErrorIs(t, Validate(cfg), errStorageRange)

	cfg = &Config{Storage: Storage{Base: 0x1000}}
	require.ErrorIs(t, Validate(cfg), errStorageRange)

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)
	require.NoError(t, Validate(new(Config)))
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	cfg := Default()
	cfg.Display = DisplayNone
	cfg.Storage.RepersistDefault = true
	cfg.Timing.Chirp = 45 * time.Millisecond

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

package save

import (
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Config tunes the save manager. Zero value behavior comes from
// DefaultConfig.
type Config struct {
	// Strict escalates schema/class mismatches to panics. Meant for
	// development and CI, not shipped builds. The switch is a process-wide
	// ratchet: once any manager enables it, later managers with Strict off
	// do not relax it.
	Strict bool `yaml:"strict"`
	// MinVersion is the oldest container version Load still accepts.
	MinVersion int `yaml:"min_version"`
	// Backup configures the optional remote snapshot push.
	Backup BackupConfig `yaml:"backup"`
}

// BackupConfig configures the websocket uploader.
type BackupConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		MinVersion: 1,
		Backup: BackupConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// LoadConfig reads a YAML config, filling unset fields from DefaultConfig.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrap(err, "decoding save config")
	}
	if cfg.MinVersion < 1 {
		cfg.MinVersion = 1
	}
	if cfg.Backup.Timeout <= 0 {
		cfg.Backup.Timeout = DefaultConfig().Backup.Timeout
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config from disk, falling back to defaults when
// the file does not exist.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrapf(err, "opening config %q", path)
	}
	defer func() { _ = f.Close() }()
	return LoadConfig(f)
}

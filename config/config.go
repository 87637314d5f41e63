// Package config loads run configurations and builds ready-to-run machines
// from them.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is the cause of every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Mode selects how a program is run.
type Mode string

const (
	// ModeSolo runs one machine and reports the recovered value.
	ModeSolo Mode = "solo"
	// ModeDual runs two machines and reports how many values machine 1 sent.
	ModeDual Mode = "dual"
)

// UnmarshalYAML accepts the mode name in any letter case.
func (m *Mode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	*m = Mode(strings.ToLower(strings.TrimSpace(s)))

	return nil
}

// Config describes one run.
type Config struct {
	// Program is the path of the program file. A relative path in a config
	// file is resolved against the directory of that file.
	Program string `yaml:"program"`
	Mode    Mode   `yaml:"mode"`

	// MaxRounds limits dual runs, MaxSteps limits solo runs. 0 means no
	// limit.
	MaxRounds int `yaml:"maxRounds"`
	MaxSteps  int `yaml:"maxSteps"`

	// Trace is the file that receives trace records. "-" means stderr and
	// "" disables tracing.
	Trace string `yaml:"trace"`

	// DumpState prints the machine state tables after a run.
	DumpState bool `yaml:"dumpState"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Mode:      ModeDual,
		MaxRounds: 100_000_000,
		MaxSteps:  100_000_000,
	}
}

// Load reads a YAML config file. Fields missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "cannot open config")
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}

	if cfg.Program != "" && !filepath.IsAbs(cfg.Program) {
		cfg.Program = filepath.Join(filepath.Dir(path), cfg.Program)
	}

	return cfg, nil
}

// Parse decodes a YAML config. Unknown fields are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "cannot parse config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the mode and the limits.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeSolo, ModeDual:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown mode %q", c.Mode)
	}

	if c.MaxRounds < 0 {
		return errors.Wrapf(ErrInvalidConfig, "maxRounds is negative: %d", c.MaxRounds)
	}

	if c.MaxSteps < 0 {
		return errors.Wrapf(ErrInvalidConfig, "maxSteps is negative: %d", c.MaxSteps)
	}

	return nil
}

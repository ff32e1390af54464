// Package config handles the spellvm.toml configuration.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/krehermann/spellvm/vm"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents a spellvm.toml file.
type Config struct {
	Log LogConfig `toml:"log"`
	VM  VMConfig  `toml:"vm"`
	API APIConfig `toml:"api"`

	// Spellbook is a YAML file of spells to cast at startup.
	Spellbook string `toml:"spellbook"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type VMConfig struct {
	MaxStack int     `toml:"max_stack"`
	Health   []int32 `toml:"health"`
}

// APIConfig configures the http server. An empty Listen disables it.
type APIConfig struct {
	Listen string `toml:"listen"`
}

func Default() *Config {
	health := make([]int32, len(vm.DefaultHealth))
	copy(health, vm.DefaultHealth)
	return &Config{
		Log: LogConfig{
			Level:       "info",
			Development: true,
		},
		VM: VMConfig{
			MaxStack: vm.DefaultMaxStack,
			Health:   health,
		},
	}
}

// Load reads path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.VM.MaxStack <= 0 {
		return fmt.Errorf("vm.max_stack must be positive, got %d", c.VM.MaxStack)
	}
	if len(c.VM.Health) == 0 {
		return fmt.Errorf("vm.health must list at least one wizard")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Logger builds the process logger described by the log section.
func (c *Config) Logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

// VMOpts are the interpreter options described by the vm section.
func (c *Config) VMOpts() []vm.VMOpt {
	return []vm.VMOpt{
		vm.MaxStackOpt(c.VM.MaxStack),
		vm.HealthOpt(c.VM.Health),
	}
}

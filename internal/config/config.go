// Package config holds the CLI's own preferences -- trace-on-boot and
// the VM's logical stack size -- as distinct from anything the language
// runtime itself persists (it persists nothing).
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultStackSize matches vm.stackMax; duplicated here rather than
// imported so config has no dependency on vm.
const DefaultStackSize = 256

// Config is the set of CLI-level defaults a subcommand's flags can
// override. Zero value means no trace, default stack size.
type Config struct {
	Trace     bool `yaml:"trace"`
	StackSize int  `yaml:"stackSize"`
}

// Default returns the config used when no .nilanrc.yaml is present.
func Default() Config {
	return Config{StackSize: DefaultStackSize}
}

// Load reads path (typically ".nilanrc.yaml" in the working directory)
// and merges it over Default(). A missing file is not an error -- it
// just means the defaults stand; any other read or parse failure is
// returned to the caller.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.StackSize <= 0 {
		cfg.StackSize = DefaultStackSize
	}
	return cfg, nil
}

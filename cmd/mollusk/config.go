package main

import (
	"os"

	"github.com/mollusk-svm/mollusk-go/result"
	"gopkg.in/yaml.v3"
)

// runConfig is the --config file shape: the ignoreComputeUnits, verbose
// and panic knobs, loaded once per invocation. It holds no Compare set of
// its own; ignoreComputeUnits picks between the everything and
// everything-but-CUs presets. A --verbose or --ignore-compute-units flag
// that is set turns its option on whatever the file says.
type runConfig struct {
	IgnoreComputeUnits bool `yaml:"ignoreComputeUnits"`
	Verbose            bool `yaml:"verbose"`
	Panic              bool `yaml:"panic"`
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := runConfig{Panic: true}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c runConfig) resultConfig() result.Config {
	return result.Config{Panic: c.Panic, Verbose: c.Verbose}
}

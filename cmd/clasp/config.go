package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileConfig is the optional TOML runtime configuration:
//
//	step_quota = 100000
//	recursion_limit = 128
//	trace = true
type fileConfig struct {
	StepQuota      int  `toml:"step_quota"`
	RecursionLimit int  `toml:"recursion_limit"`
	Trace          bool `toml:"trace"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{}
}

func loadFileConfig(path string, cfg *fileConfig) error {
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	return nil
}

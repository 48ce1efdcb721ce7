package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the suite runner configuration. Scenario-internal constants
// (spawn transforms, settle tick counts, tolerances) are part of the
// scenarios themselves, not configuration.
type Config struct {
	// Endpoint is the simulator websocket URL.
	Endpoint   string `yaml:"endpoint"`
	ClientName string `yaml:"client_name"`

	// Map is loaded by scenarios that require a fresh known world.
	Map string `yaml:"map"`

	DataDir       string `yaml:"data_dir"`
	RecordTrace   bool   `yaml:"record_trace"`
	RecordResults bool   `yaml:"record_results"`
}

func Defaults() Config {
	return Config{
		Endpoint:      "ws://127.0.0.1:2000/v1/ws",
		ClientName:    "smoke",
		Map:           "Town05_Opt",
		DataDir:       "./data",
		RecordTrace:   true,
		RecordResults: true,
	}
}

func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if c.Endpoint == "" {
		return c, fmt.Errorf("%s: endpoint must not be empty", path)
	}
	if c.ClientName == "" {
		c.ClientName = "smoke"
	}
	return c, nil
}

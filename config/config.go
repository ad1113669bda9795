package config

import (
	"os"

	"github.com/Velocidex/yaml/v2"
	errors "github.com/go-errors/errors"
)

// Config holds the datastore engine settings. It is loaded once at
// startup and treated as immutable afterwards.
type Config struct {
	// Root of the datastore directory tree. All handler folder
	// structures are resolved relative to this.
	DatastoreLocation string `yaml:"datastore_location"`

	// Path of the sqlite database used as the secondary file index.
	IndexDatabase string `yaml:"index_database"`

	// Optional YAML file overriding the compiled in housekeeping
	// packet definitions.
	PacketDefinitions string `yaml:"packet_definitions,omitempty"`

	// Recorded on index records so reprocessing runs can be
	// distinguished.
	SoftwareVersion string `yaml:"software_version,omitempty"`
}

func GetDefaultConfig() *Config {
	return &Config{
		DatastoreLocation: "/data/datastore",
		IndexDatabase:     "/data/datastore/index.sqlite",
	}
}

// Load the config stored in the YAML file and return a config object.
func LoadConfig(filename string) (*Config, error) {
	result := GetDefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	err = yaml.UnmarshalStrict(data, result)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return result, nil
}

func ParseConfigFromString(config_string []byte) (*Config, error) {
	result := GetDefaultConfig()

	err := yaml.UnmarshalStrict(config_string, result)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}

	return result, nil
}

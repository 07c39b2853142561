package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the root of configFs. Keys missing from
// the file keep their default value.
func Load(configFs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigurationName, err)
	}
	out.configFs = configFs
	return out, nil
}

// Initialize writes the default configuration to the root of configFs unless
// one already exists, then loads it.
func Initialize(configFs afero.Fs, logger *log.Logger) (*Configuration, error) {
	exists, err := afero.Exists(configFs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Printf("%s already exists, leaving it in place", ConfigurationName)
	} else {
		logger.Printf("Writing %s", ConfigurationName)
		if err := afero.WriteFile(configFs, ConfigurationName, defaultConfigData, os.FileMode(0600)); err != nil {
			return nil, err
		}
	}

	return Load(configFs)
}

package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFunctionName = "cwf-db-migration"
	DefaultRegion       = "us-west-2"
	DefaultEnvFile      = ".env.db"
)

// Config holds the project-level dbops settings.
type Config struct {
	FunctionName string `yaml:"function_name"`
	Region       string `yaml:"region"`
	EnvFile      string `yaml:"env_file"`
}

// FindConfigFile tries to find the dbops config file in the current directory
// or any parent directory, falling back to the global config if needed
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %v", err)
	}
	for {
		configPath := filepath.Join(dir, "dbops.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached root directory
		}
		dir = parent
	}

	// Fall back to global config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %v", err)
	}

	globalConfig := filepath.Join(homeDir, ".dbops", "config.yaml")
	if _, err := os.Stat(globalConfig); err == nil {
		return globalConfig, nil
	}

	return "", fmt.Errorf("no config file found in project or ~/.dbops/config.yaml")
}

// ReadConfig reads a dbops config file, filling unset fields with defaults.
func ReadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %v", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config file: %v", err)
	}

	if config.FunctionName == "" {
		config.FunctionName = DefaultFunctionName
	}
	if config.Region == "" {
		config.Region = DefaultRegion
	}
	if config.EnvFile == "" {
		config.EnvFile = DefaultEnvFile
	}

	return &config, nil
}

// LoadConfig finds and reads the project config, returning defaults when no
// config file exists anywhere.
func LoadConfig() *Config {
	configPath, err := FindConfigFile()
	if err != nil {
		return &Config{
			FunctionName: DefaultFunctionName,
			Region:       DefaultRegion,
			EnvFile:      DefaultEnvFile,
		}
	}
	config, err := ReadConfig(configPath)
	if err != nil {
		return &Config{
			FunctionName: DefaultFunctionName,
			Region:       DefaultRegion,
			EnvFile:      DefaultEnvFile,
		}
	}
	return config
}

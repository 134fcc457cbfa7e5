// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .backport-bot.yaml (current directory)
//   - .backport-bot.yml (current directory)
//   - ~/.backport-bot/config.yaml
//   - ~/.backport-bot/config.yml
//
// A .env file in the current directory is loaded into the environment first
// (best effort), then environment variables are applied after the config
// file, allowing runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Credentials commonly live in a .env next to the checkout.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".backport-bot.yaml",
			".backport-bot.yml",
			filepath.Join(os.Getenv("HOME"), ".backport-bot", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".backport-bot", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("REDMINE_ENDPOINT"); endpoint != "" {
		cfg.Tracker.Endpoint = endpoint
	}
	if project := os.Getenv("REDMINE_PROJECT"); project != "" {
		cfg.Tracker.Project = project
	}
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration to catch invalid settings early,
// before any network call is made.
func (c *Config) Validate() error {
	if c.Tracker.Endpoint == "" {
		return fmt.Errorf("tracker endpoint cannot be empty")
	}
	if c.Tracker.Project == "" {
		return fmt.Errorf("tracker project cannot be empty")
	}
	if c.Names.Status == "" {
		return fmt.Errorf("status name cannot be empty")
	}
	if c.Names.Tracker == "" {
		return fmt.Errorf("backport tracker name cannot be empty")
	}
	if c.Names.BackportField == "" || c.Names.ReleaseField == "" {
		return fmt.Errorf("custom field names cannot be empty")
	}
	if c.Names.Priority == "" {
		return fmt.Errorf("priority name cannot be empty")
	}
	return nil
}

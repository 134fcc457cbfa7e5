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

// Package config types define the configuration structures used throughout
// backport-bot. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for backport-bot.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	Tracker TrackerConfig `yaml:"tracker"`
	Names   NamesConfig   `yaml:"names"`
}

// TrackerConfig contains tracker-specific settings: the endpoint to talk to,
// the project to scan, and the environment variables credentials are read
// from when not supplied on the command line.
type TrackerConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Project     string `yaml:"project"`
	APIKeyEnv   string `yaml:"api_key_env"`
	UserEnv     string `yaml:"user_env"`
	PasswordEnv string `yaml:"password_env"`
}

// NamesConfig names the tracker entities the backport workflow is built
// around. Installations that renamed the status or fields can override
// these without touching code.
type NamesConfig struct {
	Status        string `yaml:"status"`
	Tracker       string `yaml:"tracker"`
	BackportField string `yaml:"backport_field"`
	ReleaseField  string `yaml:"release_field"`
	Priority      string `yaml:"priority"`
}

// DefaultConfig returns the built-in defaults, matching the upstream
// tracker this tool was written for.
func DefaultConfig() *Config {
	return &Config{
		Tracker: TrackerConfig{
			Endpoint:    "https://tracker.ceph.com",
			Project:     "ceph",
			APIKeyEnv:   "REDMINE_API_KEY",
			UserEnv:     "REDMINE_USER",
			PasswordEnv: "REDMINE_PASSWORD",
		},
		Names: NamesConfig{
			Status:        "Pending Backport",
			Tracker:       "Backport",
			BackportField: "Backport",
			ReleaseField:  "Release",
			Priority:      "Normal",
		},
	}
}

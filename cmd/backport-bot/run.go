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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/backport-bot/internal/backport"
	"github.com/sirseerhq/backport-bot/internal/config"
	boterrors "github.com/sirseerhq/backport-bot/internal/errors"
	"github.com/sirseerhq/backport-bot/internal/logging"
	"github.com/sirseerhq/backport-bot/internal/redmine"
	"github.com/sirseerhq/backport-bot/internal/report"
)

// runOptions carries the resolved command-line inputs for a single run.
type runOptions struct {
	apiKey     string
	user       string
	password   string
	endpoint   string
	project    string
	configFile string
	debug      bool
	dryRun     bool
}

func newRootCommand() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "backport-bot [api-key]",
		Short: "Create missing backport issues for tracker issues pending backport",
		Long: `backport-bot scans a tracker project for issues in the "Pending Backport"
status, reads each issue's Backport field, and creates the backport issues
that do not exist yet, linking them with "copied to" relations.

The run is idempotent: backports that already exist are left alone, and the
tool never deletes or modifies existing issues. Use --dry-run to see what
would be created without making any changes.

Credentials come from the positional api-key argument, the --user/--password
flags, or the REDMINE_API_KEY / REDMINE_USER / REDMINE_PASSWORD environment
variables (a .env file in the working directory is honored).`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.apiKey = args[0]
			}
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.user, "user", "", "Tracker login for basic authentication")
	cmd.Flags().StringVar(&opts.password, "password", "", "Tracker password for basic authentication")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "Tracker base URL (default from config)")
	cmd.Flags().StringVar(&opts.project, "project", "", "Tracker project to scan (default from config)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to config file (default: .backport-bot.yaml)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Log intended creations without writing anything")

	return cmd
}

func run(ctx context.Context, opts runOptions) error {
	cfg, err := config.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if opts.endpoint != "" {
		cfg.Tracker.Endpoint = opts.endpoint
	}
	if opts.project != "" {
		cfg.Tracker.Project = opts.project
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	creds, err := resolveCredentials(opts, cfg)
	if err != nil {
		return err
	}

	client := redmine.NewRESTClient(cfg.Tracker.Endpoint, creds)

	return reconcile(ctx, client, cfg, opts.debug, opts.dryRun)
}

// reconcile wires the catalog and reconciler together and drives one pass
// over the configured project. Split from run so tests can inject a client.
func reconcile(ctx context.Context, client redmine.Client, cfg *config.Config, debug, dryRun bool) error {
	logger := logging.New(os.Stderr, debug)
	summary := report.NewSummary()

	if dryRun {
		logger.Infof("dry run: no changes will be made")
	}

	catalog, err := backport.BuildCatalog(ctx, client)
	if err != nil {
		return err
	}

	rec := backport.NewReconciler(client, catalog, logger, summary, backport.Options{
		ProjectName:   cfg.Tracker.Project,
		StatusName:    cfg.Names.Status,
		TrackerName:   cfg.Names.Tracker,
		BackportField: cfg.Names.BackportField,
		ReleaseField:  cfg.Names.ReleaseField,
		PriorityName:  cfg.Names.Priority,
		DryRun:        dryRun,
	})

	return rec.Run(ctx)
}

// resolveCredentials picks the credentials for the run. The positional API
// key wins, then the --user/--password pair, then the environment variables
// named by the config.
func resolveCredentials(opts runOptions, cfg *config.Config) (redmine.Credentials, error) {
	creds := redmine.Credentials{
		APIKey:   opts.apiKey,
		User:     opts.user,
		Password: opts.password,
	}

	if creds.APIKey == "" && creds.User == "" {
		creds.APIKey = os.Getenv(cfg.Tracker.APIKeyEnv)
	}
	if creds.APIKey == "" && creds.User == "" {
		creds.User = os.Getenv(cfg.Tracker.UserEnv)
		creds.Password = os.Getenv(cfg.Tracker.PasswordEnv)
	}

	if creds.APIKey == "" && creds.User == "" {
		return redmine.Credentials{}, fmt.Errorf(
			"no credentials: pass an API key argument, --user/--password, or set %s: %w",
			cfg.Tracker.APIKeyEnv, boterrors.ErrMissingCredentials)
	}

	return creds, nil
}

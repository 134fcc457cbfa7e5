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

// Package main implements the backport-bot command-line interface.
// This tool scans a tracker project for issues in the "Pending Backport"
// status and creates the backport issues their Backport field declares but
// that do not exist yet, linking each one with a "copied to" relation.
//
// The CLI supports:
//   - Authentication via an API key argument or a --user/--password pair
//   - Credential fallback to environment variables (optionally via .env)
//   - A --dry-run mode that logs intended creations without writing
//   - Verbose diagnostics with --debug
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	backport-bot [api-key] [flags]
//
// Example:
//
//	export REDMINE_API_KEY=your_key
//	backport-bot --dry-run
//
// Exit codes:
//   - 0: Success (including runs with per-issue reconciliation failures)
//   - 1: General error
//   - 2: Configuration/authentication error
//   - 3: Network error
package main

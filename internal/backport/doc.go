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

// Package backport implements the backport reconciliation workflow.
//
// For every issue in the "Pending Backport" status, the reconciler parses
// the issue's Backport field into the set of releases that need a backport,
// discovers the backports that already exist through "copied to" relations,
// and creates a backport issue plus linking relation for each release still
// missing. Existing state is never modified or deleted, which makes a run
// idempotent: a second pass over the repaired tracker performs no writes.
//
// The package also holds the fixed list of known release codenames and the
// lookup catalog of name-to-id mappings built once per run.
package backport

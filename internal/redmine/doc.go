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

// Package redmine provides a client for the Redmine REST API, covering the
// resources backport-bot needs: projects, issues, issue relations, statuses,
// trackers, priorities, versions and custom field definitions.
//
// The package includes:
//   - A Client interface so callers can be tested against a mock
//   - A REST implementation over net/http with API-key or basic auth
//   - Mock client for testing
//   - Type definitions matching the tracker's JSON wire format
//
// Basic usage:
//
//	client := redmine.NewRESTClient("https://tracker.example.com", redmine.Credentials{APIKey: key})
//	project, err := client.ProjectByName(ctx, "myproject")
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.FetchIssues(ctx, redmine.IssueFilter{
//	    ProjectID: project.ID,
//	    StatusID:  statusID,
//	}, redmine.FetchOptions{Limit: 100})
package redmine

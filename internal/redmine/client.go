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

package redmine

import "context"

// Client defines the interface for interacting with the tracker's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// ProjectByName retrieves a project by its identifier or numeric id,
	// with the project's enabled trackers included.
	ProjectByName(ctx context.Context, name string) (*Project, error)

	// ProjectByID retrieves a project by numeric id, with the project's
	// enabled trackers included.
	ProjectByID(ctx context.Context, id int) (*Project, error)

	// Statuses retrieves the tracker-wide issue status catalog.
	Statuses(ctx context.Context) ([]IssueStatus, error)

	// Trackers retrieves the tracker-wide issue type catalog.
	Trackers(ctx context.Context) ([]Tracker, error)

	// Priorities retrieves the issue priority enumeration.
	Priorities(ctx context.Context) ([]Priority, error)

	// CustomFields retrieves all custom field definitions.
	CustomFields(ctx context.Context) ([]CustomFieldDef, error)

	// Versions retrieves the versions defined on a project.
	Versions(ctx context.Context, projectID int) ([]Version, error)

	// FetchIssues retrieves one page of issues matching the filter.
	// Callers page through results via opts.Offset until IssuePage.HasMore
	// reports false.
	FetchIssues(ctx context.Context, filter IssueFilter, opts FetchOptions) (*IssuePage, error)

	// Issue retrieves a single issue by id.
	Issue(ctx context.Context, id int) (*Issue, error)

	// Relations retrieves the relations attached to an issue.
	Relations(ctx context.Context, issueID int) ([]Relation, error)

	// CreateIssue creates a new issue and returns the created resource.
	CreateIssue(ctx context.Context, issue NewIssue) (*Issue, error)

	// CreateRelation creates a relation of the given type from issueID to
	// issueToID and returns the created resource.
	CreateRelation(ctx context.Context, issueID, issueToID int, relationType string) (*Relation, error)
}

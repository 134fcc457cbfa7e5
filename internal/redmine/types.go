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

// Ref is a lightweight id/name reference embedded in other resources,
// such as an issue's project, tracker or status.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Project represents a tracker project. Trackers is only populated when the
// project was fetched with trackers included.
type Project struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Trackers   []Ref  `json:"trackers,omitempty"`
}

// HasTracker reports whether the project has a tracker with the given name.
// It only inspects the trackers loaded with the project.
func (p *Project) HasTracker(name string) bool {
	for _, t := range p.Trackers {
		if t.Name == name {
			return true
		}
	}
	return false
}

// IssueStatus represents one entry of the tracker's status catalog.
type IssueStatus struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	IsClosed bool   `json:"is_closed"`
}

// Tracker represents an issue type such as "Bug" or "Backport".
type Tracker struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Priority represents one entry of the issue priority enumeration.
type Priority struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// CustomFieldDef describes a custom field definition, used to resolve field
// names to the numeric ids required when creating issues.
type CustomFieldDef struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	CustomizedType string `json:"customized_type"`
	FieldFormat    string `json:"field_format"`
}

// Version represents a project version (fix version / target version).
type Version struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// CustomField is a name/value pair attached to an issue.
type CustomField struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Issue represents a tracker issue with the fields this tool reads.
type Issue struct {
	ID           int           `json:"id"`
	Project      Ref           `json:"project"`
	Tracker      Ref           `json:"tracker"`
	Status       Ref           `json:"status"`
	Priority     Ref           `json:"priority"`
	Subject      string        `json:"subject"`
	CustomFields []CustomField `json:"custom_fields,omitempty"`
}

// CustomFieldValue scans the issue's custom fields for one with the given
// name and returns its value. The second return is false when no field with
// that name is present; an empty value on a present field returns ("", true).
func (i *Issue) CustomFieldValue(name string) (string, bool) {
	for _, f := range i.CustomFields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Relation represents a directed link between two issues. Only relations of
// type "copied_to" matter to this tool; everything else is either ignored or
// reported as a data inconsistency.
type Relation struct {
	ID           int    `json:"id"`
	IssueID      int    `json:"issue_id"`
	IssueToID    int    `json:"issue_to_id"`
	RelationType string `json:"relation_type"`
}

// RelationCopiedTo is the relation type linking an original issue to the
// backport issues copied from it.
const RelationCopiedTo = "copied_to"

// NewIssue is the payload for creating an issue.
type NewIssue struct {
	ProjectID    int          `json:"project_id"`
	TrackerID    int          `json:"tracker_id"`
	Subject      string       `json:"subject"`
	PriorityID   int          `json:"priority_id,omitempty"`
	CustomFields []FieldValue `json:"custom_fields,omitempty"`
}

// FieldValue sets one custom field by id on a created issue.
type FieldValue struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// IssueFilter selects issues by project and status.
type IssueFilter struct {
	ProjectID int
	StatusID  int
}

// FetchOptions configures how issues are fetched.
// The tracker pages with offset/limit rather than cursors.
type FetchOptions struct {
	// Limit controls how many issues to fetch per page.
	// Defaults to 100 if not specified, the tracker's maximum.
	Limit int

	// Offset is the position to fetch from. Zero fetches from the beginning.
	Offset int
}

// Default values for fetch operations
const (
	defaultPageLimit = 100
)

// IssuePage represents one page of an issue listing along with the
// pagination bookkeeping needed to fetch the rest.
type IssuePage struct {
	Issues     []Issue
	TotalCount int
	Offset     int
	Limit      int
}

// HasMore reports whether further pages remain after this one.
func (p *IssuePage) HasMore() bool {
	return p.Offset+len(p.Issues) < p.TotalCount
}

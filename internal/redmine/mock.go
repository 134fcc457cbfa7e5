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

import (
	"context"
	"fmt"

	boterrors "github.com/sirseerhq/backport-bot/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// It serves catalog data and issues from in-memory maps and records every
// mutating call so tests can verify exactly what would hit the tracker.
type MockClient struct {
	// Catalog data to serve
	ProjectsByName  map[string]*Project
	ProjectsByID    map[int]*Project
	StatusList      []IssueStatus
	TrackerList     []Tracker
	PriorityList    []Priority
	CustomFieldDefs []CustomFieldDef
	VersionsByProj  map[int][]Version

	// Issue data to serve
	IssuesByID       map[int]*Issue
	PendingIssues    []Issue
	RelationsByIssue map[int][]Relation

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount        int
	RelationFetches  []int
	CreatedIssues    []NewIssue
	CreatedRelations []Relation

	nextID int
}

// NewMockClient creates a mock client preloaded with a minimal catalog:
// one project with a Backport tracker, the Pending Backport status, the
// Normal priority and the Backport/Release custom fields.
func NewMockClient() *MockClient {
	project := &Project{
		ID:         1,
		Name:       "Storage",
		Identifier: "storage",
		Trackers: []Ref{
			{ID: 1, Name: "Bug"},
			{ID: 9, Name: "Backport"},
		},
	}

	return &MockClient{
		ProjectsByName: map[string]*Project{"storage": project},
		ProjectsByID:   map[int]*Project{1: project},
		StatusList: []IssueStatus{
			{ID: 1, Name: "New"},
			{ID: 14, Name: "Pending Backport"},
			{ID: 3, Name: "Resolved", IsClosed: true},
		},
		TrackerList: []Tracker{
			{ID: 1, Name: "Bug"},
			{ID: 9, Name: "Backport"},
		},
		PriorityList: []Priority{
			{ID: 3, Name: "Low"},
			{ID: 4, Name: "Normal", IsDefault: true},
			{ID: 5, Name: "High"},
		},
		CustomFieldDefs: []CustomFieldDef{
			{ID: 2, Name: "Backport", CustomizedType: "issue", FieldFormat: "string"},
			{ID: 16, Name: "Release", CustomizedType: "issue", FieldFormat: "string"},
		},
		VersionsByProj: map[int][]Version{
			1: {{ID: 41, Name: "v10.2.0"}, {ID: 42, Name: "v12.2.0"}},
		},
		IssuesByID:       map[int]*Issue{},
		RelationsByIssue: map[int][]Relation{},
		nextID:           10000,
	}
}

// failure simulates the configured error conditions, if any.
func (m *MockClient) failure() error {
	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", boterrors.ErrAuthFailed)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", boterrors.ErrNetworkFailure)
	}
	return m.Error
}

// ProjectByName implements the Client interface.
func (m *MockClient) ProjectByName(ctx context.Context, name string) (*Project, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	if p, ok := m.ProjectsByName[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %q not found: %w", name, boterrors.ErrNotFound)
}

// ProjectByID implements the Client interface.
func (m *MockClient) ProjectByID(ctx context.Context, id int) (*Project, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	if p, ok := m.ProjectsByID[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("project %d not found: %w", id, boterrors.ErrNotFound)
}

// Statuses implements the Client interface.
func (m *MockClient) Statuses(ctx context.Context) ([]IssueStatus, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.StatusList, nil
}

// Trackers implements the Client interface.
func (m *MockClient) Trackers(ctx context.Context) ([]Tracker, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.TrackerList, nil
}

// Priorities implements the Client interface.
func (m *MockClient) Priorities(ctx context.Context) ([]Priority, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.PriorityList, nil
}

// CustomFields implements the Client interface.
func (m *MockClient) CustomFields(ctx context.Context) ([]CustomFieldDef, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.CustomFieldDefs, nil
}

// Versions implements the Client interface.
func (m *MockClient) Versions(ctx context.Context, projectID int) ([]Version, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.VersionsByProj[projectID], nil
}

// FetchIssues implements the Client interface. It serves PendingIssues with
// offset/limit paging like the real tracker.
func (m *MockClient) FetchIssues(ctx context.Context, filter IssueFilter, opts FetchOptions) (*IssuePage, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	total := len(m.PendingIssues)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return &IssuePage{
		Issues:     m.PendingIssues[start:end],
		TotalCount: total,
		Offset:     start,
		Limit:      limit,
	}, nil
}

// Issue implements the Client interface.
func (m *MockClient) Issue(ctx context.Context, id int) (*Issue, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}
	if issue, ok := m.IssuesByID[id]; ok {
		return issue, nil
	}
	return nil, fmt.Errorf("issue %d not found: %w", id, boterrors.ErrNotFound)
}

// Relations implements the Client interface.
func (m *MockClient) Relations(ctx context.Context, issueID int) ([]Relation, error) {
	m.CallCount++
	m.RelationFetches = append(m.RelationFetches, issueID)
	if err := m.failure(); err != nil {
		return nil, err
	}
	return m.RelationsByIssue[issueID], nil
}

// CreateIssue implements the Client interface. The created issue is stored so
// later lookups (and a second reconciliation run) observe it.
func (m *MockClient) CreateIssue(ctx context.Context, issue NewIssue) (*Issue, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}

	m.CreatedIssues = append(m.CreatedIssues, issue)

	m.nextID++
	created := &Issue{
		ID:      m.nextID,
		Project: Ref{ID: issue.ProjectID},
		Subject: issue.Subject,
		Status:  Ref{ID: 1, Name: "New"},
	}
	for _, t := range m.TrackerList {
		if t.ID == issue.TrackerID {
			created.Tracker = Ref{ID: t.ID, Name: t.Name}
		}
	}
	for _, fv := range issue.CustomFields {
		name := ""
		for _, def := range m.CustomFieldDefs {
			if def.ID == fv.ID {
				name = def.Name
			}
		}
		created.CustomFields = append(created.CustomFields, CustomField{
			ID:    fv.ID,
			Name:  name,
			Value: fv.Value,
		})
	}

	m.IssuesByID[created.ID] = created
	return created, nil
}

// CreateRelation implements the Client interface. The relation is attached to
// the source issue so later Relations calls observe it.
func (m *MockClient) CreateRelation(ctx context.Context, issueID, issueToID int, relationType string) (*Relation, error) {
	m.CallCount++
	if err := m.failure(); err != nil {
		return nil, err
	}

	rel := Relation{
		ID:           len(m.CreatedRelations) + 500,
		IssueID:      issueID,
		IssueToID:    issueToID,
		RelationType: relationType,
	}
	m.CreatedRelations = append(m.CreatedRelations, rel)
	m.RelationsByIssue[issueID] = append(m.RelationsByIssue[issueID], rel)
	return &rel, nil
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPendingIssues sets the issues served by FetchIssues. Each issue is
// also registered for direct lookup.
func WithPendingIssues(issues []Issue) MockClientOption {
	return func(m *MockClient) {
		m.PendingIssues = issues
		for i := range issues {
			issue := issues[i]
			m.IssuesByID[issue.ID] = &issue
		}
	}
}

// WithIssue registers a single issue for direct lookup.
func WithIssue(issue Issue) MockClientOption {
	return func(m *MockClient) {
		m.IssuesByID[issue.ID] = &issue
	}
}

// WithRelations sets the relations served for an issue.
func WithRelations(issueID int, relations []Relation) MockClientOption {
	return func(m *MockClient) {
		m.RelationsByIssue[issueID] = relations
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}

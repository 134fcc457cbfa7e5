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

package backport

import (
	"context"
	"fmt"

	"github.com/sirseerhq/backport-bot/internal/redmine"
)

// Catalog holds the name-to-id lookup tables resolved from the tracker.
// The tables are built once before reconciliation begins and are read-only
// afterwards; projects and versions are memoized on first access since they
// are only reachable by id or per project.
type Catalog struct {
	client redmine.Client

	statusIDs   map[string]int
	trackerIDs  map[string]int
	priorityIDs map[string]int
	fieldIDs    map[string]int

	projects map[int]*redmine.Project
	versions map[int]map[string]int
}

// BuildCatalog fetches the tracker's status, tracker, priority and custom
// field catalogs and indexes them by name.
func BuildCatalog(ctx context.Context, client redmine.Client) (*Catalog, error) {
	c := &Catalog{
		client:      client,
		statusIDs:   make(map[string]int),
		trackerIDs:  make(map[string]int),
		priorityIDs: make(map[string]int),
		fieldIDs:    make(map[string]int),
		projects:    make(map[int]*redmine.Project),
		versions:    make(map[int]map[string]int),
	}

	statuses, err := client.Statuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status catalog: %w", err)
	}
	for _, s := range statuses {
		c.statusIDs[s.Name] = s.ID
	}

	trackers, err := client.Trackers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracker catalog: %w", err)
	}
	for _, t := range trackers {
		c.trackerIDs[t.Name] = t.ID
	}

	priorities, err := client.Priorities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch priority catalog: %w", err)
	}
	for _, p := range priorities {
		c.priorityIDs[p.Name] = p.ID
	}

	fields, err := client.CustomFields(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch custom field catalog: %w", err)
	}
	for _, f := range fields {
		c.fieldIDs[f.Name] = f.ID
	}

	return c, nil
}

// StatusID resolves a status name to its id.
func (c *Catalog) StatusID(name string) (int, bool) {
	id, ok := c.statusIDs[name]
	return id, ok
}

// TrackerID resolves a tracker name to its id.
func (c *Catalog) TrackerID(name string) (int, bool) {
	id, ok := c.trackerIDs[name]
	return id, ok
}

// PriorityID resolves a priority name to its id.
func (c *Catalog) PriorityID(name string) (int, bool) {
	id, ok := c.priorityIDs[name]
	return id, ok
}

// FieldID resolves a custom field name to its id.
func (c *Catalog) FieldID(name string) (int, bool) {
	id, ok := c.fieldIDs[name]
	return id, ok
}

// Project returns the project with the given id, fetching it (with trackers
// included) on first access and serving the cached copy afterwards.
func (c *Catalog) Project(ctx context.Context, id int) (*redmine.Project, error) {
	if p, ok := c.projects[id]; ok {
		return p, nil
	}
	p, err := c.client.ProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.projects[id] = p
	return p, nil
}

// CacheProject stores an already fetched project in the catalog so later
// lookups by id do not refetch it.
func (c *Catalog) CacheProject(p *redmine.Project) {
	c.projects[p.ID] = p
}

// VersionID resolves a version name to its id on the given project,
// fetching the project's version list on first access.
func (c *Catalog) VersionID(ctx context.Context, projectID int, name string) (int, bool, error) {
	byName, ok := c.versions[projectID]
	if !ok {
		versions, err := c.client.Versions(ctx, projectID)
		if err != nil {
			return 0, false, err
		}
		byName = make(map[string]int, len(versions))
		for _, v := range versions {
			byName[v.Name] = v.ID
		}
		c.versions[projectID] = byName
	}
	id, ok := byName[name]
	return id, ok, nil
}

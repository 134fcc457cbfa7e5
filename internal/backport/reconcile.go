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
	"sort"

	"github.com/sirseerhq/backport-bot/internal/logging"
	"github.com/sirseerhq/backport-bot/internal/redmine"
	"github.com/sirseerhq/backport-bot/internal/report"
)

// Options configures a reconciliation run. The names identify the tracker
// entities the workflow is built around; DryRun suppresses every mutating
// call while keeping the traversal and logging identical.
type Options struct {
	ProjectName   string
	StatusName    string
	TrackerName   string
	BackportField string
	ReleaseField  string
	PriorityName  string
	DryRun        bool
}

// Reconciler drives the backport reconciliation over one tracker session.
// It is strictly sequential: one issue is processed start to finish before
// the next begins, and a failure on one issue never halts the run.
type Reconciler struct {
	client  redmine.Client
	catalog *Catalog
	log     *logging.Logger
	summary *report.Summary
	opts    Options

	trackerID  int
	priorityID int
	releaseID  int
}

// NewReconciler creates a Reconciler over the given client and catalog.
func NewReconciler(client redmine.Client, catalog *Catalog, log *logging.Logger, summary *report.Summary, opts Options) *Reconciler {
	return &Reconciler{
		client:  client,
		catalog: catalog,
		log:     log,
		summary: summary,
		opts:    opts,
	}
}

// Run resolves the project and status, pages through every issue pending a
// backport, reconciles each one and logs the final summary. Only resolution
// failures are fatal; per-issue failures are logged and counted.
func (r *Reconciler) Run(ctx context.Context) error {
	var ok bool
	statusID, ok := r.catalog.StatusID(r.opts.StatusName)
	if !ok {
		return fmt.Errorf("status %q not found in the tracker's status catalog", r.opts.StatusName)
	}
	r.trackerID, ok = r.catalog.TrackerID(r.opts.TrackerName)
	if !ok {
		return fmt.Errorf("tracker %q not found in the tracker catalog", r.opts.TrackerName)
	}
	r.priorityID, ok = r.catalog.PriorityID(r.opts.PriorityName)
	if !ok {
		return fmt.Errorf("priority %q not found in the priority catalog", r.opts.PriorityName)
	}
	r.releaseID, ok = r.catalog.FieldID(r.opts.ReleaseField)
	if !ok {
		return fmt.Errorf("custom field %q not found in the field catalog", r.opts.ReleaseField)
	}

	project, err := r.client.ProjectByName(ctx, r.opts.ProjectName)
	if err != nil {
		return fmt.Errorf("failed to resolve project %q: %w", r.opts.ProjectName, err)
	}
	r.catalog.CacheProject(project)

	r.log.Infof("scanning project %q for issues in status %q", project.Name, r.opts.StatusName)

	filter := redmine.IssueFilter{ProjectID: project.ID, StatusID: statusID}
	offset := 0
	for {
		page, err := r.client.FetchIssues(ctx, filter, redmine.FetchOptions{Offset: offset})
		if err != nil {
			return fmt.Errorf("failed to list pending backport issues: %w", err)
		}

		for i := range page.Issues {
			r.processIssue(ctx, &page.Issues[i])
		}

		if !page.HasMore() {
			break
		}
		offset = page.Offset + len(page.Issues)
	}

	r.log.Infof("%s", r.summary)
	return nil
}

// processIssue reconciles a single pending-backport issue. All failures are
// reported through the log and the summary; none of them stop the run.
func (r *Reconciler) processIssue(ctx context.Context, issue *redmine.Issue) {
	r.summary.AddProcessed()

	project, err := r.catalog.Project(ctx, issue.Project.ID)
	if err != nil {
		r.log.Errorf("issue %d: failed to fetch project %d: %v", issue.ID, issue.Project.ID, err)
		r.summary.AddFailed()
		return
	}

	// Projects without a Backport tracker opt out of this workflow.
	if !project.HasTracker(r.opts.TrackerName) {
		r.log.Infof("issue %d: project %q has no %q tracker, skipping", issue.ID, project.Name, r.opts.TrackerName)
		r.summary.AddSkipped()
		return
	}

	value, present := issue.CustomFieldValue(r.opts.BackportField)
	if !present || value == "" {
		r.log.Errorf("issue %d: no %q field set, skipping", issue.ID, r.opts.BackportField)
		r.summary.AddSkipped()
		return
	}

	required := ParseBackportField(value)
	if len(required) == 0 {
		// Reconciliation still runs against the empty set; an extra
		// existing backport below is a reportable inconsistency.
		r.log.Errorf("issue %d: %q field %q contains no release names", issue.ID, r.opts.BackportField, value)
	}

	existing, err := r.existingBackports(ctx, issue)
	if err != nil {
		r.log.Errorf("issue %d: %v", issue.ID, err)
		r.summary.AddFailed()
		return
	}

	if setsEqual(required, existing) {
		r.log.Infof("issue %d: all backport issues exist", issue.ID)
		return
	}

	if isStrictSuperset(existing, required) {
		// More backports exist than the field declares, most likely
		// because the field was edited after issues were created.
		// Never delete; just report.
		r.log.Errorf("issue %d: existing backports %v exceed those declared in the %q field %v",
			issue.ID, setList(existing), r.opts.BackportField, setList(required))
		r.summary.AddFailed()
		return
	}

	r.createMissing(ctx, issue, required, existing)
}

// existingBackports fetches the issue's relations and collects the Release
// values of every backport issue already linked via a "copied to" relation.
func (r *Reconciler) existingBackports(ctx context.Context, issue *redmine.Issue) (map[string]bool, error) {
	relations, err := r.client.Relations(ctx, issue.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch relations: %w", err)
	}

	existing := make(map[string]bool)
	for _, rel := range relations {
		other, err := r.client.Issue(ctx, rel.IssueToID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch related issue %d: %w", rel.IssueToID, err)
		}

		if other.Tracker.Name != r.opts.TrackerName {
			r.log.Debugf("issue %d: related issue %d is not a backport, ignoring", issue.ID, other.ID)
			continue
		}

		if rel.RelationType != redmine.RelationCopiedTo {
			return nil, fmt.Errorf("unexpected %q relation to backport issue %d", rel.RelationType, other.ID)
		}

		release, ok := other.CustomFieldValue(r.opts.ReleaseField)
		if !ok || release == "" {
			return nil, fmt.Errorf("backport issue %d has no %q field set", other.ID, r.opts.ReleaseField)
		}
		existing[release] = true
	}

	return existing, nil
}

// createMissing creates a backport issue and linking relation for each
// release required but not yet covered. Encountering a release name outside
// the known list aborts this issue's remaining releases.
func (r *Reconciler) createMissing(ctx context.Context, issue *redmine.Issue, required, existing map[string]bool) {
	missing := make(map[string]bool, len(required))
	for release := range required {
		if !existing[release] {
			missing[release] = true
		}
	}

	for _, release := range orderReleases(missing) {
		if !IsKnownRelease(release) {
			r.log.Errorf("issue %d: unknown release %q in %q field, aborting this issue",
				issue.ID, release, r.opts.BackportField)
			r.summary.AddFailed()
			return
		}

		subject := fmt.Sprintf("%s: %s", release, issue.Subject)

		if r.opts.DryRun {
			r.log.Infof("issue %d: would add backport %q", issue.ID, subject)
			r.summary.AddCreated()
			continue
		}

		created, err := r.client.CreateIssue(ctx, redmine.NewIssue{
			ProjectID:  issue.Project.ID,
			TrackerID:  r.trackerID,
			Subject:    subject,
			PriorityID: r.priorityID,
			CustomFields: []redmine.FieldValue{
				{ID: r.releaseID, Value: release},
			},
		})
		if err != nil {
			r.log.Errorf("issue %d: failed to create backport for %s: %v", issue.ID, release, err)
			r.summary.AddFailed()
			return
		}

		if _, err := r.client.CreateRelation(ctx, issue.ID, created.ID, redmine.RelationCopiedTo); err != nil {
			r.log.Errorf("issue %d: failed to link backport issue %d: %v", issue.ID, created.ID, err)
			r.summary.AddFailed()
			return
		}

		r.log.Infof("issue %d: created backport issue %d %q", issue.ID, created.ID, subject)
		r.summary.AddCreated()
		r.noteVersion(ctx, issue.Project.ID, release)
	}
}

// noteVersion debug-logs whether the project defines a version matching the
// release, for whoever later sets the backport's target version by hand.
// The created issue itself carries no fix-version.
func (r *Reconciler) noteVersion(ctx context.Context, projectID int, release string) {
	id, ok, err := r.catalog.VersionID(ctx, projectID, release)
	if err != nil {
		r.log.Debugf("version lookup on project %d failed: %v", projectID, err)
		return
	}
	if ok {
		r.log.Debugf("project %d has version %q (id %d); fix-version left unset", projectID, release, id)
	}
}

// orderReleases returns the releases of a set in a deterministic order:
// known releases first in release order, unknown names after, sorted.
func orderReleases(set map[string]bool) []string {
	var known, unknown []string
	for _, name := range knownReleases {
		if set[name] {
			known = append(known, name)
		}
	}
	for name := range set {
		if !IsKnownRelease(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return append(known, unknown...)
}

// setsEqual reports whether two sets hold the same members.
func setsEqual(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// isStrictSuperset reports whether a contains every member of b plus more.
func isStrictSuperset(a, b map[string]bool) bool {
	if len(a) <= len(b) {
		return false
	}
	for k := range b {
		if !a[k] {
			return false
		}
	}
	return true
}

// setList renders a set as a sorted slice for log output.
func setList(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

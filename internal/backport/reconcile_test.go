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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/sirseerhq/backport-bot/internal/logging"
	"github.com/sirseerhq/backport-bot/internal/redmine"
	"github.com/sirseerhq/backport-bot/internal/report"
)

func testOptions(dryRun bool) Options {
	return Options{
		ProjectName:   "storage",
		StatusName:    "Pending Backport",
		TrackerName:   "Backport",
		BackportField: "Backport",
		ReleaseField:  "Release",
		PriorityName:  "Normal",
		DryRun:        dryRun,
	}
}

// pendingIssue builds an original issue in the Pending Backport status with
// the given Backport field value.
func pendingIssue(id int, subject, backportValue string) redmine.Issue {
	issue := redmine.Issue{
		ID:      id,
		Project: redmine.Ref{ID: 1, Name: "Storage"},
		Tracker: redmine.Ref{ID: 1, Name: "Bug"},
		Status:  redmine.Ref{ID: 14, Name: "Pending Backport"},
		Subject: subject,
	}
	if backportValue != "" {
		issue.CustomFields = []redmine.CustomField{
			{ID: 2, Name: "Backport", Value: backportValue},
		}
	}
	return issue
}

// backportIssue builds an existing backport issue for the given release.
func backportIssue(id int, release string) redmine.Issue {
	return redmine.Issue{
		ID:      id,
		Project: redmine.Ref{ID: 1, Name: "Storage"},
		Tracker: redmine.Ref{ID: 9, Name: "Backport"},
		Subject: release + ": something",
		CustomFields: []redmine.CustomField{
			{ID: 16, Name: "Release", Value: release},
		},
	}
}

func copiedTo(relID, from, to int) redmine.Relation {
	return redmine.Relation{ID: relID, IssueID: from, IssueToID: to, RelationType: redmine.RelationCopiedTo}
}

// runReconciler builds a catalog and reconciler over the mock and runs it,
// returning the captured log and summary.
func runReconciler(t *testing.T, mock *redmine.MockClient, dryRun bool) (*bytes.Buffer, *report.Summary) {
	t.Helper()

	catalog, err := BuildCatalog(context.Background(), mock)
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}

	var buf bytes.Buffer
	summary := report.NewSummary()
	rec := NewReconciler(mock, catalog, logging.New(&buf, true), summary, testOptions(dryRun))

	if err := rec.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v\nlog:\n%s", err, buf.String())
	}
	return &buf, summary
}

func TestCreatesAllMissingBackports(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel, luminous"),
		}),
	)

	_, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 2 {
		t.Fatalf("created %d issues, want 2: %+v", len(mock.CreatedIssues), mock.CreatedIssues)
	}
	if len(mock.CreatedRelations) != 2 {
		t.Fatalf("created %d relations, want 2", len(mock.CreatedRelations))
	}

	// jewel precedes luminous in release order.
	if got := mock.CreatedIssues[0].Subject; got != "jewel: fix osd crash" {
		t.Errorf("first subject = %q, want %q", got, "jewel: fix osd crash")
	}
	if got := mock.CreatedIssues[1].Subject; got != "luminous: fix osd crash" {
		t.Errorf("second subject = %q, want %q", got, "luminous: fix osd crash")
	}

	for _, created := range mock.CreatedIssues {
		if created.ProjectID != 1 || created.TrackerID != 9 || created.PriorityID != 4 {
			t.Errorf("created issue = %+v, want project 1, Backport tracker 9, Normal priority 4", created)
		}
		if len(created.CustomFields) != 1 || created.CustomFields[0].ID != 16 {
			t.Errorf("created issue custom fields = %+v, want one Release field", created.CustomFields)
		}
	}
	for _, rel := range mock.CreatedRelations {
		if rel.IssueID != 101 || rel.RelationType != redmine.RelationCopiedTo {
			t.Errorf("relation = %+v, want copied_to from issue 101", rel)
		}
	}

	if summary.Created() != 2 || summary.Failed() != 0 {
		t.Errorf("summary = %s, want 2 created, 0 failed", summary)
	}
}

func TestCreatesOnlyMissingRelease(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel, luminous"),
		}),
		redmine.WithIssue(backportIssue(900, "jewel")),
		redmine.WithRelations(101, []redmine.Relation{copiedTo(1, 101, 900)}),
	)

	runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 1 {
		t.Fatalf("created %d issues, want 1: %+v", len(mock.CreatedIssues), mock.CreatedIssues)
	}
	if got := mock.CreatedIssues[0].Subject; got != "luminous: fix osd crash" {
		t.Errorf("subject = %q, want %q", got, "luminous: fix osd crash")
	}
}

func TestSecondRunIsIdempotent(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel, luminous"),
		}),
	)

	runReconciler(t, mock, false)
	if len(mock.CreatedIssues) != 2 {
		t.Fatalf("first run created %d issues, want 2", len(mock.CreatedIssues))
	}

	// The mock retains the created issues and relations, so a second run
	// sees the repaired state and must not create anything.
	_, summary := runReconciler(t, mock, false)
	if len(mock.CreatedIssues) != 2 {
		t.Errorf("second run created %d more issues, want 0", len(mock.CreatedIssues)-2)
	}
	if summary.Created() != 0 {
		t.Errorf("second run summary created = %d, want 0", summary.Created())
	}
}

func TestEqualSetsNoAction(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel"),
		}),
		redmine.WithIssue(backportIssue(900, "jewel")),
		redmine.WithRelations(101, []redmine.Relation{copiedTo(1, 101, 900)}),
	)

	buf, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 0 || len(mock.CreatedRelations) != 0 {
		t.Errorf("created %d issues and %d relations, want none",
			len(mock.CreatedIssues), len(mock.CreatedRelations))
	}
	if summary.Failed() != 0 {
		t.Errorf("summary failed = %d, want 0", summary.Failed())
	}
	if !strings.Contains(buf.String(), "all backport issues exist") {
		t.Errorf("log missing success line:\n%s", buf.String())
	}
}

func TestSupersetIsErrorWithoutMutation(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel"),
		}),
		redmine.WithIssue(backportIssue(900, "jewel")),
		redmine.WithIssue(backportIssue(901, "luminous")),
		redmine.WithRelations(101, []redmine.Relation{
			copiedTo(1, 101, 900),
			copiedTo(2, 101, 901),
		}),
	)

	buf, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 0 || len(mock.CreatedRelations) != 0 {
		t.Errorf("superset case mutated the tracker: %d issues, %d relations",
			len(mock.CreatedIssues), len(mock.CreatedRelations))
	}
	if summary.Failed() != 1 {
		t.Errorf("summary failed = %d, want 1", summary.Failed())
	}
	if !strings.Contains(buf.String(), "ERROR:") || !strings.Contains(buf.String(), "exceed") {
		t.Errorf("log missing superset error:\n%s", buf.String())
	}
}

func TestUnknownReleaseAbortsRemaining(t *testing.T) {
	// jewel is examined before the unknown mars; nothing after mars runs.
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel, mars"),
		}),
	)

	buf, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 1 {
		t.Fatalf("created %d issues, want 1 (jewel only): %+v", len(mock.CreatedIssues), mock.CreatedIssues)
	}
	if got := mock.CreatedIssues[0].Subject; got != "jewel: fix osd crash" {
		t.Errorf("subject = %q, want %q", got, "jewel: fix osd crash")
	}
	if summary.Failed() != 1 {
		t.Errorf("summary failed = %d, want 1", summary.Failed())
	}
	if !strings.Contains(buf.String(), `unknown release "mars"`) {
		t.Errorf("log missing unknown release error:\n%s", buf.String())
	}
}

func TestUnknownReleaseContinuesWithNextIssue(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "mars"),
			pendingIssue(102, "fix mds deadlock", "luminous"),
		}),
	)

	_, summary := runReconciler(t, mock, false)

	// Issue 101 fails on the unknown release, issue 102 is still repaired.
	if len(mock.CreatedIssues) != 1 {
		t.Fatalf("created %d issues, want 1: %+v", len(mock.CreatedIssues), mock.CreatedIssues)
	}
	if got := mock.CreatedIssues[0].Subject; got != "luminous: fix mds deadlock" {
		t.Errorf("subject = %q, want %q", got, "luminous: fix mds deadlock")
	}
	if summary.Processed() != 2 || summary.Failed() != 1 {
		t.Errorf("summary = %s, want 2 processed, 1 failed", summary)
	}
}

func TestDryRunMakesNoMutatingCalls(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel, luminous"),
		}),
	)

	buf, summary := runReconciler(t, mock, true)

	if len(mock.CreatedIssues) != 0 || len(mock.CreatedRelations) != 0 {
		t.Errorf("dry run mutated the tracker: %d issues, %d relations",
			len(mock.CreatedIssues), len(mock.CreatedRelations))
	}
	if got := strings.Count(buf.String(), "would add backport"); got != 2 {
		t.Errorf("dry run logged %d \"would add backport\" lines, want 2:\n%s", got, buf.String())
	}
	if summary.Created() != 2 {
		t.Errorf("summary created = %d, want 2", summary.Created())
	}
}

func TestProjectWithoutBackportTrackerIsSkipped(t *testing.T) {
	noBackport := &redmine.Project{
		ID:         2,
		Name:       "Website",
		Identifier: "website",
		Trackers:   []redmine.Ref{{ID: 1, Name: "Bug"}},
	}

	issue := pendingIssue(201, "typo on landing page", "jewel")
	issue.Project = redmine.Ref{ID: 2, Name: "Website"}

	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{issue}),
	)
	mock.ProjectsByID[2] = noBackport

	buf, summary := runReconciler(t, mock, false)

	// Skipped entirely: no relation fetch, no creation.
	if len(mock.RelationFetches) != 0 {
		t.Errorf("relations fetched for skipped issue: %v", mock.RelationFetches)
	}
	if len(mock.CreatedIssues) != 0 {
		t.Errorf("created %d issues for skipped issue, want 0", len(mock.CreatedIssues))
	}
	if summary.Processed() != 1 || summary.Failed() != 0 {
		t.Errorf("summary = %s, want 1 processed, 0 failed", summary)
	}
	if !strings.Contains(buf.String(), "no \"Backport\" tracker, skipping") {
		t.Errorf("log missing skip line:\n%s", buf.String())
	}
}

func TestMissingBackportFieldIsSkipped(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", ""),
		}),
	)

	buf, _ := runReconciler(t, mock, false)

	if len(mock.RelationFetches) != 0 {
		t.Errorf("relations fetched despite missing field: %v", mock.RelationFetches)
	}
	if len(mock.CreatedIssues) != 0 {
		t.Errorf("created %d issues, want 0", len(mock.CreatedIssues))
	}
	if !strings.Contains(buf.String(), "ERROR:") {
		t.Errorf("log missing error line:\n%s", buf.String())
	}
}

func TestEmptyParsedSetStillReconciles(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", " ,;- "),
		}),
	)

	buf, summary := runReconciler(t, mock, false)

	// The error is logged, but relations are still fetched and compared
	// against the empty required set.
	if len(mock.RelationFetches) != 1 {
		t.Errorf("relation fetches = %v, want exactly one", mock.RelationFetches)
	}
	if len(mock.CreatedIssues) != 0 {
		t.Errorf("created %d issues, want 0", len(mock.CreatedIssues))
	}
	if summary.Failed() != 0 {
		t.Errorf("summary failed = %d, want 0", summary.Failed())
	}
	if !strings.Contains(buf.String(), "contains no release names") {
		t.Errorf("log missing empty-set error:\n%s", buf.String())
	}
}

func TestUnexpectedRelationTypeFailsIssue(t *testing.T) {
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel"),
		}),
		redmine.WithIssue(backportIssue(900, "jewel")),
		redmine.WithRelations(101, []redmine.Relation{
			{ID: 1, IssueID: 101, IssueToID: 900, RelationType: "relates"},
		}),
	)

	buf, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 0 {
		t.Errorf("created %d issues after unexpected relation, want 0", len(mock.CreatedIssues))
	}
	if summary.Failed() != 1 {
		t.Errorf("summary failed = %d, want 1", summary.Failed())
	}
	if !strings.Contains(buf.String(), `unexpected "relates" relation`) {
		t.Errorf("log missing unexpected relation error:\n%s", buf.String())
	}
}

func TestNonBackportRelationsIgnored(t *testing.T) {
	// A "relates" link to a plain Bug is irrelevant and must not fail the issue.
	related := pendingIssue(300, "related bug", "")
	mock := redmine.NewMockClientWithOptions(
		redmine.WithPendingIssues([]redmine.Issue{
			pendingIssue(101, "fix osd crash", "jewel"),
		}),
		redmine.WithIssue(related),
		redmine.WithRelations(101, []redmine.Relation{
			{ID: 1, IssueID: 101, IssueToID: 300, RelationType: "relates"},
		}),
	)

	_, summary := runReconciler(t, mock, false)

	if len(mock.CreatedIssues) != 1 {
		t.Fatalf("created %d issues, want 1", len(mock.CreatedIssues))
	}
	if summary.Failed() != 0 {
		t.Errorf("summary failed = %d, want 0", summary.Failed())
	}
}

func TestRunFailsOnMissingStatus(t *testing.T) {
	mock := redmine.NewMockClient()
	mock.StatusList = []redmine.IssueStatus{{ID: 1, Name: "New"}}

	catalog, err := BuildCatalog(context.Background(), mock)
	if err != nil {
		t.Fatalf("BuildCatalog() error = %v", err)
	}

	var buf bytes.Buffer
	rec := NewReconciler(mock, catalog, logging.New(&buf, false), report.NewSummary(), testOptions(false))
	if err := rec.Run(context.Background()); err == nil {
		t.Fatal("Run() error = nil, want missing status error")
	}
}

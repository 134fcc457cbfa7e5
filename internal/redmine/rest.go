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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/backport-bot/internal/apierror"
	boterrors "github.com/sirseerhq/backport-bot/internal/errors"
)

// userAgent identifies this tool to the tracker.
const userAgent = "backport-bot"

// maxResponseSize caps tracker response bodies at 10MB.
const maxResponseSize = 10 * 1024 * 1024

// Credentials selects the authentication mode for the tracker session.
// APIKey wins when both are set.
type Credentials struct {
	APIKey   string
	User     string
	Password string
}

// RESTClient implements the Client interface over the tracker's REST API.
// It is configured with:
//   - Authentication via API key header or basic auth
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
//
// There is deliberately no retry or timeout policy here; cancellation is
// the caller's context, everything else is the HTTP client's default.
type RESTClient struct {
	baseURL   string
	client    *http.Client
	inspector apierror.Inspector
}

// NewRESTClient creates a new tracker client for the given endpoint.
func NewRESTClient(endpoint string, creds Credentials) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			creds: creds,
			base:  transport,
		},
	}

	return &RESTClient{
		baseURL:   strings.TrimRight(endpoint, "/"),
		client:    httpClient,
		inspector: apierror.NewErrorChainInspector(apierror.NewInspector()),
	}
}

// ProjectByName retrieves a project by identifier or numeric id, trackers included.
func (c *RESTClient) ProjectByName(ctx context.Context, name string) (*Project, error) {
	var resp struct {
		Project Project `json:"project"`
	}
	query := url.Values{"include": {"trackers"}}
	if err := c.get(ctx, "/projects/"+url.PathEscape(name)+".json", query, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("project %q", name))
	}
	return &resp.Project, nil
}

// ProjectByID retrieves a project by numeric id, trackers included.
func (c *RESTClient) ProjectByID(ctx context.Context, id int) (*Project, error) {
	return c.ProjectByName(ctx, strconv.Itoa(id))
}

// Statuses retrieves the tracker-wide issue status catalog.
func (c *RESTClient) Statuses(ctx context.Context) ([]IssueStatus, error) {
	var resp struct {
		IssueStatuses []IssueStatus `json:"issue_statuses"`
	}
	if err := c.get(ctx, "/issue_statuses.json", nil, &resp); err != nil {
		return nil, c.mapError(err, "issue statuses")
	}
	return resp.IssueStatuses, nil
}

// Trackers retrieves the tracker-wide issue type catalog.
func (c *RESTClient) Trackers(ctx context.Context) ([]Tracker, error) {
	var resp struct {
		Trackers []Tracker `json:"trackers"`
	}
	if err := c.get(ctx, "/trackers.json", nil, &resp); err != nil {
		return nil, c.mapError(err, "trackers")
	}
	return resp.Trackers, nil
}

// Priorities retrieves the issue priority enumeration.
func (c *RESTClient) Priorities(ctx context.Context) ([]Priority, error) {
	var resp struct {
		IssuePriorities []Priority `json:"issue_priorities"`
	}
	if err := c.get(ctx, "/enumerations/issue_priorities.json", nil, &resp); err != nil {
		return nil, c.mapError(err, "issue priorities")
	}
	return resp.IssuePriorities, nil
}

// CustomFields retrieves all custom field definitions.
func (c *RESTClient) CustomFields(ctx context.Context) ([]CustomFieldDef, error) {
	var resp struct {
		CustomFields []CustomFieldDef `json:"custom_fields"`
	}
	if err := c.get(ctx, "/custom_fields.json", nil, &resp); err != nil {
		return nil, c.mapError(err, "custom fields")
	}
	return resp.CustomFields, nil
}

// Versions retrieves the versions defined on a project.
func (c *RESTClient) Versions(ctx context.Context, projectID int) ([]Version, error) {
	var resp struct {
		Versions []Version `json:"versions"`
	}
	path := fmt.Sprintf("/projects/%d/versions.json", projectID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("versions of project %d", projectID))
	}
	return resp.Versions, nil
}

// FetchIssues retrieves one page of issues matching the filter.
func (c *RESTClient) FetchIssues(ctx context.Context, filter IssueFilter, opts FetchOptions) (*IssuePage, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}

	query := url.Values{
		"project_id": {strconv.Itoa(filter.ProjectID)},
		"status_id":  {strconv.Itoa(filter.StatusID)},
		"limit":      {strconv.Itoa(limit)},
		"offset":     {strconv.Itoa(opts.Offset)},
	}

	var resp struct {
		Issues     []Issue `json:"issues"`
		TotalCount int     `json:"total_count"`
		Offset     int     `json:"offset"`
		Limit      int     `json:"limit"`
	}
	if err := c.get(ctx, "/issues.json", query, &resp); err != nil {
		return nil, c.mapError(err, "issue listing")
	}

	return &IssuePage{
		Issues:     resp.Issues,
		TotalCount: resp.TotalCount,
		Offset:     resp.Offset,
		Limit:      resp.Limit,
	}, nil
}

// Issue retrieves a single issue by id.
func (c *RESTClient) Issue(ctx context.Context, id int) (*Issue, error) {
	var resp struct {
		Issue Issue `json:"issue"`
	}
	path := fmt.Sprintf("/issues/%d.json", id)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("issue %d", id))
	}
	return &resp.Issue, nil
}

// Relations retrieves the relations attached to an issue.
func (c *RESTClient) Relations(ctx context.Context, issueID int) ([]Relation, error) {
	var resp struct {
		Relations []Relation `json:"relations"`
	}
	path := fmt.Sprintf("/issues/%d/relations.json", issueID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("relations of issue %d", issueID))
	}
	return resp.Relations, nil
}

// CreateIssue creates a new issue and returns the created resource.
func (c *RESTClient) CreateIssue(ctx context.Context, issue NewIssue) (*Issue, error) {
	body := struct {
		Issue NewIssue `json:"issue"`
	}{Issue: issue}

	var resp struct {
		Issue Issue `json:"issue"`
	}
	if err := c.post(ctx, "/issues.json", body, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("create issue %q", issue.Subject))
	}
	return &resp.Issue, nil
}

// CreateRelation creates a relation of the given type between two issues.
func (c *RESTClient) CreateRelation(ctx context.Context, issueID, issueToID int, relationType string) (*Relation, error) {
	body := struct {
		Relation struct {
			IssueToID    int    `json:"issue_to_id"`
			RelationType string `json:"relation_type"`
		} `json:"relation"`
	}{}
	body.Relation.IssueToID = issueToID
	body.Relation.RelationType = relationType

	var resp struct {
		Relation Relation `json:"relation"`
	}
	path := fmt.Sprintf("/issues/%d/relations.json", issueID)
	if err := c.post(ctx, path, body, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("relation %d -> %d", issueID, issueToID))
	}
	return &resp.Relation, nil
}

// get executes a GET request and decodes the JSON response into out.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, out)
}

// post executes a POST request with a JSON body and decodes the response into out.
func (c *RESTClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// do sends the request and decodes a 2xx JSON response into out.
// Non-2xx responses become errors carrying the status and a snippet of the
// body, which the inspector later classifies.
func (c *RESTClient) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s",
			resp.StatusCode, req.URL.Path, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// mapError maps raw transport errors to our domain errors with actionable messages.
func (c *RESTClient) mapError(err error, resource string) error {
	if err == nil {
		return nil
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("tracker authentication failed while fetching %s. Provide a valid API key or user/password: %w (%v)",
			resource, boterrors.ErrAuthFailed, err)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("%s not found. Check the name and your access permissions: %w (%v)",
			resource, boterrors.ErrNotFound, err)
	}

	if c.inspector.IsValidationError(err) {
		return fmt.Errorf("tracker rejected %s: %w (%v)", resource, boterrors.ErrValidation, err)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error reaching the tracker for %s. Check your connection and the endpoint URL: %w (%v)",
			resource, boterrors.ErrNetworkFailure, err)
	}

	return fmt.Errorf("tracker request for %s failed: %w", resource, err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	creds Credentials
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	if t.creds.APIKey != "" {
		req.Header.Set("X-Redmine-API-Key", t.creds.APIKey)
	} else if t.creds.User != "" {
		req.SetBasicAuth(t.creds.User, t.creds.Password)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

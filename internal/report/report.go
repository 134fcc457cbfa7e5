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

// Package report tracks per-run outcome counts for the final summary line.
// There is deliberately no machine-readable output; the summary is a single
// human-readable line alongside the log stream.
package report

import (
	"fmt"
	"sync"
)

// Summary accumulates outcome counts over one run.
// Safe for concurrent use, though the run itself is sequential.
type Summary struct {
	mu      sync.Mutex
	procd   int
	created int
	skipped int
	failed  int
}

// NewSummary creates an empty Summary.
func NewSummary() *Summary {
	return &Summary{}
}

// AddProcessed records one issue examined.
func (s *Summary) AddProcessed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.procd++
}

// AddCreated records one backport issue created (or that would be created in dry-run).
func (s *Summary) AddCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created++
}

// AddSkipped records one issue skipped before reconciliation.
func (s *Summary) AddSkipped() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped++
}

// AddFailed records one issue whose reconciliation failed.
func (s *Summary) AddFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed++
}

// Processed returns the number of issues examined.
func (s *Summary) Processed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.procd
}

// Created returns the number of backport issues created.
func (s *Summary) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// Failed returns the number of issues whose reconciliation failed.
func (s *Summary) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// String renders the one-line run summary.
func (s *Summary) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("processed %d issues: %d backports created, %d skipped, %d failed",
		s.procd, s.created, s.skipped, s.failed)
}

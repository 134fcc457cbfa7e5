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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrMissingCredentials indicates neither an API key nor a user/password
	// pair was supplied. Maps to exit code 2 and aborts before any network call.
	ErrMissingCredentials = errors.New("missing tracker credentials")

	// ErrAuthFailed indicates tracker authentication was rejected.
	// Maps to exit code 2.
	ErrAuthFailed = errors.New("tracker authentication failed")

	// ErrNotFound indicates a tracker resource (project, issue) does not exist
	// or is not accessible. Maps to exit code 2.
	ErrNotFound = errors.New("tracker resource not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrValidation indicates the tracker rejected a create call as invalid.
	// Maps to exit code 1.
	ErrValidation = errors.New("tracker rejected request")
)

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

// Package apierror provides classification of errors returned by the
// tracker's REST API. The tracker reports failures through HTTP status
// codes and loosely structured error bodies, so classification falls back
// to inspecting error text when no typed information is available.
//
// The Inspector interface allows the REST client to map raw transport
// errors onto the sentinel errors used for exit-code mapping without
// depending on the exact shape of the underlying failure.
package apierror

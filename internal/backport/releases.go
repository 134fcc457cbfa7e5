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

import "regexp"

// knownReleases is the fixed, ordered list of release codenames this tool
// will create backport issues for. Membership here is the only validity
// check performed on a release name; the list is not validated against the
// tracker.
var knownReleases = []string{
	"argonaut",
	"bobtail",
	"cuttlefish",
	"dumpling",
	"emperor",
	"firefly",
	"giant",
	"hammer",
	"infernalis",
	"jewel",
	"kraken",
	"luminous",
	"mimic",
	"nautilus",
	"octopus",
	"pacific",
	"quincy",
	"reef",
	"squid",
}

// releaseIndex maps each known release to its position in release order.
var releaseIndex = func() map[string]int {
	idx := make(map[string]int, len(knownReleases))
	for i, name := range knownReleases {
		idx[name] = i
	}
	return idx
}()

// IsKnownRelease reports whether name is one of the known release codenames.
func IsKnownRelease(name string) bool {
	_, ok := releaseIndex[name]
	return ok
}

// KnownReleases returns a copy of the known release list in release order.
func KnownReleases() []string {
	out := make([]string, len(knownReleases))
	copy(out, knownReleases)
	return out
}

// tokenPattern matches the alphanumeric runs that make up release names in
// the Backport field. Any punctuation or whitespace separates tokens.
var tokenPattern = regexp.MustCompile(`[A-Za-z0-9]+`)

// ParseBackportField tokenizes a Backport field value into the set of
// candidate release names. Duplicates collapse; order is irrelevant.
// An empty or separator-only value yields an empty set.
func ParseBackportField(value string) map[string]bool {
	required := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(value, -1) {
		required[token] = true
	}
	return required
}

// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rules

import (
	"sort"

	"gitlab.com/tozd/go/errors"
)

var (
	// 🗺️ sets holds the registered rule sets by name
	sets = map[string][]Rule{}
)

// 📝 Register registers a named rule set. Later registrations with the
// same name replace earlier ones.
func Register(name string, ruleSet []Rule) {
	sets[name] = ruleSet
}

// 🎯 Get returns the rule set registered under name
func Get(name string) ([]Rule, error) {
	set, ok := sets[name]
	if !ok {
		return nil, errors.Errorf("unknown rule set: %s", name)
	}
	return set, nil
}

// 📋 Names returns the registered rule set names, sorted
func Names() []string {
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

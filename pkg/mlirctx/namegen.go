// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package mlirctx is component B (spec §4.B): the hardware-module context
// that owns fresh-name generation, the insert-once port-identity-to-value
// map, and (via the ModuleRegistry interface) cross-module lookups without
// introducing an import cycle back into package translate.
package mlirctx

import (
	"fmt"

	"github.com/weave-silicon/circt-emit/pkg/compileerr"
)

// ScopedNameGenerator mints fresh SSA value names, scoped to one
// hardware-module compilation. Every module gets its own instance so
// numbering restarts per module (spec §5: "a distinct symbol namespace"
// per independently-compiled top-level definition).
type ScopedNameGenerator struct {
	prefix string
	next   int
	used   map[string]bool
}

// NewScopedNameGenerator constructs a generator whose fresh names are
// "<prefix><n>" for increasing n.
func NewScopedNameGenerator(prefix string) *ScopedNameGenerator {
	return &ScopedNameGenerator{prefix: prefix, used: make(map[string]bool)}
}

// Fresh returns a new, previously-unused name.
func (g *ScopedNameGenerator) Fresh() string {
	for {
		name := fmt.Sprintf("%s%d", g.prefix, g.next)
		g.next++
		if !g.used[name] {
			g.used[name] = true
			return name
		}
	}
}

// Force returns name verbatim if it has not yet been used by this
// generator, marking it used; otherwise it returns a NameCollision error
// (spec §4.B, §7).
func (g *ScopedNameGenerator) Force(name string) (string, error) {
	if g.used[name] {
		return "", compileerr.Newf(compileerr.NameCollision, name, "forced name %q already in use", name)
	}

	g.used[name] = true

	return name, nil
}

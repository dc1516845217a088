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
package mlirctx

import (
	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
)

// ValueMap is the insert-once port-identity to MLIR-value map (spec
// §4.B). Keys are netlist.Value.ID()s, kept as plain uint64 here so this
// package does not need to import netlist.
type ValueMap struct {
	entries map[uint64]*mlirhw.Value
}

// NewValueMap constructs an empty map.
func NewValueMap() *ValueMap {
	return &ValueMap{entries: make(map[uint64]*mlirhw.Value)}
}

// Insert binds id to v. A second insert of a distinct value for the same
// id is a ValueMapConflict (spec §4.B, §7); re-inserting the identical
// value is idempotent, since the pipeline driver copies edge sources into
// destination entries before every visit and may legitimately see the
// same (id, value) pair more than once via shared fan-out.
func (m *ValueMap) Insert(id uint64, v *mlirhw.Value) error {
	if existing, ok := m.entries[id]; ok {
		if existing == v {
			return nil
		}
		return compileerr.Newf(compileerr.ValueMapConflict, id, "port %d already mapped to %s, cannot rebind to %s", id, existing.Ref(), v.Ref())
	}

	m.entries[id] = v

	return nil
}

// Lookup returns the value bound to id, if any.
func (m *ValueMap) Lookup(id uint64) (*mlirhw.Value, bool) {
	v, ok := m.entries[id]
	return v, ok
}

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

// Package lower is component E (spec §4.E) plus the type-lowering
// function of component A: the primitive dispatch table and per-node-kind
// emission that turns one graph.Node into mlirhw ops appended to the
// current block.
package lower

import (
	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// TypeCache lowers source types to target types, memoized by the source
// type's textual identity (spec §4.A: "memoize by source-type identity";
// netlist.ProductType carries a slice field and so is not itself a
// comparable map key, hence the String()-keyed cache rather than keying
// directly on the netlist.Type interface value — see DESIGN.md).
type TypeCache struct {
	memo map[string]mlirhw.Type
}

// NewTypeCache constructs an empty cache.
func NewTypeCache() *TypeCache {
	return &TypeCache{memo: make(map[string]mlirhw.Type)}
}

// Lower converts a source type to its target representation, per spec
// §4.A's policy table.
func (c *TypeCache) Lower(t netlist.Type) (mlirhw.Type, error) {
	key := t.String()
	if mt, ok := c.memo[key]; ok {
		return mt, nil
	}

	mt, err := c.lowerUncached(t)
	if err != nil {
		return nil, err
	}

	c.memo[key] = mt

	return mt, nil
}

func (c *TypeCache) lowerUncached(t netlist.Type) (mlirhw.Type, error) {
	switch tt := t.(type) {
	case netlist.DigitalType:
		return mlirhw.IntegerType{Width: 1}, nil

	case netlist.BitsType:
		return mlirhw.IntegerType{Width: tt.Width}, nil

	case netlist.ArrayType:
		if netlist.IsBit(tt.Elem) {
			return mlirhw.IntegerType{Width: tt.Count}, nil
		}

		elem, err := c.Lower(tt.Elem)
		if err != nil {
			return nil, err
		}

		return mlirhw.ArrayType{Count: tt.Count, Elem: elem}, nil

	case netlist.ProductType:
		fields := make([]mlirhw.StructField, len(tt.Fields))
		for i, f := range tt.Fields {
			ft, err := c.Lower(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = mlirhw.StructField{Name: f.Name, Type: ft}
		}

		return mlirhw.StructType{Fields: fields}, nil

	default:
		return nil, compileerr.Newf(compileerr.UnsupportedType, t, "unhandled source type variant %T", t)
	}
}

// FlattenedLeaf is one scalar/array leaf produced by recursively
// expanding a product-typed signature leaf under flatten_all_tuples
// (spec §6.2).
type FlattenedLeaf struct {
	Name string
	Type netlist.Type
}

// FlattenLeaf expands t into its constituent scalar/array leaves, joining
// nested field names onto name with "_". A non-product type is already a
// single leaf and is returned as the sole element of the result, so
// callers can invoke FlattenLeaf unconditionally wherever flattening is
// enabled rather than special-casing the non-product case.
func FlattenLeaf(name string, t netlist.Type) []FlattenedLeaf {
	pt, ok := t.(netlist.ProductType)
	if !ok {
		return []FlattenedLeaf{{Name: name, Type: t}}
	}

	var out []FlattenedLeaf
	for _, f := range pt.Fields {
		out = append(out, FlattenLeaf(name+"_"+f.Name, f.Type)...)
	}

	return out
}

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
package netlist

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Direction is the direction of a port value, as described in spec §3.
type Direction uint8

// The four directions a port value can carry.
const (
	In Direction = iota
	Out
	Mixed
	InOut
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	case Mixed:
		return "mixed"
	case InOut:
		return "inout"
	default:
		return "?"
	}
}

// Origin describes where a Value's identity comes from, matching the
// taxonomy in spec §3: "a reference describing its origin".
type Origin uint8

// The origin kinds a Value may carry.
const (
	OriginDefnPort Origin = iota
	OriginInstancePort
	OriginArrayIndex
	OriginProductField
	OriginAnonymousAggregate
	OriginConstantDigital
	OriginConstantBits
)

// Value is the opaque, stable-identity port value described in spec §3: it
// carries a type, a direction, and an origin. Every leaf port, every
// synthetic sub-value produced by descending an aggregate, and every
// constant driver is a Value.
type Value struct {
	id     uint64
	name   string
	typ    Type
	dir    Direction
	origin Origin

	// OriginDefnPort
	defn *Definition
	// OriginInstancePort
	inst *Instance

	// OriginArrayIndex / OriginProductField: the aggregate this value was
	// extracted from.
	parent *Value
	index  uint
	field  string

	// OriginAnonymousAggregate: the literal's constituent values, in type
	// order (array elements, or product fields in declaration order).
	elements []*Value

	// OriginConstantDigital
	bitValue bool

	// OriginConstantBits
	bits *bitset.BitSet

	// mixedFields holds one Value per field when dir == Mixed and typ is a
	// ProductType; each field carries its own direction. Populated by the
	// Builder when a mixed-direction port is declared.
	mixedFields []*Value

	// driver is set once this value has been wired to something by
	// Circuit.Drive (an instance's In leaf, a definition's own Out port, or
	// a synthetic sub-value in a driver chain). nil until then.
	driver Ref
}

// ID returns this value's stable identity, used as the key into the
// per-module value map (component B) and the getter cache (component D).
func (v *Value) ID() uint64 {
	return v.id
}

// Name returns the declared name of this value: a top-level port's name,
// or "port.field" for a field of a mixed-direction port. Sub-values made
// by NewArrayIndexValue/NewProductFieldValue, constants and anonymous
// literals have no name of their own.
func (v *Value) Name() string {
	return v.name
}

// Type returns this value's source type.
func (v *Value) Type() Type {
	return v.typ
}

// Direction returns this value's direction.
func (v *Value) Direction() Direction {
	return v.dir
}

// Origin returns the kind of reference describing where this value came
// from.
func (v *Value) Origin() Origin {
	return v.origin
}

// Definition returns the enclosing definition for an OriginDefnPort value.
func (v *Value) Definition() *Definition {
	return v.defn
}

// Instance returns the owning instance for an OriginInstancePort value.
func (v *Value) Instance() *Instance {
	return v.inst
}

// Parent returns the aggregate this value was extracted from, for
// OriginArrayIndex and OriginProductField values.
func (v *Value) Parent() *Value {
	return v.parent
}

// Index returns the array index, for an OriginArrayIndex value.
func (v *Value) Index() uint {
	return v.index
}

// Field returns the field name, for an OriginProductField value.
func (v *Value) Field() string {
	return v.field
}

// Elements returns the constituent values of an anonymous aggregate
// literal, in type order.
func (v *Value) Elements() []*Value {
	return v.elements
}

// ConstDigitalValue returns the bit carried by an OriginConstantDigital
// value.
func (v *Value) ConstDigitalValue() bool {
	return v.bitValue
}

// ConstBitsValue returns the bit vector carried by an
// OriginConstantBits value.
func (v *Value) ConstBitsValue() *bitset.BitSet {
	return v.bits
}

// Driver returns the driver reference wired to this value by
// Circuit.Drive, if any.
func (v *Value) Driver() (Ref, bool) {
	if v.driver == nil {
		return nil, false
	}

	return v.driver, true
}

// Trace resolves this value's driver, mirroring value.trace() in spec
// §6.1. It is only meaningful for a value that takes a driver (an
// instance's In-direction leaf, or a definition's own Out-direction port).
func (v *Value) Trace() (Ref, bool) {
	return v.Driver()
}

// IsMixedAggregate reports whether this value is an aggregate whose
// sub-fields differ in direction (glossary: "Mixed aggregate").
func (v *Value) IsMixedAggregate() bool {
	return v.dir == Mixed
}

// Leaves descends a (possibly mixed) aggregate value to its direction-pure
// terminals, per the glossary definition of "leaf port": a direction-pure
// terminal reached by descending mixed-direction aggregates. A
// non-mixed-direction value — even one with an Array or Product type — is
// itself already a leaf: further decomposition of its structure (indexing,
// field access) is handled later by synthetic ArrayGet/ProductGet nodes,
// not by this descent.
func (v *Value) Leaves() []*Value {
	if v.dir != Mixed {
		return []*Value{v}
	}

	var out []*Value

	for _, f := range v.mixedFields {
		out = append(out, f.Leaves()...)
	}

	return out
}

func (v *Value) String() string {
	if v.name != "" {
		return fmt.Sprintf("%s:%s", v.name, v.typ)
	}

	switch v.origin {
	case OriginArrayIndex:
		return fmt.Sprintf("%s[%d]", v.parent, v.index)
	case OriginProductField:
		return fmt.Sprintf("%s.%s", v.parent, v.field)
	case OriginConstantDigital:
		return fmt.Sprintf("const-digital(%v)", v.bitValue)
	case OriginConstantBits:
		return fmt.Sprintf("const-bits(%s)", v.typ)
	case OriginAnonymousAggregate:
		return fmt.Sprintf("anon(%s)", v.typ)
	default:
		return fmt.Sprintf("value#%d:%s", v.id, v.typ)
	}
}

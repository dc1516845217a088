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

import "github.com/bits-and-blooms/bitset"

// Circuit is the top-level collection of definitions, plus the designated
// top definition, per spec §3.
type Circuit struct {
	Definitions []*Definition
	Top         *Definition
	nextID      uint64
}

// NewCircuit constructs an empty circuit.
func NewCircuit() *Circuit {
	return &Circuit{}
}

func (c *Circuit) allocID() uint64 {
	c.nextID++
	return c.nextID
}

// NewDefinition creates and registers a new (initially body-bearing,
// empty) definition within this circuit.
func (c *Circuit) NewDefinition(name string) *Definition {
	d := &Definition{
		Name:      name,
		portIndex: make(map[string]*Value),
		circuit:   c,
	}
	c.Definitions = append(c.Definitions, d)

	return d
}

// NewConstDigitalValue constructs a fresh OriginConstantDigital value.
func (c *Circuit) NewConstDigitalValue(bit bool) *Value {
	return &Value{
		id:       c.allocID(),
		typ:      DigitalType{},
		dir:      Out,
		origin:   OriginConstantDigital,
		bitValue: bit,
	}
}

// NewConstBitsValue constructs a fresh OriginConstantBits value.
func (c *Circuit) NewConstBitsValue(t Type, bits *bitset.BitSet) *Value {
	return &Value{
		id:     c.allocID(),
		typ:    t,
		dir:    Out,
		origin: OriginConstantBits,
		bits:   bits,
	}
}

// NewAnonArrayValue constructs a fresh OriginAnonymousAggregate value of
// array shape, from its (already constructed) element values.
func (c *Circuit) NewAnonArrayValue(t ArrayType, elements []*Value) *Value {
	return &Value{
		id:       c.allocID(),
		typ:      t,
		dir:      Out,
		origin:   OriginAnonymousAggregate,
		elements: elements,
	}
}

// NewAnonProductValue constructs a fresh OriginAnonymousAggregate value of
// product shape, from its (already constructed) field values, given in the
// same order as t.Fields.
func (c *Circuit) NewAnonProductValue(t ProductType, fields []*Value) *Value {
	return &Value{
		id:       c.allocID(),
		typ:      t,
		dir:      Out,
		origin:   OriginAnonymousAggregate,
		elements: fields,
	}
}

// NewArrayIndexValue constructs the synthetic leaf produced by indexing
// into an array-typed parent at a fixed index. dir is the direction the
// resulting leaf should carry (In if it is itself to be driven, e.g. when
// used as an ArrayGet synthetic node's input; Out if it names a value
// already produced elsewhere).
func (c *Circuit) NewArrayIndexValue(parent *Value, index uint, dir Direction) *Value {
	at, ok := parent.typ.(ArrayType)
	if !ok {
		panic("NewArrayIndexValue: parent is not array-typed")
	}

	return &Value{
		id:     c.allocID(),
		typ:    at.Elem,
		dir:    dir,
		origin: OriginArrayIndex,
		parent: parent,
		index:  index,
	}
}

// NewProductFieldValue constructs the synthetic leaf produced by selecting
// a field of a product-typed parent.
func (c *Circuit) NewProductFieldValue(parent *Value, field string, dir Direction) *Value {
	pt, ok := parent.typ.(ProductType)
	if !ok {
		panic("NewProductFieldValue: parent is not product-typed")
	}

	ft, ok := pt.FieldType(field)
	if !ok {
		panic("NewProductFieldValue: no such field " + field)
	}

	return &Value{
		id:     c.allocID(),
		typ:    ft,
		dir:    dir,
		origin: OriginProductField,
		parent: parent,
		field:  field,
	}
}

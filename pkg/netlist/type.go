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

// Package netlist is a concrete, minimal implementation of the "source
// circuit" API that the compiler (packages graph, lower, translate)
// consumes as an opaque collaborator. It has no parser of its own; circuits
// are assembled with the Builder API or loaded from the JSON fixture format
// in json.go.
package netlist

import "fmt"

// ResetKind distinguishes the flavour of reset (if any) carried by a
// Digital type used as a register's control signal.
type ResetKind uint8

// The reset flavours recognised by the register scaffolding in package
// lower. NoReset means the signal carries no reset semantics at all (it is
// an ordinary digital value).
const (
	NoReset ResetKind = iota
	SyncReset
	SyncResetN
	AsyncReset
	AsyncResetN
)

func (r ResetKind) String() string {
	switch r {
	case NoReset:
		return "none"
	case SyncReset:
		return "sync"
	case SyncResetN:
		return "syncN"
	case AsyncReset:
		return "async"
	case AsyncResetN:
		return "asyncN"
	default:
		return "unknown"
	}
}

// Type is the tagged variant of source types described in spec §3: a
// single bit ("Digital"), a bit vector, a fixed-length array, or a named
// product (struct). Types carry shape only; direction lives on Value.
type Type interface {
	isNetlistType()
	String() string
}

// DigitalType is a single-bit value, optionally tagged with the reset
// semantics it carries when used to drive a register.
type DigitalType struct {
	Reset ResetKind
}

func (DigitalType) isNetlistType() {}
func (t DigitalType) String() string {
	if t.Reset == NoReset {
		return "Digital"
	}

	return fmt.Sprintf("Digital[%s]", t.Reset)
}

// BitsType is an unsigned bit vector of a fixed width.
type BitsType struct {
	Width uint
}

func (BitsType) isNetlistType() {}
func (t BitsType) String() string {
	return fmt.Sprintf("Bits[%d]", t.Width)
}

// ArrayType is a fixed-length, homogeneously-typed array.
type ArrayType struct {
	Count uint
	Elem  Type
}

func (ArrayType) isNetlistType() {}
func (t ArrayType) String() string {
	return fmt.Sprintf("Array[%d, %s]", t.Count, t.Elem)
}

// Field is one named, ordered member of a Product type.
type Field struct {
	Name string
	Type Type
}

// ProductType is a named product (struct) of fields, in declaration order.
type ProductType struct {
	Fields []Field
}

func (ProductType) isNetlistType() {}
func (t ProductType) String() string {
	s := "Product{"
	for i, f := range t.Fields {
		if i != 0 {
			s += ", "
		}

		s += f.Name + ": " + f.Type.String()
	}

	return s + "}"
}

// FieldType returns the type of the named field, and whether it exists.
func (t ProductType) FieldType(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}

	return nil, false
}

// IsBit returns true when t is a single-bit type, i.e. Digital or Bits[1].
// Used by type lowering (component A) to decide whether an array of bits
// should flatten into an integer.
func IsBit(t Type) bool {
	switch tt := t.(type) {
	case DigitalType:
		return true
	case BitsType:
		return tt.Width == 1
	default:
		return false
	}
}

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

// Package mlirhw is the target IR model: MLIR types and operations in the
// hw/comb/sv dialects, plus the block/region containers and the text
// printer that renders them. It owns no lowering logic of its own (spec
// §4.C: "no semantic logic lives in the printer") — every op is
// constructed fully-formed by package lower or translate.
package mlirhw

import "fmt"

// Type is the lowered (target-side) counterpart of netlist.Type (spec
// §4.A): an MLIR builtin or hw-dialect type.
type Type interface {
	isMlirType()
	String() string
}

// IntegerType is MLIR's builtin iN.
type IntegerType struct {
	Width uint
}

func (IntegerType) isMlirType() {}
func (t IntegerType) String() string {
	return fmt.Sprintf("i%d", t.Width)
}

// ArrayType is hw.array<count x element>.
type ArrayType struct {
	Count uint
	Elem  Type
}

func (ArrayType) isMlirType() {}
func (t ArrayType) String() string {
	return fmt.Sprintf("!hw.array<%d x %s>", t.Count, t.Elem)
}

// StructField is one named, ordered member of a StructType.
type StructField struct {
	Name string
	Type Type
}

// StructType is hw.struct<field: type, ...>.
type StructType struct {
	Fields []StructField
}

func (StructType) isMlirType() {}
func (t StructType) String() string {
	s := "!hw.struct<"
	for i, f := range t.Fields {
		if i != 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s: %s", f.Name, f.Type)
	}
	return s + ">"
}

// InOutType is hw.inout<inner>, the type of sv.reg/sv.wire results.
type InOutType struct {
	Inner Type
}

func (InOutType) isMlirType() {}
func (t InOutType) String() string {
	return fmt.Sprintf("!hw.inout<%s>", t.Inner)
}

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

// CompileGuardKind distinguishes an #ifdef-guarded instantiation from an
// #ifndef-guarded one (spec §4.E, §4.G, GLOSSARY "Compile guard").
type CompileGuardKind uint8

// The two compile-guard flavours.
const (
	GuardDefined CompileGuardKind = iota
	GuardUndefined
)

// CompileGuard wraps a user-module instantiation in a preprocessor
// ifdef/ifndef scope.
type CompileGuard struct {
	Kind      CompileGuardKind
	Condition string
}

// Primitive identifies an opaque operator by its (library, name) pair, plus
// whatever configuration/metadata the library attaches to it (spec §6.1).
type Primitive struct {
	Library     string
	Name        string
	ConfigArgs  map[string]any
	VerilogName string
	CompileGuard *CompileGuard
}

// VerilogTemplate is one inline-verilog primitive template: a textual
// pattern with {key} placeholders and the ordered list of port values they
// refer to.
type VerilogTemplate struct {
	Template string
	Refs     []*Value
}

// BindDecl is one bound sub-module attachment (GLOSSARY "Bind module"): a
// sub-instance observed from outside its parent, plus any extra argument
// values the bind declaration supplies beyond the parent's own interface.
type BindDecl struct {
	Name  string
	Inst  *Instance
	Extra []*Value
}

// Definition is a named source module: either a body-bearing definition
// (has Instances and internal wiring) or a declaration (Primitive != nil,
// or VerilogFile != "" — spec §6.1's is_primitive / verilog attribute).
type Definition struct {
	Name        string
	ports       []*Value
	portIndex   map[string]*Value
	Instances   []*Instance
	Primitive   *Primitive
	VerilogFile string

	Binds         []BindDecl
	InlineVerilog []VerilogTemplate

	circuit *Circuit
}

// Circuit returns the circuit this definition was created within, used by
// package graph to allocate synthetic value identities.
func (d *Definition) Circuit() *Circuit {
	return d.circuit
}

// Port returns the named top-level port, or nil if there is none by that
// name.
func (d *Definition) Port(name string) *Value {
	return d.portIndex[name]
}

// Ports returns all top-level named ports, in declaration order.
func (d *Definition) Ports() []*Value {
	return d.ports
}

// Inputs returns the leaves (per Value.Leaves) of every In-direction
// top-level port, in declaration order.
func (d *Definition) Inputs() []*Value {
	return leavesByDirection(d.ports, In)
}

// Outputs returns the leaves of every Out-direction top-level port, in
// declaration order.
func (d *Definition) Outputs() []*Value {
	return leavesByDirection(d.ports, Out)
}

// IsDeclaration reports whether this definition has no body of its own —
// either because it is a primitive operator, or because it carries a
// verilog/verilogFile attribute (spec §4.F: "marked primitive or
// external").
func (d *Definition) IsDeclaration() bool {
	return d.Primitive != nil || d.VerilogFile != ""
}

func leavesByDirection(ports []*Value, dir Direction) []*Value {
	var out []*Value

	for _, p := range ports {
		if p.dir == dir {
			out = append(out, p)
		} else if p.dir == Mixed {
			for _, leaf := range p.Leaves() {
				if leaf.dir == dir {
					out = append(out, leaf)
				}
			}
		}
	}

	return out
}

func (d *Definition) String() string {
	return d.Name
}

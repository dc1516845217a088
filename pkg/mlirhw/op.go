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
package mlirhw

import "strings"

func joinValues(vs []*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Ref()
	}
	return strings.Join(parts, ", ")
}

func joinTypes(ts []Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}

func valueTypes(vs []*Value) []Type {
	ts := make([]Type, len(vs))
	for i, v := range vs {
		ts[i] = v.Type
	}
	return ts
}

// ============================================================================
// hw dialect
// ============================================================================

// HWConstantOp is hw.constant: a literal integer value. Literal is the
// pre-formatted decimal/hex text of the value; formatting is the
// responsibility of whoever constructs the op (package lower), not the
// printer.
type HWConstantOp struct {
	Result  *Value
	Literal string
}

func (op *HWConstantOp) Print(p *Printer) {
	p.Line("%s = hw.constant %s : %s", op.Result.Ref(), op.Literal, op.Result.Type)
}

// HWInstanceOp is hw.instance: one user-definition instantiation.
// DoNotPrint and InnerSym are set for bind-module instances (spec §4.G).
type HWInstanceOp struct {
	InstName   string
	Module     string
	Operands   []*Value
	Results    []*Value
	DoNotPrint bool
	InnerSym   string
}

func (op *HWInstanceOp) Print(p *Printer) {
	resultAssign := ""
	if len(op.Results) > 0 {
		resultAssign = joinValues(op.Results) + " = "
	}

	attrs := ""
	if op.DoNotPrint {
		attrs += " {doNotPrint = 1}"
	}
	sym := ""
	if op.InnerSym != "" {
		sym = " sym @" + op.InnerSym
	}

	p.Line("%s%shw.instance %q @%s%s(%s) : (%s) -> (%s)%s",
		resultAssign, "", op.InstName, op.Module, sym,
		joinValues(op.Operands), joinTypes(valueTypes(op.Operands)), joinTypes(valueTypes(op.Results)), attrs)
}

// HWModuleOp is hw.module: a region-bearing op owning the body block built
// by the pipeline driver (component F). Inputs are the block arguments;
// Outputs are the named result placeholders whose final mapped values are
// gathered by the closing HWOutputOp.
type HWModuleOp struct {
	Symbol  string
	Inputs  []*Value
	Outputs []*Value
	Body    *Block
}

func (op *HWModuleOp) Print(p *Printer) {
	p.Line("hw.module @%s(%s) -> (%s) {", op.Symbol, moduleArgList(op.Inputs), moduleResultList(op.Outputs))
	p.Push()
	op.Body.Print(p)
	p.Pop()
	p.Line("}")
}

// HWModuleExternOp is hw.module.extern: a declaration-only signature, for
// a primitive or verilog-backed definition (spec §4.F).
type HWModuleExternOp struct {
	Symbol  string
	Inputs  []*Value
	Outputs []*Value
}

func (op *HWModuleExternOp) Print(p *Printer) {
	p.Line("hw.module.extern @%s(%s) -> (%s)", op.Symbol, moduleArgList(op.Inputs), moduleResultList(op.Outputs))
}

func moduleArgList(vs []*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Ref() + ": " + v.Type.String()
	}
	return strings.Join(parts, ", ")
}

func moduleResultList(vs []*Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Name + ": " + v.Type.String()
	}
	return strings.Join(parts, ", ")
}

// HWOutputOp is hw.output, the terminator gathering a module body's
// result values. Per spec §8 ("empty-interface modules: no hw.output is
// emitted"), the pipeline driver simply omits constructing this op rather
// than emitting one with zero operands.
type HWOutputOp struct {
	Operands []*Value
}

func (op *HWOutputOp) Print(p *Printer) {
	if len(op.Operands) == 0 {
		p.Line("hw.output")
		return
	}
	p.Line("hw.output %s : %s", joinValues(op.Operands), joinTypes(valueTypes(op.Operands)))
}

// HWArrayCreateOp is hw.array_create. Operands must already be in
// MSB-first (reversed leaf-index) order by the time this op is
// constructed (spec §4.E "reversed-operand ops").
type HWArrayCreateOp struct {
	Operands []*Value
	Result   *Value
}

func (op *HWArrayCreateOp) Print(p *Printer) {
	p.Line("%s = hw.array_create %s : %s", op.Result.Ref(), joinValues(op.Operands), elemTypeOf(op.Result.Type))
}

func elemTypeOf(t Type) Type {
	if at, ok := t.(ArrayType); ok {
		return at.Elem
	}
	return t
}

// HWArrayConcatOp is hw.array_concat: joins whole arrays end to end (as
// opposed to hw.array_create, which builds an array from scalar
// elements). Used by the size-1 array-get workaround (spec §4.E) to widen
// a 1-element array to 2 elements before indexing, since MLIR has no i0
// constant to index the original with.
type HWArrayConcatOp struct {
	Operands []*Value
	Result   *Value
}

func (op *HWArrayConcatOp) Print(p *Printer) {
	p.Line("%s = hw.array_concat %s : %s", op.Result.Ref(), joinValues(op.Operands), joinTypes(valueTypes(op.Operands)))
}

// HWArrayGetOp is hw.array_get. Index is itself an MLIR value (typically
// produced by a preceding HWConstantOp), matching real hw.array_get's
// value-typed index operand.
type HWArrayGetOp struct {
	Array  *Value
	Index  *Value
	Result *Value
}

func (op *HWArrayGetOp) Print(p *Printer) {
	p.Line("%s = hw.array_get %s[%s] : %s, %s", op.Result.Ref(), op.Array.Ref(), op.Index.Ref(), op.Array.Type, op.Index.Type)
}

// HWStructCreateOp is hw.struct_create.
type HWStructCreateOp struct {
	Operands []*Value
	Result   *Value
}

func (op *HWStructCreateOp) Print(p *Printer) {
	p.Line("%s = hw.struct_create (%s) : %s", op.Result.Ref(), joinValues(op.Operands), op.Result.Type)
}

// HWStructExtractOp is hw.struct_extract.
type HWStructExtractOp struct {
	Input  *Value
	Field  string
	Result *Value
}

func (op *HWStructExtractOp) Print(p *Printer) {
	p.Line("%s = hw.struct_extract %s[%q] : %s", op.Result.Ref(), op.Input.Ref(), op.Field, op.Input.Type)
}

// ============================================================================
// comb dialect
// ============================================================================

// combVariadicOp is the shared shape of every comb op that simply takes a
// list of same-typed operands and produces one same-typed result
// (xor/and/or/add/sub/mul/divu/divs/modu/mods/shru/shrs/shl). mnemonic
// carries the textual comb op name.
type combVariadicOp struct {
	mnemonic string
	Operands []*Value
	Result   *Value
}

func (op *combVariadicOp) Print(p *Printer) {
	p.Line("%s = comb.%s %s : %s", op.Result.Ref(), op.mnemonic, joinValues(op.Operands), op.Result.Type)
}

func newCombVariadicOp(mnemonic string, operands []*Value, result *Value) *combVariadicOp {
	return &combVariadicOp{mnemonic: mnemonic, Operands: operands, Result: result}
}

// One constructor per comb variadic op kind, matching spec §4.E's table
// and SPEC_FULL.md §C's named closed-enum entries.
func NewCombXorOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("xor", operands, result) }
func NewCombAndOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("and", operands, result) }
func NewCombOrOp(operands []*Value, result *Value) Op   { return newCombVariadicOp("or", operands, result) }
func NewCombAddOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("add", operands, result) }
func NewCombSubOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("sub", operands, result) }
func NewCombMulOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("mul", operands, result) }
func NewCombDivUOp(operands []*Value, result *Value) Op { return newCombVariadicOp("divu", operands, result) }
func NewCombDivSOp(operands []*Value, result *Value) Op { return newCombVariadicOp("divs", operands, result) }
func NewCombModUOp(operands []*Value, result *Value) Op { return newCombVariadicOp("modu", operands, result) }
func NewCombModSOp(operands []*Value, result *Value) Op { return newCombVariadicOp("mods", operands, result) }
func NewCombShrUOp(operands []*Value, result *Value) Op { return newCombVariadicOp("shru", operands, result) }
func NewCombShrSOp(operands []*Value, result *Value) Op { return newCombVariadicOp("shrs", operands, result) }
func NewCombShlOp(operands []*Value, result *Value) Op  { return newCombVariadicOp("shl", operands, result) }

// CombConcatOp is comb.concat. Operands must already be in MSB-first
// order (spec §4.E "reversed-operand ops").
type CombConcatOp struct {
	Operands []*Value
	Result   *Value
}

func (op *CombConcatOp) Print(p *Printer) {
	p.Line("%s = comb.concat %s : %s", op.Result.Ref(), joinValues(op.Operands), joinTypes(valueTypes(op.Operands)))
}

// CombExtractOp is comb.extract.
type CombExtractOp struct {
	Input  *Value
	LowBit uint
	Result *Value
}

func (op *CombExtractOp) Print(p *Printer) {
	p.Line("%s = comb.extract %s from %d : (%s) -> %s", op.Result.Ref(), op.Input.Ref(), op.LowBit, op.Input.Type, op.Result.Type)
}

// CombICmpOp is comb.icmp. Pred is the textual predicate (eq, ne, slt,
// sle, sgt, sge, ult, ule, ugt, uge).
type CombICmpOp struct {
	Pred   string
	Lhs    *Value
	Rhs    *Value
	Result *Value
}

func (op *CombICmpOp) Print(p *Printer) {
	p.Line("%s = comb.icmp %s %s, %s : %s", op.Result.Ref(), op.Pred, op.Lhs.Ref(), op.Rhs.Ref(), op.Lhs.Type)
}

// CombParityOp is comb.parity (coreir.xorr).
type CombParityOp struct {
	Input  *Value
	Result *Value
}

func (op *CombParityOp) Print(p *Printer) {
	p.Line("%s = comb.parity %s : %s", op.Result.Ref(), op.Input.Ref(), op.Input.Type)
}

// CombMuxOp is comb.mux, part of the closed target-op enumeration
// (SPEC_FULL.md §C) though no primitive in spec §4.E's mapping table
// currently dispatches to it — multiplexing primitives lower to
// hw.array_create/hw.array_get chains instead.
type CombMuxOp struct {
	Cond   *Value
	True   *Value
	False  *Value
	Result *Value
}

func (op *CombMuxOp) Print(p *Printer) {
	p.Line("%s = comb.mux %s, %s, %s : %s", op.Result.Ref(), op.Cond.Ref(), op.True.Ref(), op.False.Ref(), op.Result.Type)
}

// ============================================================================
// sv dialect
// ============================================================================

// SVRegOp is sv.reg: allocates a register storage cell of type
// !hw.inout<T>.
type SVRegOp struct {
	Result *Value // Result.Type is already InOutType{Inner: T}
}

func (op *SVRegOp) Print(p *Printer) {
	p.Line("%s = sv.reg : %s", op.Result.Ref(), op.Result.Type)
}

// SVWireOp is sv.wire: the cycle-breaker's and coreir.wire's storage cell.
type SVWireOp struct {
	Result *Value
}

func (op *SVWireOp) Print(p *Printer) {
	p.Line("%s = sv.wire : %s", op.Result.Ref(), op.Result.Type)
}

// SVAssignOp is sv.assign: continuous assignment to a wire.
type SVAssignOp struct {
	Dest *Value
	Src  *Value
}

func (op *SVAssignOp) Print(p *Printer) {
	p.Line("sv.assign %s, %s : %s", op.Dest.Ref(), op.Src.Ref(), op.Src.Type)
}

// SVPAssignOp is sv.passign: non-blocking procedural assignment, used
// inside sv.alwaysff bodies.
type SVPAssignOp struct {
	Dest *Value
	Src  *Value
}

func (op *SVPAssignOp) Print(p *Printer) {
	p.Line("sv.passign %s, %s : %s", op.Dest.Ref(), op.Src.Ref(), op.Src.Type)
}

// SVBPAssignOp is sv.bpassign: blocking procedural assignment, used
// inside sv.initial bodies.
type SVBPAssignOp struct {
	Dest *Value
	Src  *Value
}

func (op *SVBPAssignOp) Print(p *Printer) {
	p.Line("sv.bpassign %s, %s : %s", op.Dest.Ref(), op.Src.Ref(), op.Src.Type)
}

// SVReadInOutOp is sv.read_inout: reads a reg/wire's current value.
type SVReadInOutOp struct {
	Input  *Value
	Result *Value
}

func (op *SVReadInOutOp) Print(p *Printer) {
	p.Line("%s = sv.read_inout %s : %s", op.Result.Ref(), op.Input.Ref(), op.Input.Type)
}

// SVAlwaysFFOp is sv.alwaysff, the register-scaffolding trigger block
// (spec §4.E "register scaffolding"). Reset is nil when the register
// carries no reset (SPEC_FULL.md §G, point 3: still allocate the
// unconditional alwaysff).
type SVAlwaysFFOp struct {
	ClockEdge string // "posedge" | "negedge"
	Clock     *Value
	Body      *Block

	ResetKind string // "syncreset" | "asyncreset", empty if no reset
	ResetEdge string // "posedge" | "negedge"
	Reset     *Value
	ResetBody *Block
}

func (op *SVAlwaysFFOp) Print(p *Printer) {
	if op.ResetKind == "" {
		p.Line("sv.alwaysff(%s %s) {", op.ClockEdge, op.Clock.Ref())
		p.Push()
		op.Body.Print(p)
		p.Pop()
		p.Line("}")
		return
	}

	p.Line("sv.alwaysff(%s %s) {", op.ClockEdge, op.Clock.Ref())
	p.Push()
	op.Body.Print(p)
	p.Pop()
	p.Line("} (%s : %s %s) {", op.ResetKind, op.ResetEdge, op.Reset.Ref())
	p.Push()
	op.ResetBody.Print(p)
	p.Pop()
	p.Line("}")
}

// SVIfOp is sv.if, with an optional else block (Else == nil when absent).
type SVIfOp struct {
	Cond *Value
	Then *Block
	Else *Block
}

func (op *SVIfOp) Print(p *Printer) {
	p.Line("sv.if %s {", op.Cond.Ref())
	p.Push()
	op.Then.Print(p)
	p.Pop()
	if op.Else == nil {
		p.Line("}")
		return
	}
	p.Line("} else {")
	p.Push()
	op.Else.Print(p)
	p.Pop()
	p.Line("}")
}

// SVInitialOp is sv.initial: the register's reset-value initial block.
type SVInitialOp struct {
	Body *Block
}

func (op *SVInitialOp) Print(p *Printer) {
	p.Line("sv.initial {")
	p.Push()
	op.Body.Print(p)
	p.Pop()
	p.Line("}")
}

// SVIfDefOp is sv.ifdef / sv.ifndef (Negated selects which), wrapping a
// compile-guarded instantiation (spec §4.E, SPEC_FULL.md §G point 2).
type SVIfDefOp struct {
	Condition string
	Negated   bool
	Then      *Block
}

func (op *SVIfDefOp) Print(p *Printer) {
	mnemonic := "sv.ifdef"
	if op.Negated {
		mnemonic = "sv.ifndef"
	}
	p.Line("%s %q {", mnemonic, op.Condition)
	p.Push()
	op.Then.Print(p)
	p.Pop()
	p.Line("}")
}

// SVBindOp is sv.bind, emitted outside the referring module body
// (component G's post-process phase).
type SVBindOp struct {
	ParentModule string
	InstanceSym  string
}

func (op *SVBindOp) Print(p *Printer) {
	p.Line("sv.bind @%s::@%s", op.ParentModule, op.InstanceSym)
}

// SVVerbatimOp is sv.verbatim, one per inline-verilog template attached
// to a primitive (spec §4.E). Text is the already-renumbered template
// ("{keyN}" rewritten to "{{i}}" in decreasing key length, per SPEC_FULL
// §G point 4).
type SVVerbatimOp struct {
	Text     string
	Operands []*Value
}

func (op *SVVerbatimOp) Print(p *Printer) {
	p.Line("sv.verbatim %q(%s) : %s", op.Text, joinValues(op.Operands), joinTypes(valueTypes(op.Operands)))
}

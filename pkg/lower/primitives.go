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
package lower

import (
	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

type primKey struct{ library, name string }

type primHandler func(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error

// primitiveTable is the (library, name) -> handler dispatch table (spec
// §4.E). It is built once, at package initialization, from the
// combinational/bitwise table plus the handful of primitives needing
// bespoke shapes (wire scaffolding, registers, muxes, LUTs).
var primitiveTable = buildPrimitiveTable()

func buildPrimitiveTable() map[primKey]primHandler {
	t := map[primKey]primHandler{}

	variadic := func(mnemonic string, ctor func(operands []*mlirhw.Value, result *mlirhw.Value) mlirhw.Op) primHandler {
		return func(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
			operands, err := operandsOf(ctx, inst.Inputs())
			if err != nil {
				return err
			}
			result, err := oneResult(ctx, tc, inst)
			if err != nil {
				return err
			}
			ctx.Blocks.Append(ctor(operands, result))
			return nil
		}
	}

	t[primKey{"coreir", "and"}] = variadic("and", mlirhw.NewCombAndOp)
	t[primKey{"coreir", "or"}] = variadic("or", mlirhw.NewCombOrOp)
	t[primKey{"coreir", "xor"}] = variadic("xor", mlirhw.NewCombXorOp)
	t[primKey{"coreir", "add"}] = variadic("add", mlirhw.NewCombAddOp)
	t[primKey{"coreir", "sub"}] = variadic("sub", mlirhw.NewCombSubOp)
	t[primKey{"coreir", "mul"}] = variadic("mul", mlirhw.NewCombMulOp)
	t[primKey{"coreir", "udiv"}] = variadic("divu", mlirhw.NewCombDivUOp)
	t[primKey{"coreir", "sdiv"}] = variadic("divs", mlirhw.NewCombDivSOp)
	t[primKey{"coreir", "umod"}] = variadic("modu", mlirhw.NewCombModUOp)
	t[primKey{"coreir", "smod"}] = variadic("mods", mlirhw.NewCombModSOp)
	t[primKey{"coreir", "lshr"}] = variadic("shru", mlirhw.NewCombShrUOp)
	t[primKey{"coreir", "ashr"}] = variadic("shrs", mlirhw.NewCombShrSOp)
	t[primKey{"coreir", "shl"}] = variadic("shl", mlirhw.NewCombShlOp)

	icmp := func(pred string) primHandler {
		return func(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
			ins := inst.Inputs()
			if len(ins) != 2 {
				return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "icmp primitive expects 2 operands, got %d", len(ins))
			}
			lhs, err := operandValue(ctx, ins[0])
			if err != nil {
				return err
			}
			rhs, err := operandValue(ctx, ins[1])
			if err != nil {
				return err
			}
			result, err := oneResult(ctx, tc, inst)
			if err != nil {
				return err
			}
			ctx.Blocks.Append(&mlirhw.CombICmpOp{Pred: pred, Lhs: lhs, Rhs: rhs, Result: result})
			return nil
		}
	}

	t[primKey{"coreir", "eq"}] = icmp("eq")
	t[primKey{"coreir", "neq"}] = icmp("ne")
	t[primKey{"coreir", "slt"}] = icmp("slt")
	t[primKey{"coreir", "sle"}] = icmp("sle")
	t[primKey{"coreir", "sgt"}] = icmp("sgt")
	t[primKey{"coreir", "sge"}] = icmp("sge")
	t[primKey{"coreir", "ult"}] = icmp("ult")
	t[primKey{"coreir", "ule"}] = icmp("ule")
	t[primKey{"coreir", "ugt"}] = icmp("ugt")
	t[primKey{"coreir", "uge"}] = icmp("uge")

	t[primKey{"coreir", "not"}] = invert
	t[primKey{"corebit", "not"}] = invert

	t[primKey{"coreir", "andr"}] = andReduce
	t[primKey{"coreir", "orr"}] = orReduce
	t[primKey{"coreir", "xorr"}] = xorReduce

	t[primKey{"coreir", "wire"}] = wireScaffold
	t[primKey{"coreir", "wrap"}] = wireScaffold
	t[primKey{"coreir", "term"}] = noopPrimitive

	t[primKey{"coreir", "reg"}] = registerScaffold
	t[primKey{"coreir", "reg_arst"}] = registerScaffold
	t[primKey{"magma", "Register"}] = registerScaffold

	t[primKey{"commonlib", "muxn"}] = muxN
	t[primKey{"commonlib", "lutN"}] = lutN
	t[primKey{"magma", "Mux"}] = magmaMux

	return t
}

func lookupPrimitive(prim *netlist.Primitive) (primHandler, bool) {
	h, ok := primitiveTable[primKey{prim.Library, prim.Name}]
	return h, ok
}

func visitPrimitiveInstance(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	handler, ok := lookupPrimitive(prim)
	if !ok {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, prim, "no lowering for primitive %s.%s", prim.Library, prim.Name)
	}

	if prim.CompileGuard == nil {
		return handler(ctx, tc, cfg, inst, prim)
	}

	var guardErr error
	guarded := mlirhw.NewBlock()
	ctx.Blocks.In(guarded, func() {
		guardErr = handler(ctx, tc, cfg, inst, prim)
	})
	if guardErr != nil {
		return guardErr
	}

	ctx.Blocks.Append(&mlirhw.SVIfDefOp{
		Condition: prim.CompileGuard.Condition,
		Negated:   prim.CompileGuard.Kind == netlist.GuardUndefined,
		Then:      guarded,
	})

	return nil
}

// invert lowers coreir.not/corebit.not to comb.xor(x, -1) (spec §4.E).
func invert(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "not primitive expects 1 operand, got %d", len(ins))
	}

	operand, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	allOnes := constValue(ctx, operand.Type, "-1")
	ctx.Blocks.Append(mlirhw.NewCombXorOp([]*mlirhw.Value{operand, allOnes}, result))

	return nil
}

// orReduce lowers coreir.orr to comb.icmp ne x, 0.
func orReduce(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	return reduceCompare(ctx, tc, inst, "ne", "0")
}

// andReduce lowers coreir.andr to comb.icmp eq x, -1.
func andReduce(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	return reduceCompare(ctx, tc, inst, "eq", "-1")
}

func reduceCompare(ctx *mlirctx.Context, tc *TypeCache, inst *netlist.Instance, pred, literal string) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "reduction primitive expects 1 operand, got %d", len(ins))
	}

	operand, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	rhs := constValue(ctx, operand.Type, literal)
	ctx.Blocks.Append(&mlirhw.CombICmpOp{Pred: pred, Lhs: operand, Rhs: rhs, Result: result})

	return nil
}

// xorReduce lowers coreir.xorr to comb.parity.
func xorReduce(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "xorr primitive expects 1 operand, got %d", len(ins))
	}

	operand, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.CombParityOp{Input: operand, Result: result})

	return nil
}

// wireScaffold lowers coreir.wire/coreir.wrap: sv.wire + sv.assign +
// sv.read_inout, giving the wrapped value a storage cell (spec §4.E).
func wireScaffold(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "wire primitive expects 1 operand, got %d", len(ins))
	}

	src, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	wire := ctx.FreshValue(mlirhw.InOutType{Inner: src.Type})
	ctx.Blocks.Append(&mlirhw.SVWireOp{Result: wire})
	ctx.Blocks.Append(&mlirhw.SVAssignOp{Dest: wire, Src: src})
	ctx.Blocks.Append(&mlirhw.SVReadInOutOp{Input: wire, Result: result})

	return nil
}

// noopPrimitive lowers coreir.term: a termination sink with nothing to
// produce and nothing to emit.
func noopPrimitive(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	return nil
}

// constValue mints a fresh value of type t and an hw.constant op producing
// it from literal.
func constValue(ctx *mlirctx.Context, t mlirhw.Type, literal string) *mlirhw.Value {
	v := ctx.FreshValue(t)
	ctx.Blocks.Append(&mlirhw.HWConstantOp{Result: v, Literal: literal})
	return v
}

// muxN lowers commonlib.muxn: extract the "sel" and "data" fields from the
// instance's single struct-typed input port, then hw.array_get data[sel]
// (spec §4.E).
func muxN(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "muxn primitive expects a single struct-typed input, got %d leaves", len(ins))
	}

	pt, ok := ins[0].Type().(netlist.ProductType)
	if !ok {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "muxn primitive expects a product-typed input, got %s", ins[0].Type())
	}

	structVal, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	selType, ok := pt.FieldType("sel")
	if !ok {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "muxn primitive input is missing field %q", "sel")
	}
	dataType, ok := pt.FieldType("data")
	if !ok {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "muxn primitive input is missing field %q", "data")
	}

	selMlirT, err := tc.Lower(selType)
	if err != nil {
		return err
	}
	dataMlirT, err := tc.Lower(dataType)
	if err != nil {
		return err
	}

	selVal := ctx.FreshValue(selMlirT)
	ctx.Blocks.Append(&mlirhw.HWStructExtractOp{Input: structVal, Field: "sel", Result: selVal})

	dataVal := ctx.FreshValue(dataMlirT)
	ctx.Blocks.Append(&mlirhw.HWStructExtractOp{Input: structVal, Field: "data", Result: dataVal})

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: dataVal, Index: selVal, Result: result})

	return nil
}

// lutN lowers commonlib.lutN: materialize the lookup table's init bit
// pattern as an hw.array_create of i1 constants, then index it by the
// instance's single index operand (spec §4.E).
func lutN(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "lutN primitive expects a single index operand, got %d", len(ins))
	}

	idxVal, err := operandValue(ctx, ins[0])
	if err != nil {
		return err
	}

	bits, err := boolsFromConfigArg(cfg, prim, "init")
	if err != nil {
		return err
	}

	elems := make([]*mlirhw.Value, len(bits))
	for i, b := range bits {
		literal := "0"
		if b {
			literal = "1"
		}
		elems[i] = constValue(ctx, mlirhw.IntegerType{Width: 1}, literal)
	}

	arr := ctx.FreshValue(mlirhw.ArrayType{Count: uint(len(elems)), Elem: mlirhw.IntegerType{Width: 1}})
	ctx.Blocks.Append(&mlirhw.HWArrayCreateOp{Operands: reverseValues(elems), Result: arr})

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: arr, Index: idxVal, Result: result})

	return nil
}

// magmaMux lowers a K-way magma.Mux: its ports are the K data inputs
// I0..I{K-1} followed by the select input S. hw.array_create packs the
// data inputs, hw.array_get indexes by the select (spec §4.E).
func magmaMux(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	ins := inst.Inputs()
	if len(ins) < 2 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "magma.Mux primitive expects at least 2 inputs (data + select), got %d", len(ins))
	}

	dataLeaves := ins[:len(ins)-1]
	selLeaf := ins[len(ins)-1]

	dataVals, err := operandsOf(ctx, dataLeaves)
	if err != nil {
		return err
	}

	selVal, err := operandValue(ctx, selLeaf)
	if err != nil {
		return err
	}

	arr := ctx.FreshValue(mlirhw.ArrayType{Count: uint(len(dataVals)), Elem: dataVals[0].Type})
	ctx.Blocks.Append(&mlirhw.HWArrayCreateOp{Operands: reverseValues(dataVals), Result: arr})

	result, err := oneResult(ctx, tc, inst)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: arr, Index: selVal, Result: result})

	return nil
}

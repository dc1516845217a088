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
	"github.com/weave-silicon/circt-emit/pkg/graph"
	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// visitInstance dispatches a graph instance node to inline-verilog
// emission, the primitive lowering table, or a user-definition hw.instance
// (spec §4.E).
func visitInstance(ctx *mlirctx.Context, tc *TypeCache, cfg Config, n *graph.Node) error {
	inst := n.Instance
	defn := inst.Defn

	if len(defn.InlineVerilog) > 0 {
		return visitVerbatimInstance(ctx, tc, inst)
	}

	if defn.Primitive != nil {
		return visitPrimitiveInstance(ctx, tc, cfg, inst, defn.Primitive)
	}

	return visitUserInstance(ctx, tc, inst)
}

// visitUserInstance emits hw.instance referencing the already-assigned
// symbol for inst's definition — whether that definition compiled to a
// full hw.module body or, for a verilog-only declaration, an
// hw.module.extern signature (component F treats both the same way from
// a caller's perspective). A compile guard, if present, wraps the
// instance in sv.ifdef/sv.ifndef (spec §4.E, §4.G).
func visitUserInstance(ctx *mlirctx.Context, tc *TypeCache, inst *netlist.Instance) error {
	operands, err := operandsOf(ctx, inst.Inputs())
	if err != nil {
		return err
	}

	results, err := resultsOf(ctx, tc, inst.Outputs())
	if err != nil {
		return err
	}

	symbol, ok := ctx.Registry.SymbolForDefinition(inst.Defn)
	if !ok {
		// The translation unit (component I) assigns every reachable
		// definition its symbol before any module body is compiled, so a
		// missing symbol here is an internal consistency bug, not a
		// malformed-input condition package compileerr's taxonomy covers.
		panic("lower: no symbol registered for definition " + inst.Defn.Name)
	}

	op := &mlirhw.HWInstanceOp{
		InstName: inst.Name,
		Module:   symbol,
		Operands: operands,
		Results:  results,
	}

	if innerSym, isBind := ctx.Registry.BindInfo(inst); isBind {
		op.DoNotPrint = true
		op.InnerSym = innerSym
	}

	if inst.CompileGuard == nil {
		ctx.Blocks.Append(op)
		return nil
	}

	guarded := mlirhw.NewBlock()
	guarded.Append(op)
	ctx.Blocks.Append(&mlirhw.SVIfDefOp{
		Condition: inst.CompileGuard.Condition,
		Negated:   inst.CompileGuard.Kind == netlist.GuardUndefined,
		Then:      guarded,
	})

	return nil
}

func operandsOf(ctx *mlirctx.Context, leaves []*netlist.Value) ([]*mlirhw.Value, error) {
	out := make([]*mlirhw.Value, len(leaves))
	for i, leaf := range leaves {
		v, err := operandValue(ctx, leaf)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func resultsOf(ctx *mlirctx.Context, tc *TypeCache, leaves []*netlist.Value) ([]*mlirhw.Value, error) {
	out := make([]*mlirhw.Value, len(leaves))
	for i, leaf := range leaves {
		v, err := resultValue(ctx, tc, leaf)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func oneResult(ctx *mlirctx.Context, tc *TypeCache, inst *netlist.Instance) (*mlirhw.Value, error) {
	outs := inst.Outputs()
	if len(outs) != 1 {
		return nil, compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "expected exactly one output port, got %d", len(outs))
	}
	return resultValue(ctx, tc, outs[0])
}

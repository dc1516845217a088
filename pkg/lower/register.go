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
	"github.com/weave-silicon/circt-emit/pkg/util"
)

// registerScaffold lowers coreir.reg / coreir.reg_arst / magma.Register to
// the register scaffolding described in spec §4.E: an sv.reg storage cell,
// an sv.alwaysff driving it (wrapped in sv.if when the register carries an
// enable), an unconditional sv.initial setting its power-on value, and an
// sv.read_inout exposing the stored value as the instance's output.
//
// Ports are located by name rather than position: "clk" is the clock,
// "in" (falling back to "data") is the next-value input, "en" is the
// optional enable, and the reset input (if any) is whichever input leaf
// carries a Digital type tagged with a ResetKind other than NoReset — the
// type itself records sync/async and polarity (spec §3, netlist.ResetKind).
func registerScaffold(ctx *mlirctx.Context, tc *TypeCache, cfg Config, inst *netlist.Instance, prim *netlist.Primitive) error {
	clkLeaf := inst.Port("clk")
	if clkLeaf == nil {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "register primitive is missing a %q port", "clk")
	}

	dataLeaf := inst.Port("in")
	if dataLeaf == nil {
		dataLeaf = inst.Port("data")
	}
	if dataLeaf == nil {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "register primitive is missing a data-input port")
	}

	enOpt := util.None[*netlist.Value]()
	if en := inst.Port("en"); en != nil {
		enOpt = util.Some(en)
	}
	resetOpt := findResetLeaf(inst)

	outs := inst.Outputs()
	if len(outs) != 1 {
		return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "register primitive expects exactly one output, got %d", len(outs))
	}
	outLeaf := outs[0]

	regType, err := tc.Lower(outLeaf.Type())
	if err != nil {
		return err
	}

	dataVal, err := operandValue(ctx, dataLeaf)
	if err != nil {
		return err
	}

	clkVal, err := operandValue(ctx, clkLeaf)
	if err != nil {
		return err
	}

	regCell := ctx.FreshValue(mlirhw.InOutType{Inner: regType})
	ctx.Blocks.Append(&mlirhw.SVRegOp{Result: regCell})

	body := mlirhw.NewBlock()
	assign := &mlirhw.SVPAssignOp{Dest: regCell, Src: dataVal}
	if enOpt.HasValue() {
		enVal, err := operandValue(ctx, enOpt.Unwrap())
		if err != nil {
			return err
		}
		thenBlock := mlirhw.NewBlock()
		thenBlock.Append(assign)
		body.Append(&mlirhw.SVIfOp{Cond: enVal, Then: thenBlock})
	} else {
		body.Append(assign)
	}

	alwaysOp := &mlirhw.SVAlwaysFFOp{ClockEdge: "posedge", Clock: clkVal, Body: body}

	if resetOpt.HasValue() {
		resetLeaf := resetOpt.Unwrap()
		rt, ok := resetLeaf.Type().(netlist.DigitalType)
		if !ok {
			return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "reset port has non-Digital type %s", resetLeaf.Type())
		}

		kind, edge := resetEdgeFor(rt.Reset)
		resetVal, err := operandValue(ctx, resetLeaf)
		if err != nil {
			return err
		}

		resetConst := constValue(ctx, regType, decimalFromConfigArg(cfg, prim))
		resetBody := mlirhw.NewBlock()
		resetBody.Append(&mlirhw.SVPAssignOp{Dest: regCell, Src: resetConst})

		alwaysOp.ResetKind = kind
		alwaysOp.ResetEdge = edge
		alwaysOp.Reset = resetVal
		alwaysOp.ResetBody = resetBody
	}

	ctx.Blocks.Append(alwaysOp)

	// An sv.initial block is emitted unconditionally, reset or not
	// (SPEC_FULL.md §G point 3): it is what gives the register its
	// power-on value in simulation.
	initConst := constValue(ctx, regType, decimalFromConfigArg(cfg, prim))
	initBody := mlirhw.NewBlock()
	initBody.Append(&mlirhw.SVBPAssignOp{Dest: regCell, Src: initConst})
	ctx.Blocks.Append(&mlirhw.SVInitialOp{Body: initBody})

	result, err := resultValue(ctx, tc, outLeaf)
	if err != nil {
		return err
	}
	ctx.Blocks.Append(&mlirhw.SVReadInOutOp{Input: regCell, Result: result})

	return nil
}

func findResetLeaf(inst *netlist.Instance) util.Option[*netlist.Value] {
	for _, leaf := range inst.Inputs() {
		if dt, ok := leaf.Type().(netlist.DigitalType); ok && dt.Reset != netlist.NoReset {
			return util.Some(leaf)
		}
	}
	return util.None[*netlist.Value]()
}

// resetEdgeFor decodes a reset-carrying Digital type's ResetKind into the
// (kind, edge) pair sv.alwaysff's optional reset clause takes (spec §4.E's
// reset-edge decoding table).
func resetEdgeFor(k netlist.ResetKind) (kind, edge string) {
	switch k {
	case netlist.SyncReset:
		return "syncreset", "posedge"
	case netlist.SyncResetN:
		return "syncreset", "negedge"
	case netlist.AsyncReset:
		return "asyncreset", "posedge"
	case netlist.AsyncResetN:
		return "asyncreset", "negedge"
	default:
		return "", ""
	}
}

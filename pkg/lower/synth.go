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
	"strconv"

	"github.com/weave-silicon/circt-emit/pkg/graph"
	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

func visitArrayGet(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	arrayVal, err := operandValue(ctx, n.Input)
	if err != nil {
		return err
	}

	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	if it, ok := arrayVal.Type.(mlirhw.IntegerType); ok {
		_ = it
		ctx.Blocks.Append(&mlirhw.CombExtractOp{Input: arrayVal, LowBit: n.Index, Result: result})
		return nil
	}

	at, ok := n.Input.Type().(netlist.ArrayType)
	if !ok {
		ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: arrayVal, Index: indexConstant(ctx, n.Index, 1), Result: result})
		return nil
	}

	if at.Count == 1 {
		// size-1 array-get workaround (spec §4.E): widen to 2 elements by
		// concatenating the array with itself — the filler half is never
		// read back, so any same-typed value works as the "arbitrary
		// constant" the spec calls for, without needing to synthesize a
		// zero literal for an arbitrary (possibly aggregate) element type.
		widened := ctx.FreshValue(mlirhw.ArrayType{Count: 2, Elem: elemType(arrayVal.Type)})
		ctx.Blocks.Append(&mlirhw.HWArrayConcatOp{Operands: []*mlirhw.Value{arrayVal, arrayVal}, Result: widened})
		ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: widened, Index: indexConstant(ctx, 0, 1), Result: result})
		return nil
	}

	idxWidth := bitsForIndex(at.Count)
	ctx.Blocks.Append(&mlirhw.HWArrayGetOp{Array: arrayVal, Index: indexConstant(ctx, n.Index, idxWidth), Result: result})

	return nil
}

func elemType(t mlirhw.Type) mlirhw.Type {
	if at, ok := t.(mlirhw.ArrayType); ok {
		return at.Elem
	}
	return t
}

// bitsForIndex returns the number of bits needed to index an n-element
// array (minimum 1, matching the size-1 workaround's i1 index).
func bitsForIndex(n uint) uint {
	w := uint(1)
	for (uint(1) << w) < n {
		w++
	}
	return w
}

func indexConstant(ctx *mlirctx.Context, index uint, width uint) *mlirhw.Value {
	v := ctx.FreshValue(mlirhw.IntegerType{Width: width})
	ctx.Blocks.Append(&mlirhw.HWConstantOp{Result: v, Literal: strconv.FormatUint(uint64(index), 10)})
	return v
}

func visitArrayCreate(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	operands := make([]*mlirhw.Value, len(n.Elements))
	for i, elem := range n.Elements {
		v, err := operandValue(ctx, elem)
		if err != nil {
			return err
		}
		operands[i] = v
	}

	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	at, _ := n.Value.Type().(netlist.ArrayType)
	if at.Elem != nil && netlist.IsBit(at.Elem) {
		ctx.Blocks.Append(&mlirhw.CombConcatOp{Operands: reverseValues(operands), Result: result})
		return nil
	}

	ctx.Blocks.Append(&mlirhw.HWArrayCreateOp{Operands: reverseValues(operands), Result: result})

	return nil
}

func visitProductGet(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	input, err := operandValue(ctx, n.Input)
	if err != nil {
		return err
	}

	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.HWStructExtractOp{Input: input, Field: n.Field, Result: result})

	return nil
}

func visitProductCreate(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	operands := make([]*mlirhw.Value, len(n.Elements))
	for i, elem := range n.Elements {
		v, err := operandValue(ctx, elem)
		if err != nil {
			return err
		}
		operands[i] = v
	}

	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	ctx.Blocks.Append(&mlirhw.HWStructCreateOp{Operands: operands, Result: result})

	return nil
}

func visitBitConstant(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	literal := "0"
	if n.Value.ConstDigitalValue() {
		literal = "1"
	}

	ctx.Blocks.Append(&mlirhw.HWConstantOp{Result: result, Literal: literal})

	return nil
}

func visitBitsConstant(ctx *mlirctx.Context, tc *TypeCache, n *graph.Node) error {
	result, err := resultValue(ctx, tc, n.Value)
	if err != nil {
		return err
	}

	literal := bitsetToDecimal(n.Value)

	ctx.Blocks.Append(&mlirhw.HWConstantOp{Result: result, Literal: literal})

	return nil
}

func bitsetToDecimal(v *netlist.Value) string {
	bs := v.ConstBitsValue()
	if bs == nil {
		return "0"
	}

	acc := make([]byte, 0, bs.Len())
	// Render as decimal via repeated doubling, most-significant bit first.
	digits := []int{0}
	addBit := func(bit int) {
		carry := bit
		for i := 0; i < len(digits); i++ {
			digits[i] = digits[i]*2 + carry
			carry = digits[i] / 10
			digits[i] %= 10
		}
		for carry > 0 {
			digits = append(digits, carry%10)
			carry /= 10
		}
	}

	for i := int(bs.Len()) - 1; i >= 0; i-- {
		bit := 0
		if bs.Test(uint(i)) {
			bit = 1
		}
		addBit(bit)
	}

	for i := len(digits) - 1; i >= 0; i-- {
		acc = append(acc, byte('0'+digits[i]))
	}

	if len(acc) == 0 {
		return "0"
	}

	return string(acc)
}

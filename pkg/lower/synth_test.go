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
	"testing"

	"github.com/bits-and-blooms/bitset"

	"github.com/weave-silicon/circt-emit/pkg/graph"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestVisitArrayGet_realArray(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	arr := scratch.AddPort("arr", netlist.ArrayType{Count: 3, Elem: netlist.BitsType{Width: 4}}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, arr)

	result := c.NewArrayIndexValue(arr, 1, netlist.Out)
	n := &graph.Node{Kind: graph.NodeArrayGet, Value: result, Index: 1, Input: arr}

	assert.NoError(t, visitArrayGet(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 2, len(ops))
	assert.Equal(t, "%v2 = hw.constant 1 : i2\n", printOne(ops[0]))
	assert.Equal(t, "%v1 = hw.array_get %v0[%v2] : !hw.array<3 x i4>, i2\n", printOne(ops[1]))
}

func TestVisitArrayGet_sizeOneWorkaround(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	arr := scratch.AddPort("arr", netlist.ArrayType{Count: 1, Elem: netlist.BitsType{Width: 4}}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, arr)

	result := c.NewArrayIndexValue(arr, 0, netlist.Out)
	n := &graph.Node{Kind: graph.NodeArrayGet, Value: result, Index: 0, Input: arr}

	assert.NoError(t, visitArrayGet(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 3, len(ops))
	assert.Equal(t, "%v2 = hw.array_concat %v0, %v0 : !hw.array<1 x i4>, !hw.array<1 x i4>\n", printOne(ops[0]))
	assert.Equal(t, "%v3 = hw.constant 0 : i1\n", printOne(ops[1]))
	assert.Equal(t, "%v1 = hw.array_get %v2[%v3] : !hw.array<2 x i4>, i1\n", printOne(ops[2]))
}

func TestVisitArrayGet_bitCollapsedArray(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	arr := scratch.AddPort("arr", netlist.ArrayType{Count: 4, Elem: netlist.DigitalType{}}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, arr)

	result := c.NewArrayIndexValue(arr, 2, netlist.Out)
	n := &graph.Node{Kind: graph.NodeArrayGet, Value: result, Index: 2, Input: arr}

	assert.NoError(t, visitArrayGet(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v1 = comb.extract %v0 from 2 : (i4) -> i1\n", printOne(ops[0]))
}

func TestVisitArrayCreate_bitElements(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	e0 := scratch.AddPort("e0", netlist.DigitalType{}, netlist.In)
	e1 := scratch.AddPort("e1", netlist.DigitalType{}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, e0)
	seed(t, ctx, tc, e1)

	anon := c.NewAnonArrayValue(netlist.ArrayType{Count: 2, Elem: netlist.DigitalType{}}, []*netlist.Value{e0, e1})
	n := &graph.Node{Kind: graph.NodeArrayCreate, Value: anon, Elements: []*netlist.Value{e0, e1}}

	assert.NoError(t, visitArrayCreate(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v2 = comb.concat %v1, %v0 : i1, i1\n", printOne(ops[0]))
}

func TestVisitArrayCreate_aggregateElements(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	e0 := scratch.AddPort("e0", netlist.BitsType{Width: 4}, netlist.In)
	e1 := scratch.AddPort("e1", netlist.BitsType{Width: 4}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, e0)
	seed(t, ctx, tc, e1)

	anon := c.NewAnonArrayValue(netlist.ArrayType{Count: 2, Elem: netlist.BitsType{Width: 4}}, []*netlist.Value{e0, e1})
	n := &graph.Node{Kind: graph.NodeArrayCreate, Value: anon, Elements: []*netlist.Value{e0, e1}}

	assert.NoError(t, visitArrayCreate(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v2 = hw.array_create %v1, %v0 : i4\n", printOne(ops[0]))
}

func TestVisitProductGet(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	pt := netlist.ProductType{Fields: []netlist.Field{
		{Name: "a", Type: netlist.DigitalType{}},
		{Name: "b", Type: netlist.BitsType{Width: 4}},
	}}
	parent := scratch.AddPort("p", pt, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, parent)

	result := c.NewProductFieldValue(parent, "b", netlist.Out)
	n := &graph.Node{Kind: graph.NodeProductGet, Value: result, Field: "b", Input: parent}

	assert.NoError(t, visitProductGet(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v1 = hw.struct_extract %v0[\"b\"] : !hw.struct<a: i1, b: i4>\n", printOne(ops[0]))
}

func TestVisitProductCreate(t *testing.T) {
	c := netlist.NewCircuit()
	scratch := c.NewDefinition("scratch")
	a := scratch.AddPort("a", netlist.DigitalType{}, netlist.In)
	b := scratch.AddPort("b", netlist.BitsType{Width: 4}, netlist.In)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, a)
	seed(t, ctx, tc, b)

	pt := netlist.ProductType{Fields: []netlist.Field{
		{Name: "a", Type: netlist.DigitalType{}},
		{Name: "b", Type: netlist.BitsType{Width: 4}},
	}}
	anon := c.NewAnonProductValue(pt, []*netlist.Value{a, b})
	n := &graph.Node{Kind: graph.NodeProductCreate, Value: anon, Elements: []*netlist.Value{a, b}}

	assert.NoError(t, visitProductCreate(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v2 = hw.struct_create (%v0, %v1) : !hw.struct<a: i1, b: i4>\n", printOne(ops[0]))
}

func TestVisitBitConstant(t *testing.T) {
	c := netlist.NewCircuit()
	ctx, body := newTestCtx()
	tc := NewTypeCache()

	v := c.NewConstDigitalValue(true)
	n := &graph.Node{Kind: graph.NodeBitConstant, Value: v}

	assert.NoError(t, visitBitConstant(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v0 = hw.constant 1 : i1\n", printOne(ops[0]))
}

func TestVisitBitsConstant(t *testing.T) {
	c := netlist.NewCircuit()
	ctx, body := newTestCtx()
	tc := NewTypeCache()

	bs := bitset.New(4)
	bs.Set(1)
	bs.Set(3)
	v := c.NewConstBitsValue(netlist.BitsType{Width: 4}, bs)
	n := &graph.Node{Kind: graph.NodeBitsConstant, Value: v}

	assert.NoError(t, visitBitsConstant(ctx, tc, n))

	ops := body.Ops
	assert.Equal(t, 1, len(ops))
	assert.Equal(t, "%v0 = hw.constant 10 : i4\n", printOne(ops[0]))
}

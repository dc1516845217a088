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

	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestRegisterScaffold_plain(t *testing.T) {
	c := netlist.NewCircuit()
	def := c.NewDefinition("reg")
	def.Primitive = &netlist.Primitive{Library: "coreir", Name: "reg"}
	clk := def.AddPort("clk", netlist.DigitalType{}, netlist.In)
	in := def.AddPort("in", netlist.DigitalType{}, netlist.In)
	def.AddPort("out", netlist.DigitalType{}, netlist.Out)

	top := c.NewDefinition("top")
	inst := top.AddInstance("r0", def)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, inst.Port(clk.Name()))
	seed(t, ctx, tc, inst.Port(in.Name()))

	assert.NoError(t, registerScaffold(ctx, tc, Config{}, inst, def.Primitive))

	ops := body.Ops
	assert.Equal(t, 5, len(ops))
	assert.Equal(t, "%v2 = sv.reg : !hw.inout<i1>\n", printOne(ops[0]))
	assert.Equal(t, "sv.alwaysff(posedge %v0) {\n  sv.passign %v2, %v1 : i1\n}\n", printOne(ops[1]))
	assert.Equal(t, "%v3 = hw.constant 0 : i1\n", printOne(ops[2]))
	assert.Equal(t, "sv.initial {\n  sv.bpassign %v2, %v3 : i1\n}\n", printOne(ops[3]))
	assert.Equal(t, "%v4 = sv.read_inout %v2 : !hw.inout<i1>\n", printOne(ops[4]))
}

func TestRegisterScaffold_enableAndAsyncReset(t *testing.T) {
	c := netlist.NewCircuit()
	def := c.NewDefinition("reg_arst")
	def.Primitive = &netlist.Primitive{
		Library:    "coreir",
		Name:       "reg_arst",
		ConfigArgs: map[string]any{"init": true},
	}
	clk := def.AddPort("clk", netlist.DigitalType{}, netlist.In)
	in := def.AddPort("in", netlist.DigitalType{}, netlist.In)
	en := def.AddPort("en", netlist.DigitalType{}, netlist.In)
	rst := def.AddPort("rst", netlist.DigitalType{Reset: netlist.AsyncReset}, netlist.In)
	def.AddPort("out", netlist.DigitalType{}, netlist.Out)

	top := c.NewDefinition("top")
	inst := top.AddInstance("r0", def)

	ctx, body := newTestCtx()
	tc := NewTypeCache()
	seed(t, ctx, tc, inst.Port(clk.Name()))
	seed(t, ctx, tc, inst.Port(in.Name()))
	seed(t, ctx, tc, inst.Port(en.Name()))
	seed(t, ctx, tc, inst.Port(rst.Name()))

	assert.NoError(t, registerScaffold(ctx, tc, Config{}, inst, def.Primitive))

	ops := body.Ops
	assert.Equal(t, 6, len(ops))
	assert.Equal(t, "%v4 = sv.reg : !hw.inout<i1>\n", printOne(ops[0]))
	assert.Equal(t, "%v5 = hw.constant 1 : i1\n", printOne(ops[1]))
	assert.Equal(t,
		"sv.alwaysff(posedge %v0) {\n"+
			"  sv.if %v2 {\n"+
			"    sv.passign %v4, %v1 : i1\n"+
			"  }\n"+
			"} (asyncreset : posedge %v3) {\n"+
			"  sv.passign %v4, %v5 : i1\n"+
			"}\n",
		printOne(ops[2]))
	assert.Equal(t, "%v6 = hw.constant 1 : i1\n", printOne(ops[3]))
	assert.Equal(t, "sv.initial {\n  sv.bpassign %v4, %v6 : i1\n}\n", printOne(ops[4]))
	assert.Equal(t, "%v7 = sv.read_inout %v4 : !hw.inout<i1>\n", printOne(ops[5]))
}

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
package graph_test

import (
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/graph"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestBuildGraph_instanceChain(t *testing.T) {
	c := netlist.NewCircuit()

	notDef := c.NewDefinition("inv")
	notDef.Primitive = &netlist.Primitive{Library: "corebit", Name: "not"}
	notDef.AddPort("in", netlist.DigitalType{}, netlist.In)
	notDef.AddPort("out", netlist.DigitalType{}, netlist.Out)

	top := c.NewDefinition("top")
	a := top.AddPort("a", netlist.DigitalType{}, netlist.In)
	y := top.AddPort("y", netlist.DigitalType{}, netlist.Out)

	inst := top.AddInstance("n0", notDef)
	assert.NoError(t, c.Drive(inst.Port("in"), netlist.DefnRef{Defn: top, PortName: a.Name()}))
	assert.NoError(t, c.Drive(y, netlist.InstRef{Inst: inst, PortName: "out"}))

	g, err := graph.BuildGraph(top)
	assert.NoError(t, err)

	var instNode *graph.Node
	for _, n := range g.Nodes {
		if n.Kind == graph.NodeInstance && n.Instance == inst {
			instNode = n
		}
	}
	if instNode == nil {
		t.Fatal("expected an instance node for n0")
	}

	in := g.InEdges(instNode)
	if len(in) != 1 {
		t.Fatalf("expected exactly one in-edge into n0, got %d", len(in))
	}
	assert.True(t, in[0].Src.Kind == graph.NodeDefinition, "n0's driver should trace back to the definition's Source node")
}

func TestBuildGraph_undrivenOutputIsSilentlySkipped(t *testing.T) {
	// Component D leaves an undriven output leaf with no in-edge at all;
	// component F (package translate) is what turns that into a compile
	// error once it tries to gather the module's hw.output operands.
	c := netlist.NewCircuit()
	top := c.NewDefinition("top")
	top.AddPort("y", netlist.DigitalType{}, netlist.Out)

	g, err := graph.BuildGraph(top)
	assert.NoError(t, err)
	assert.True(t, len(g.Edges) == 0, "expected no edges for an undriven output")
}

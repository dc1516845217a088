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

// Package graph is component D (spec §4.D): it turns a netlist.Definition
// into a dataflow graph of nodes (definition, instances, and synthetic
// operator nodes for aggregate indexing/construction and constants) and
// edges (driver relationships), ready for component F's DFS-over-
// predecessors traversal.
package graph

import "github.com/weave-silicon/circt-emit/pkg/netlist"

// NodeKind distinguishes the real, body-bearing nodes (the definition
// itself and its instances) from the synthetic operator nodes build_graph
// synthesizes while resolving driver references.
type NodeKind uint8

const (
	NodeDefinition NodeKind = iota
	NodeInstance
	NodeArrayGet
	NodeArrayCreate
	NodeProductGet
	NodeProductCreate
	NodeBitConstant
	NodeBitsConstant
)

func (k NodeKind) String() string {
	switch k {
	case NodeDefinition:
		return "Definition"
	case NodeInstance:
		return "Instance"
	case NodeArrayGet:
		return "ArrayGet"
	case NodeArrayCreate:
		return "ArrayCreate"
	case NodeProductGet:
		return "ProductGet"
	case NodeProductCreate:
		return "ProductCreate"
	case NodeBitConstant:
		return "BitConstant"
	case NodeBitsConstant:
		return "BitsConstant"
	default:
		return "?"
	}
}

// Node is one vertex of the dataflow graph. Exactly one of Instance /
// Definition / the synthetic fields is meaningful, selected by Kind.
type Node struct {
	Kind NodeKind

	// NodeDefinition: the graph's Root or Source node.
	Definition *netlist.Definition
	// NodeInstance.
	Instance *netlist.Instance

	// NodeArrayGet / NodeArrayCreate / NodeProductGet / NodeProductCreate /
	// NodeBitConstant / NodeBitsConstant: the synthetic value this node
	// produces (its Leaves()/Type()
	// describe the op's result shape) and, for Get nodes, the index/field
	// selected and the aggregate's input leaf (the node's own synthetic
	// operand, itself driven by whatever drives the aggregate).
	Value    *netlist.Value
	Index    uint
	Field    string
	Input    *netlist.Value // synthetic operand for Get nodes
	Elements []*netlist.Value

	// Const is not set by BuildGraph: constant nodes carry their constant
	// value in Value, like the other synthetic nodes.
	Const *netlist.Value
}

// Edge is one driver relationship: the value mapped to SrcValue (once Src
// has been visited) must be copied into DstValue's value-map entry before
// Dst is visited (spec §4.F: "for every incoming edge, copy the source's
// mapped value into the destination port's entry in the value map before
// visiting").
type Edge struct {
	Src      *Node
	Dst      *Node
	SrcValue *netlist.Value
	DstValue *netlist.Value
}

// Graph is the complete dataflow graph for one definition: its root node,
// every instance/synthetic node reached while resolving drivers, and the
// edges between them.
//
// The definition's own port boundary plays two unrelated roles — "the body
// must produce this output" and "this input is already-available source
// data" — so it is modeled as two distinct nodes, Root and Source, rather
// than one. Collapsing them into a single node would make every edge
// carrying an instance's output to a definition output, paired with any
// edge carrying a definition input into that same instance, look like a
// 2-cycle to component H's DFS even though no real combinational loop
// exists: Source never has incoming edges (a top-level input depends on
// nothing), so it can never participate in a back edge.
type Graph struct {
	Root   *Node
	Source *Node
	Nodes  []*Node
	Edges  []*Edge

	// outEdges indexes edges by source node for component F's DFS.
	outEdges map[*Node][]*Edge
	// inEdges indexes edges by destination node.
	inEdges map[*Node][]*Edge
}

// OutEdges returns the edges leaving n, in construction order.
func (g *Graph) OutEdges(n *Node) []*Edge {
	return g.outEdges[n]
}

// InEdges returns the edges arriving at n, in construction order.
func (g *Graph) InEdges(n *Node) []*Edge {
	return g.inEdges[n]
}

func (g *Graph) addEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
	g.outEdges[e.Src] = append(g.outEdges[e.Src], e)
	g.inEdges[e.Dst] = append(g.inEdges[e.Dst], e)
}

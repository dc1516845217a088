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
package translate

import "github.com/weave-silicon/circt-emit/pkg/graph"

// detectBackEdges is component H's analysis half: a three-color DFS over
// the dependency graph (an edge Src->Dst means "Dst needs Src's value")
// that flags every back edge — an edge into a node still on the current
// recursion stack — as the place a true combinational cycle closes (spec
// §4.H, §9 "self-referential structure"). The pipeline driver's visitor
// (component F, in pipeline.go) treats a flagged edge specially rather
// than recursing into it, breaking the cycle by interposing a wire.
func detectBackEdges(g *graph.Graph) map[*graph.Edge]bool {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[*graph.Node]int, len(g.Nodes))
	broken := make(map[*graph.Edge]bool)

	var visit func(n *graph.Node)
	visit = func(n *graph.Node) {
		color[n] = gray

		for _, e := range g.InEdges(n) {
			switch color[e.Src] {
			case white:
				visit(e.Src)
			case gray:
				broken[e] = true
			}
		}

		color[n] = black
	}

	for _, n := range g.Nodes {
		if color[n] == white {
			visit(n)
		}
	}

	return broken
}

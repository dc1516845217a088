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

// Visit dispatches node to the right per-kind emission (spec §4.E). By
// the time Visit is called, the pipeline driver (package translate,
// component F) has already copied every incoming edge's source value
// into the destination leaves' value-map entries, so every operand this
// function needs is already resolvable via operandValue.
func Visit(ctx *mlirctx.Context, tc *TypeCache, cfg Config, n *graph.Node) error {
	switch n.Kind {
	case graph.NodeDefinition:
		return nil

	case graph.NodeInstance:
		return visitInstance(ctx, tc, cfg, n)

	case graph.NodeArrayGet:
		return visitArrayGet(ctx, tc, n)

	case graph.NodeArrayCreate:
		return visitArrayCreate(ctx, tc, n)

	case graph.NodeProductGet:
		return visitProductGet(ctx, tc, n)

	case graph.NodeProductCreate:
		return visitProductCreate(ctx, tc, n)

	case graph.NodeBitConstant:
		return visitBitConstant(ctx, tc, n)

	case graph.NodeBitsConstant:
		return visitBitsConstant(ctx, tc, n)

	default:
		return compileerr.Newf(compileerr.UnsupportedDriver, n, "unhandled graph node kind %v", n.Kind)
	}
}

// operandValue looks up the already-mapped MLIR value for a source leaf.
func operandValue(ctx *mlirctx.Context, leaf *netlist.Value) (*mlirhw.Value, error) {
	v, ok := ctx.Values.Lookup(leaf.ID())
	if !ok {
		return nil, compileerr.Newf(compileerr.UnsupportedDriver, leaf, "leaf %s has no mapped operand value", leaf)
	}
	return v, nil
}

// resultValue mints a fresh target value for leaf's lowered type and
// records it as leaf's mapped value.
func resultValue(ctx *mlirctx.Context, tc *TypeCache, leaf *netlist.Value) (*mlirhw.Value, error) {
	mt, err := tc.Lower(leaf.Type())
	if err != nil {
		return nil, err
	}

	v := ctx.FreshValue(mt)
	if err := ctx.Values.Insert(leaf.ID(), v); err != nil {
		return nil, err
	}

	return v, nil
}

// reverseValues returns a new slice holding vs in reverse order, for the
// reversed-operand ops (spec §4.E: hw.array_create, comb.concat take
// operands MSB-first / last-leaf-first).
func reverseValues(vs []*mlirhw.Value) []*mlirhw.Value {
	out := make([]*mlirhw.Value, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}

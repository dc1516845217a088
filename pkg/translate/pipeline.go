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

import (
	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/graph"
	"github.com/weave-silicon/circt-emit/pkg/lower"
	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// compileDefinition is component F's entry point for one definition: it
// builds the dataflow graph (component D), folds in component H's cycle
// breaking, DFS-visits every node in dependency order emitting ops
// (component E via lower.Visit), and gathers the result into either an
// hw.module or, for a primitive/verilog declaration, an hw.module.extern.
func compileDefinition(tu *TranslationUnit, defn *netlist.Definition) (mlirhw.Op, error) {
	symbol, ok := tu.SymbolForDefinition(defn)
	if !ok {
		panic("translate: compiling definition with no assigned symbol: " + defn.Name)
	}

	if defn.IsDeclaration() {
		inputs, err := mintSignature(tu.types, defn.Inputs(), tu.config.FlattenAllTuples)
		if err != nil {
			return nil, err
		}
		outputs, err := mintSignature(tu.types, defn.Outputs(), tu.config.FlattenAllTuples)
		if err != nil {
			return nil, err
		}
		return &mlirhw.HWModuleExternOp{Symbol: symbol, Inputs: inputs, Outputs: outputs}, nil
	}

	g, err := graph.BuildGraph(defn)
	if err != nil {
		return nil, err
	}

	broken := detectBackEdges(g)

	body := mlirhw.NewBlock()
	ctx := mlirctx.NewContext("v", body, tu)

	inputs := make([]*mlirhw.Value, 0, len(defn.Inputs()))
	for _, leaf := range defn.Inputs() {
		if pt, ok := leaf.Type().(netlist.ProductType); ok && tu.config.FlattenAllTuples {
			flatValues := make([]*mlirhw.Value, 0, len(pt.Fields))
			for _, fl := range lower.FlattenLeaf(leaf.Name(), pt) {
				mt, err := tu.types.Lower(fl.Type)
				if err != nil {
					return nil, err
				}

				name, err := ctx.Names.Force(sanitizeName(fl.Name))
				if err != nil {
					return nil, err
				}

				v := mlirhw.NewValue(name, mt)
				inputs = append(inputs, v)
				flatValues = append(flatValues, v)
			}

			composite, rest, err := assembleFlattenedValue(ctx, pt, flatValues)
			if err != nil {
				return nil, err
			}
			if len(rest) != 0 {
				panic("translate: flattened input leaves left unconsumed")
			}
			if err := ctx.Values.Insert(leaf.ID(), composite); err != nil {
				return nil, err
			}

			continue
		}

		mt, err := tu.types.Lower(leaf.Type())
		if err != nil {
			return nil, err
		}

		name, err := ctx.Names.Force(sanitizeName(leaf.Name()))
		if err != nil {
			return nil, err
		}

		v := mlirhw.NewValue(name, mt)
		inputs = append(inputs, v)
		if err := ctx.Values.Insert(leaf.ID(), v); err != nil {
			return nil, err
		}
	}

	v := &visitor{
		ctx:     ctx,
		types:   tu.types,
		config:  tu.config,
		g:       g,
		broken:  broken,
		visited: make(map[*graph.Node]bool),
		wires:   make(map[*graph.Edge]*mlirhw.Value),
		pending: make(map[*graph.Node][]pendingAssign),
	}

	for _, n := range g.Nodes {
		if err := v.visit(n); err != nil {
			return nil, err
		}
	}

	outputs := make([]*mlirhw.Value, 0, len(defn.Outputs()))
	var outputOperands []*mlirhw.Value

	for _, leaf := range defn.Outputs() {
		mapped, ok := ctx.Values.Lookup(leaf.ID())
		if !ok {
			return nil, compileerr.Newf(compileerr.UnsupportedDriver, leaf, "output port %s was never driven", leaf)
		}

		if pt, ok := leaf.Type().(netlist.ProductType); ok && tu.config.FlattenAllTuples {
			flat := lower.FlattenLeaf(leaf.Name(), pt)
			leafValues, err := disassembleFlattenedValue(ctx, pt, mapped)
			if err != nil {
				return nil, err
			}
			if len(leafValues) != len(flat) {
				panic("translate: flattened output leaf count mismatch")
			}

			for i, fl := range flat {
				mt, err := tu.types.Lower(fl.Type)
				if err != nil {
					return nil, err
				}
				outputs = append(outputs, mlirhw.NewValue(sanitizeName(fl.Name), mt))
				outputOperands = append(outputOperands, leafValues[i])
			}

			continue
		}

		mt, err := tu.types.Lower(leaf.Type())
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, mlirhw.NewValue(sanitizeName(leaf.Name()), mt))
		outputOperands = append(outputOperands, mapped)
	}

	// Spec §8 "empty-interface modules": when there is nothing to
	// gather, no hw.output is constructed at all, rather than one with
	// zero operands.
	if len(outputOperands) > 0 {
		body.Append(&mlirhw.HWOutputOp{Operands: outputOperands})
	}

	return &mlirhw.HWModuleOp{Symbol: symbol, Inputs: inputs, Outputs: outputs, Body: body}, nil
}

func mintSignature(tc *lower.TypeCache, leaves []*netlist.Value, flatten bool) ([]*mlirhw.Value, error) {
	out := make([]*mlirhw.Value, 0, len(leaves))
	for _, leaf := range leaves {
		if flatten {
			for _, fl := range lower.FlattenLeaf(leaf.Name(), leaf.Type()) {
				mt, err := tc.Lower(fl.Type)
				if err != nil {
					return nil, err
				}
				out = append(out, mlirhw.NewValue(sanitizeName(fl.Name), mt))
			}
			continue
		}

		mt, err := tc.Lower(leaf.Type())
		if err != nil {
			return nil, err
		}
		out = append(out, mlirhw.NewValue(sanitizeName(leaf.Name()), mt))
	}
	return out, nil
}

// assembleFlattenedValue rebuilds the (possibly nested) product value for
// t out of its flat, already-materialized field leaves, in the same
// depth-first order lower.FlattenLeaf enumerates them, via recursive
// hw.struct_create. It returns the unconsumed tail of leaves so nested
// calls can share one flat slice.
func assembleFlattenedValue(ctx *mlirctx.Context, t netlist.Type, leaves []*mlirhw.Value) (*mlirhw.Value, []*mlirhw.Value, error) {
	pt, ok := t.(netlist.ProductType)
	if !ok {
		return leaves[0], leaves[1:], nil
	}

	operands := make([]*mlirhw.Value, len(pt.Fields))
	for i, f := range pt.Fields {
		var v *mlirhw.Value
		var err error
		v, leaves, err = assembleFlattenedValue(ctx, f.Type, leaves)
		if err != nil {
			return nil, nil, err
		}
		operands[i] = v
	}

	st := mlirhw.StructType{Fields: make([]mlirhw.StructField, len(pt.Fields))}
	for i, op := range operands {
		st.Fields[i] = mlirhw.StructField{Name: pt.Fields[i].Name, Type: op.Type}
	}

	result := ctx.FreshValue(st)
	ctx.Blocks.Append(&mlirhw.HWStructCreateOp{Operands: operands, Result: result})

	return result, leaves, nil
}

// disassembleFlattenedValue is assembleFlattenedValue's inverse: given the
// composite struct value for t, it emits a recursive chain of
// hw.struct_extract and returns the resulting scalar/array leaves in the
// same depth-first order lower.FlattenLeaf enumerates them.
func disassembleFlattenedValue(ctx *mlirctx.Context, t netlist.Type, val *mlirhw.Value) ([]*mlirhw.Value, error) {
	pt, ok := t.(netlist.ProductType)
	if !ok {
		return []*mlirhw.Value{val}, nil
	}

	st, ok := val.Type.(mlirhw.StructType)
	if !ok {
		panic("translate: flattened product leaf's lowered value is not a struct")
	}

	var out []*mlirhw.Value
	for i, f := range pt.Fields {
		extracted := ctx.FreshValue(st.Fields[i].Type)
		ctx.Blocks.Append(&mlirhw.HWStructExtractOp{Input: val, Field: f.Name, Result: extracted})

		sub, err := disassembleFlattenedValue(ctx, f.Type, extracted)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}

	return out, nil
}

// pendingAssign remembers that once the node owning srcValue has been
// visited, wire must be assigned srcValue's (by-then mapped) value —
// closing a cycle broken at the edge this wire was allocated for.
type pendingAssign struct {
	wire     *mlirhw.Value
	srcValue *netlist.Value
}

// visitor carries the per-module DFS state: which nodes have already been
// emitted, which edges component H flagged as cycle-closing, the wires
// allocated to break them, and the assigns deferred until their source
// node finishes.
type visitor struct {
	ctx    *mlirctx.Context
	types  *lower.TypeCache
	config lower.Config

	g       *graph.Graph
	broken  map[*graph.Edge]bool
	visited map[*graph.Node]bool
	wires   map[*graph.Edge]*mlirhw.Value
	pending map[*graph.Node][]pendingAssign
}

// visit emits n and everything it depends on, in dependency order,
// skipping already-visited nodes (ordinary shared fan-out, not a cycle)
// and substituting a wire read for any edge component H flagged as
// closing a cycle, so the DFS never recurses back into a node still on
// its own call stack.
func (v *visitor) visit(n *graph.Node) error {
	if v.visited[n] {
		return nil
	}
	v.visited[n] = true

	for _, e := range v.g.InEdges(n) {
		if v.broken[e] {
			if err := v.bridgeBrokenEdge(e); err != nil {
				return err
			}
			continue
		}

		if err := v.visit(e.Src); err != nil {
			return err
		}

		srcVal, ok := v.ctx.Values.Lookup(e.SrcValue.ID())
		if !ok {
			return compileerr.Newf(compileerr.ReVisit, e.Src, "source %s produced no value after visiting", e.SrcValue)
		}
		if err := v.ctx.Values.Insert(e.DstValue.ID(), srcVal); err != nil {
			return err
		}
	}

	if n.Kind != graph.NodeDefinition {
		if err := lower.Visit(v.ctx, v.types, v.config, n); err != nil {
			return err
		}
	}

	for _, pa := range v.pending[n] {
		srcVal, ok := v.ctx.Values.Lookup(pa.srcValue.ID())
		if !ok {
			return compileerr.Newf(compileerr.ReVisit, pa.srcValue, "cycle-breaking source %s produced no value", pa.srcValue)
		}
		v.ctx.Blocks.Append(&mlirhw.SVAssignOp{Dest: pa.wire, Src: srcVal})
	}

	return nil
}

// bridgeBrokenEdge interposes an sv.wire for a cycle-closing edge: the
// destination reads it immediately (its value becomes available before
// the edge's true source has been visited), and the actual assignment
// into the wire is deferred until that source finishes (spec §4.H).
func (v *visitor) bridgeBrokenEdge(e *graph.Edge) error {
	wire, ok := v.wires[e]
	if !ok {
		mt, err := v.types.Lower(e.SrcValue.Type())
		if err != nil {
			return err
		}
		wire = v.ctx.FreshValue(mlirhw.InOutType{Inner: mt})
		v.ctx.Blocks.Append(&mlirhw.SVWireOp{Result: wire})
		v.wires[e] = wire
	}

	read := v.ctx.FreshValue(wire.Type.(mlirhw.InOutType).Inner)
	v.ctx.Blocks.Append(&mlirhw.SVReadInOutOp{Input: wire, Result: read})

	if err := v.ctx.Values.Insert(e.DstValue.ID(), read); err != nil {
		return err
	}

	v.pending[e.Src] = append(v.pending[e.Src], pendingAssign{wire: wire, srcValue: e.SrcValue})

	return nil
}

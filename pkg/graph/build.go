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
package graph

import (
	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

type arrayGetKey struct {
	arrayID uint64
	index   uint
}

type productGetKey struct {
	tupleID uint64
	field   string
}

type builder struct {
	def *netlist.Definition
	g   *Graph

	instanceNodes     map[*netlist.Instance]*Node
	arrayGetCache     map[arrayGetKey]*Node
	productGetCache   map[productGetKey]*Node
	anonCache         map[uint64]*Node
	constDigitalCache map[bool]*Node
	constBitsCache    map[uint64]*Node
}

// BuildGraph is component D's entry point (spec §4.D). It walks def and
// every one of its direct instances, resolving each input leaf's driver
// into a dataflow edge, synthesizing operator nodes (ArrayGet/
// ArrayCreate/ProductGet/ProductCreate/BitConstant/BitsConstant) as
// needed, with getter nodes cached by (aggregate, index/field) so that
// two references to the same sub-element share one op.
//
// The definition's own ports are consumed with the sense inverted relative
// to an instance's: from inside the module body, a declared Out-direction
// port of the definition is a value the body must produce, so it is wired
// as an input leaf of g.Root (the "self-loop at graph root" case in spec
// §4.D/§9); a declared In-direction port is already-available source data
// consumed directly by the body, so drivers referencing it resolve to
// g.Source instead — the mirror image of an instance, whose In-direction
// leaves are what the body must drive. Root and Source are kept distinct
// so the two roles never look like a single self-cycling node to component
// H's DFS (see the Graph doc comment in node.go).
func BuildGraph(def *netlist.Definition) (*Graph, error) {
	b := &builder{
		def: def,
		g: &Graph{
			outEdges: make(map[*Node][]*Edge),
			inEdges:  make(map[*Node][]*Edge),
		},
		instanceNodes:     make(map[*netlist.Instance]*Node),
		arrayGetCache:     make(map[arrayGetKey]*Node),
		productGetCache:   make(map[productGetKey]*Node),
		anonCache:         make(map[uint64]*Node),
		constDigitalCache: make(map[bool]*Node),
		constBitsCache:    make(map[uint64]*Node),
	}

	root := &Node{Kind: NodeDefinition, Definition: def}
	b.g.Root = root
	b.g.Nodes = append(b.g.Nodes, root)

	source := &Node{Kind: NodeDefinition, Definition: def}
	b.g.Source = source
	b.g.Nodes = append(b.g.Nodes, source)

	for _, leaf := range def.Outputs() {
		if err := b.visitLeaf(root, leaf); err != nil {
			return nil, err
		}
	}

	for _, inst := range def.Instances {
		node := b.instanceNode(inst)
		for _, leaf := range inst.Inputs() {
			if err := b.visitLeaf(node, leaf); err != nil {
				return nil, err
			}
		}
	}

	return b.g, nil
}

func (b *builder) visitLeaf(dstNode *Node, leaf *netlist.Value) error {
	ref, ok := leaf.Driver()
	if !ok {
		return nil
	}

	srcNode, srcValue, err := b.resolveRef(ref)
	if err != nil {
		return err
	}

	b.g.addEdge(&Edge{Src: srcNode, Dst: dstNode, SrcValue: srcValue, DstValue: leaf})

	return nil
}

func (b *builder) instanceNode(inst *netlist.Instance) *Node {
	if n, ok := b.instanceNodes[inst]; ok {
		return n
	}

	n := &Node{Kind: NodeInstance, Instance: inst}
	b.instanceNodes[inst] = n
	b.g.Nodes = append(b.g.Nodes, n)

	return n
}

// resolveRef dispatches on driver-reference kind, per spec §4.D's
// visit_driver table, returning the node that produces the driving value
// and the specific netlist.Value identity whose mapped MLIR value should
// be propagated.
func (b *builder) resolveRef(ref netlist.Ref) (*Node, *netlist.Value, error) {
	switch r := ref.(type) {
	case netlist.ConstDigitalRef:
		n := b.constDigitalNode(r.Value)
		return n, n.Value, nil

	case netlist.ConstBitsRef:
		n := b.constBitsNode(r.Bits)
		return n, n.Value, nil

	case netlist.InstRef:
		n := b.instanceNode(r.Inst)
		return n, r.Value(), nil

	case netlist.DefnRef:
		return b.g.Source, r.Value(), nil

	case netlist.AnonRef:
		n, err := b.anonNode(r.Value)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Value, nil

	case netlist.ArrayRef:
		return b.resolveArrayRef(r)

	case netlist.TupleRef:
		return b.resolveTupleRef(r)

	default:
		return nil, nil, compileerr.Newf(compileerr.UnsupportedDriver, ref, "unhandled driver reference kind %T", ref)
	}
}

// resolveValueProducer answers "what node produces v" for a value that is
// itself being used as an operand (an anonymous-aggregate element, or the
// aggregate operand of a nested array/tuple reference) rather than as the
// top-level target of a Drive call.
func (b *builder) resolveValueProducer(v *netlist.Value) (*Node, *netlist.Value, error) {
	switch v.Origin() {
	case netlist.OriginInstancePort:
		return b.instanceNode(v.Instance()), v, nil

	case netlist.OriginDefnPort:
		return b.g.Source, v, nil

	case netlist.OriginConstantDigital:
		n := b.constDigitalNode(v.ConstDigitalValue())
		return n, n.Value, nil

	case netlist.OriginConstantBits:
		n := b.constBitsNode(v)
		return n, n.Value, nil

	case netlist.OriginAnonymousAggregate:
		n, err := b.anonNode(v)
		if err != nil {
			return nil, nil, err
		}
		return n, n.Value, nil

	case netlist.OriginArrayIndex, netlist.OriginProductField:
		ref, ok := v.Driver()
		if !ok {
			return nil, nil, compileerr.Newf(compileerr.UnsupportedDriver, v, "aggregate-descent value %s has no driver", v)
		}
		return b.resolveRef(ref)

	default:
		return nil, nil, compileerr.Newf(compileerr.UnsupportedDriver, v, "value %s has no known producer", v)
	}
}

func (b *builder) constDigitalNode(bit bool) *Node {
	if n, ok := b.constDigitalCache[bit]; ok {
		return n
	}

	v := b.def.Circuit().NewConstDigitalValue(bit)
	n := &Node{Kind: NodeBitConstant, Value: v}
	b.constDigitalCache[bit] = n
	b.g.Nodes = append(b.g.Nodes, n)

	return n
}

// constBitsNode caches by the carried constant Value's identity — every
// OriginConstantBits value already has a stable ID, minted once by
// whoever constructed the literal (the builder API or the JSON loader).
func (b *builder) constBitsNode(v *netlist.Value) *Node {
	if n, ok := b.constBitsCache[v.ID()]; ok {
		return n
	}

	n := &Node{Kind: NodeBitsConstant, Value: v}
	b.constBitsCache[v.ID()] = n
	b.g.Nodes = append(b.g.Nodes, n)

	return n
}

func (b *builder) anonNode(v *netlist.Value) (*Node, error) {
	if n, ok := b.anonCache[v.ID()]; ok {
		return n, nil
	}

	var kind NodeKind
	switch v.Type().(type) {
	case netlist.ArrayType:
		kind = NodeArrayCreate
	case netlist.ProductType:
		kind = NodeProductCreate
	default:
		return nil, compileerr.Newf(compileerr.UnsupportedDriver, v, "anonymous aggregate %s has non-aggregate type", v)
	}

	n := &Node{Kind: kind, Value: v, Elements: v.Elements()}
	b.anonCache[v.ID()] = n
	b.g.Nodes = append(b.g.Nodes, n)

	for _, elem := range v.Elements() {
		srcNode, srcValue, err := b.resolveValueProducer(elem)
		if err != nil {
			return nil, err
		}
		b.g.addEdge(&Edge{Src: srcNode, Dst: n, SrcValue: srcValue, DstValue: elem})
	}

	return n, nil
}

func (b *builder) resolveArrayRef(r netlist.ArrayRef) (*Node, *netlist.Value, error) {
	if r.Mixed {
		return b.resolveValueProducer(r.Array)
	}

	key := arrayGetKey{arrayID: r.Array.ID(), index: r.Index}
	if n, ok := b.arrayGetCache[key]; ok {
		return n, n.Value, nil
	}

	result := b.def.Circuit().NewArrayIndexValue(r.Array, r.Index, netlist.Out)
	n := &Node{Kind: NodeArrayGet, Value: result, Index: r.Index, Input: r.Array}
	b.arrayGetCache[key] = n
	b.g.Nodes = append(b.g.Nodes, n)

	srcNode, srcValue, err := b.resolveValueProducer(r.Array)
	if err != nil {
		return nil, nil, err
	}
	b.g.addEdge(&Edge{Src: srcNode, Dst: n, SrcValue: srcValue, DstValue: r.Array})

	return n, n.Value, nil
}

func (b *builder) resolveTupleRef(r netlist.TupleRef) (*Node, *netlist.Value, error) {
	if r.Mixed {
		return b.resolveValueProducer(r.Tuple)
	}

	key := productGetKey{tupleID: r.Tuple.ID(), field: r.Field}
	if n, ok := b.productGetCache[key]; ok {
		return n, n.Value, nil
	}

	result := b.def.Circuit().NewProductFieldValue(r.Tuple, r.Field, netlist.Out)
	n := &Node{Kind: NodeProductGet, Value: result, Field: r.Field, Input: r.Tuple}
	b.productGetCache[key] = n
	b.g.Nodes = append(b.g.Nodes, n)

	srcNode, srcValue, err := b.resolveValueProducer(r.Tuple)
	if err != nil {
		return nil, nil, err
	}
	b.g.addEdge(&Edge{Src: srcNode, Dst: n, SrcValue: srcValue, DstValue: r.Tuple})

	return n, n.Value, nil
}

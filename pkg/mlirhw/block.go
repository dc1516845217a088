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
package mlirhw

// Op is the closed interface every hw/comb/sv operation implements. Print
// renders the op (and, for region-bearing ops, its nested blocks) onto p.
type Op interface {
	Print(p *Printer)
}

// Block is an ordered sequence of ops, the child of a region-bearing op or
// the top level of a hw.module body.
type Block struct {
	Ops []Op
}

// NewBlock constructs an empty block.
func NewBlock() *Block {
	return &Block{}
}

// Append adds op as the new last op in the block, preserving construction
// order (spec §5: "ordering of emitted ops within a block is the order
// they are constructed").
func (b *Block) Append(op Op) {
	b.Ops = append(b.Ops, op)
}

// Print renders every op in the block in order. It does not itself open a
// brace or push indentation; callers that want a braced sub-block (the
// common case for region-bearing ops) push/pop around the call.
func (b *Block) Print(p *Printer) {
	for _, op := range b.Ops {
		op.Print(p)
	}
}

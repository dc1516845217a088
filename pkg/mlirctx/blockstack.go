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
package mlirctx

import (
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/util/collection/stack"
)

// BlockStack is the "current block" scoped-acquisition mechanism (spec
// §4.C "push-block discipline", §5 "shared mutable context"). Every op
// constructor appends to Current(); entering a nested region pushes its
// block and the push is always unwound, even if the body panics, by using
// In.
type BlockStack struct {
	blocks *stack.Stack[*mlirhw.Block]
}

// NewBlockStack constructs a stack with root as the initial (and, for a
// top-level definition, outermost) current block.
func NewBlockStack(root *mlirhw.Block) *BlockStack {
	s := &BlockStack{blocks: stack.New[*mlirhw.Block]()}
	s.blocks.Push(root)
	return s
}

// Current returns the block new ops should be appended to.
func (s *BlockStack) Current() *mlirhw.Block {
	return s.blocks.Top()
}

// In runs fn with b pushed as the current block, guaranteeing b is popped
// again before In returns — including when fn panics.
func (s *BlockStack) In(b *mlirhw.Block, fn func()) {
	s.blocks.Push(b)
	defer s.blocks.Pop()

	fn()
}

// Append is shorthand for appending op to the current block.
func (s *BlockStack) Append(op mlirhw.Op) {
	s.Current().Append(op)
}

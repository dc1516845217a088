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
package mlirctx_test

import (
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestValueMap_conflictingRebindErrors(t *testing.T) {
	m := mlirctx.NewValueMap()
	i1 := mlirhw.IntegerType{Width: 1}
	a := mlirhw.NewValue("a", i1)
	b := mlirhw.NewValue("b", i1)

	assert.NoError(t, m.Insert(1, a))
	assert.NoError(t, m.Insert(1, a), "re-inserting the identical value must be idempotent")

	if err := m.Insert(1, b); err == nil {
		t.Fatal("expected a ValueMapConflict rebinding id 1 to a different value")
	}
}

func TestBlockStack_inIsPopSafeUnderPanic(t *testing.T) {
	root := mlirhw.NewBlock()
	s := mlirctx.NewBlockStack(root)

	nested := mlirhw.NewBlock()

	func() {
		defer func() { recover() }()
		s.In(nested, func() {
			panic("boom")
		})
	}()

	if s.Current() != root {
		t.Fatal("expected the stack to have unwound back to root after a panic inside In")
	}
}

func TestBlockStack_appendGoesToCurrent(t *testing.T) {
	root := mlirhw.NewBlock()
	s := mlirctx.NewBlockStack(root)
	nested := mlirhw.NewBlock()

	op := &mlirhw.HWOutputOp{}
	s.In(nested, func() {
		s.Append(op)
	})

	p := mlirhw.NewPrinter()
	nested.Print(p)
	if p.String() == "" {
		t.Fatal("expected the op appended inside In to land in the nested block")
	}
}

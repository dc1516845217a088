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
package mlirhw_test

import (
	"strings"
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestPrinter_pushPopIndentation(t *testing.T) {
	p := mlirhw.NewPrinter()
	p.Line("outer {")
	p.Push()
	p.Line("inner")
	p.Pop()
	p.Line("}")

	want := "outer {\n  inner\n}\n"
	assert.Equal(t, want, p.String())
}

func TestHWModuleOp_printsSignatureAndBody(t *testing.T) {
	i1 := mlirhw.IntegerType{Width: 1}
	a := mlirhw.NewValue("a", i1)
	y := mlirhw.NewValue("y", i1)

	body := mlirhw.NewBlock()
	body.Append(&mlirhw.HWOutputOp{Operands: []*mlirhw.Value{a}})

	op := &mlirhw.HWModuleOp{Symbol: "top", Inputs: []*mlirhw.Value{a}, Outputs: []*mlirhw.Value{y}, Body: body}

	p := mlirhw.NewPrinter()
	op.Print(p)
	out := p.String()

	assert.True(t, len(out) > 0, "expected non-empty output")
	for _, sub := range []string{"hw.module", "@top", "hw.output"} {
		assert.True(t, strings.Contains(out, sub), "expected %q in module text: %s", sub, out)
	}
}

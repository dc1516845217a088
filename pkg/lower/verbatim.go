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
	"fmt"
	"sort"
	"strings"

	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/mlirctx"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// visitVerbatimInstance emits one sv.verbatim per inline-verilog template
// attached to inst's definition (spec §4.E). Each template's text carries
// named "{key}" placeholders, one per entry in its Refs list; they are
// rewritten to positional "{{i}}" placeholders matching the op's Operands
// order. Longer key names are substituted first so that one key being a
// prefix of another (e.g. "in" and "in2") can't corrupt a replacement
// already made.
func visitVerbatimInstance(ctx *mlirctx.Context, tc *TypeCache, inst *netlist.Instance) error {
	for _, tmpl := range inst.Defn.InlineVerilog {
		operands := make([]*mlirhw.Value, len(tmpl.Refs))
		order := make([]int, len(tmpl.Refs))

		for i, ref := range tmpl.Refs {
			order[i] = i

			instLeaf := inst.Port(ref.Name())
			if instLeaf == nil {
				return compileerr.Newf(compileerr.UnsupportedPrimitive, inst, "inline verilog template references unknown port %q", ref.Name())
			}

			var v *mlirhw.Value
			var err error
			if instLeaf.Direction() == netlist.Out {
				v, err = resultValue(ctx, tc, instLeaf)
			} else {
				v, err = operandValue(ctx, instLeaf)
			}
			if err != nil {
				return err
			}

			operands[i] = v
		}

		sort.Slice(order, func(a, b int) bool {
			return len(tmpl.Refs[order[a]].Name()) > len(tmpl.Refs[order[b]].Name())
		})

		text := tmpl.Template
		for _, idx := range order {
			key := tmpl.Refs[idx].Name()
			text = strings.ReplaceAll(text, "{"+key+"}", fmt.Sprintf("{{%d}}", idx))
		}

		ctx.Blocks.Append(&mlirhw.SVVerbatimOp{Text: text, Operands: operands})
	}

	return nil
}

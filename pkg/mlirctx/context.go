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
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// ModuleRegistry is the parent-translation-unit collaborator a
// hardware-module context consults for cross-module lookups (spec §4.B):
// the symbol a given source definition compiles to, and whether it has
// already been compiled (used by component G's bind preprocessing). It is
// an interface, implemented by package translate, so that package
// mlirctx — and the lower-level package lower built on top of it — never
// import translate and no import cycle results.
type ModuleRegistry interface {
	// SymbolForDefinition returns the MLIR symbol name a source
	// definition compiles to, and whether it has been assigned one yet.
	SymbolForDefinition(defn *netlist.Definition) (string, bool)

	// BindInfo reports whether inst is the target of a bind declaration
	// (spec §4.G) and, if so, the inner symbol its hw.instance should
	// carry (along with DoNotPrint) so the instance can be referenced by
	// a later sv.bind.
	BindInfo(inst *netlist.Instance) (string, bool)
}

// Context is the per-hardware-module compilation context (spec §4.B): a
// name generator, a value map, the block stack ops are appended through,
// and a handle back to the owning translation unit.
type Context struct {
	Names    *ScopedNameGenerator
	Values   *ValueMap
	Blocks   *BlockStack
	Registry ModuleRegistry
}

// NewContext constructs a fresh per-module context rooted at root.
func NewContext(namePrefix string, root *mlirhw.Block, registry ModuleRegistry) *Context {
	return &Context{
		Names:    NewScopedNameGenerator(namePrefix),
		Values:   NewValueMap(),
		Blocks:   NewBlockStack(root),
		Registry: registry,
	}
}

// FreshValue mints a new SSA value of type t, naming it via Names, and
// appends the name to the printer's eventual output only once its owning
// op is appended to a block — FreshValue itself does not emit anything.
func (c *Context) FreshValue(t mlirhw.Type) *mlirhw.Value {
	return mlirhw.NewValue(c.Names.Fresh(), t)
}

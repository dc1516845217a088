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
	"fmt"

	"github.com/weave-silicon/circt-emit/pkg/lower"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// bindInfo is what component G records about one bind-module target: the
// inner symbol its instance should carry, and the symbol of the module it
// is bound out of.
type bindInfo struct {
	innerSym     string
	parentSymbol string
}

// TranslationUnit is the whole-circuit compilation context: every
// definition reachable from the chosen top, each one's assigned MLIR
// symbol, and the flattened set of bind-module targets. It implements
// mlirctx.ModuleRegistry so package lower's per-instance emission can
// resolve cross-module symbols and bind membership without importing this
// package.
type TranslationUnit struct {
	circuit *netlist.Circuit
	top     *netlist.Definition
	config  lower.Config
	types   *lower.TypeCache

	// order holds every reachable definition, children before the
	// parents that instantiate them (component I's discovery +
	// dependency-order sort), so a module is always compiled after every
	// definition it references has already been assigned a symbol —
	// compiled, not merely assigned, is not actually required (symbols
	// are assigned to the whole set up front in assignSymbols), but the
	// child-first order also gives the rendered file a readable
	// leaves-first module ordering.
	order   []*netlist.Definition
	symbols map[*netlist.Definition]string
	binds   map[*netlist.Instance]*bindInfo
}

func newTranslationUnit(circuit *netlist.Circuit, top *netlist.Definition, cfg lower.Config) *TranslationUnit {
	return &TranslationUnit{
		circuit: circuit,
		top:     top,
		config:  cfg,
		types:   lower.NewTypeCache(),
	}
}

// discover performs component I's reachability walk from the top
// definition, following every instance's referenced definition, and
// records a child-first compile order. A definition is visited once no
// matter how many instances of it exist anywhere in the circuit.
func (tu *TranslationUnit) discover() {
	visited := make(map[*netlist.Definition]bool)

	var visit func(d *netlist.Definition)
	visit = func(d *netlist.Definition) {
		if visited[d] {
			return
		}
		visited[d] = true

		if !d.IsDeclaration() {
			for _, inst := range d.Instances {
				visit(inst.Defn)
			}
		}

		tu.order = append(tu.order, d)
	}

	visit(tu.top)
}

// assignSymbols gives every discovered definition a unique MLIR symbol,
// up front, before any module body is compiled — so that an instance of a
// definition compiled later in tu.order can still resolve its symbol
// while its own body is being built (spec §4.F/§4.I).
func (tu *TranslationUnit) assignSymbols() {
	tu.symbols = make(map[*netlist.Definition]string, len(tu.order))
	used := make(map[string]bool, len(tu.order))

	for _, d := range tu.order {
		base := sanitizeName(d.Name)
		candidate := base
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s_%d", base, n)
		}
		used[candidate] = true
		tu.symbols[d] = candidate
	}
}

// collectBinds flattens every discovered definition's Binds declarations
// (component G) into a single inst -> bindInfo map, once symbols are
// available to record each bind's parent module.
func (tu *TranslationUnit) collectBinds() {
	tu.binds = make(map[*netlist.Instance]*bindInfo)

	for _, d := range tu.order {
		for _, b := range d.Binds {
			tu.binds[b.Inst] = &bindInfo{
				innerSym:     sanitizeName(b.Name),
				parentSymbol: tu.symbols[d],
			}
		}
	}
}

// SymbolForDefinition implements mlirctx.ModuleRegistry.
func (tu *TranslationUnit) SymbolForDefinition(defn *netlist.Definition) (string, bool) {
	s, ok := tu.symbols[defn]
	return s, ok
}

// BindInfo implements mlirctx.ModuleRegistry.
func (tu *TranslationUnit) BindInfo(inst *netlist.Instance) (string, bool) {
	info, ok := tu.binds[inst]
	if !ok {
		return "", false
	}
	return info.innerSym, true
}

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

	log "github.com/sirupsen/logrus"

	"github.com/weave-silicon/circt-emit/pkg/lower"
	"github.com/weave-silicon/circt-emit/pkg/mlirhw"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// CompileToMlirOpts configures a single top-to-bottom compile (spec
// §6.2). Top, if non-empty, overrides circuit.Top by name — this is what
// the CLI's --top flag sets.
type CompileToMlirOpts struct {
	Top    string
	Strict bool

	// FlattenAllTuples, if true, expands product-typed leaves into their
	// constituent scalar/array leaves in every compiled module's
	// interface signature (spec §6.2).
	FlattenAllTuples bool
}

// CompileToMLIR is the whole pipeline's entry point: resolve the top
// definition, discover and compile everything it reaches (component I),
// process bind declarations (component G), and render the result as
// textual MLIR.
func CompileToMLIR(circuit *netlist.Circuit, opts CompileToMlirOpts) (string, error) {
	top, err := resolveTop(circuit, opts.Top)
	if err != nil {
		return "", err
	}

	log.Debugf("translate: compiling top %q (strict=%v)", top.Name, opts.Strict)

	tu := newTranslationUnit(circuit, top, lower.Config{Strict: opts.Strict, FlattenAllTuples: opts.FlattenAllTuples})
	tu.discover()
	tu.assignSymbols()
	tu.collectBinds()

	log.Debugf("translate: discovered %d reachable definitions", len(tu.order))

	p := mlirhw.NewPrinter()

	for _, defn := range tu.order {
		op, err := compileDefinition(tu, defn)
		if err != nil {
			return "", fmt.Errorf("translate: compiling %q: %w", defn.Name, err)
		}
		op.Print(p)
	}

	for _, defn := range tu.order {
		for _, b := range defn.Binds {
			info := tu.binds[b.Inst]
			(&mlirhw.SVBindOp{ParentModule: info.parentSymbol, InstanceSym: info.innerSym}).Print(p)
		}
	}

	return p.String(), nil
}

func resolveTop(circuit *netlist.Circuit, name string) (*netlist.Definition, error) {
	if name == "" {
		if circuit.Top == nil {
			return nil, fmt.Errorf("translate: circuit has no designated top definition and --top was not given")
		}
		return circuit.Top, nil
	}

	for _, d := range circuit.Definitions {
		if d.Name == name {
			return d, nil
		}
	}

	return nil, fmt.Errorf("translate: no definition named %q", name)
}

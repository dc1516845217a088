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
package cmd

import (
	"fmt"
	"strings"
	"testing"
)

func TestCompileCommandRegisteredWithExpectedFlags(t *testing.T) {
	var found bool
	for _, c := range rootCmd.Commands() {
		if c.Name() != "compile" {
			continue
		}
		found = true
		for _, name := range []string{"top", "output", "strict", "flatten-all-tuples"} {
			if c.Flags().Lookup(name) == nil {
				t.Fatalf("compile command missing --%s flag", name)
			}
		}
	}
	if !found {
		t.Fatal("expected compile subcommand to be registered on rootCmd")
	}
}

func TestRootHasVerbosePersistentFlag(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("verbose") == nil {
		t.Fatal("expected --verbose persistent flag on rootCmd")
	}
}

func TestUnwrapChain_reconstructsOriginalMessage(t *testing.T) {
	inner := fmt.Errorf("UnsupportedPrimitive: acme.widget is not supported (at g0)")
	outer := fmt.Errorf("translate: compiling %q: %w", "top", inner)

	causes := unwrapChain(outer)
	if len(causes) != 2 {
		t.Fatalf("expected two causes in the chain, got %d: %v", len(causes), causes)
	}
	if strings.Join(causes, ": ") != outer.Error() {
		t.Fatalf("expected the chain to reconstruct %q, got %q", outer.Error(), strings.Join(causes, ": "))
	}
	if causes[0] != `translate: compiling "top"` {
		t.Fatalf("expected the outer frame stripped of its wrapped suffix, got %q", causes[0])
	}
	if causes[1] != inner.Error() {
		t.Fatalf("expected the innermost cause verbatim, got %q", causes[1])
	}
}

func TestUnwrapChain_singleError(t *testing.T) {
	err := fmt.Errorf("a lone, unwrapped error")
	causes := unwrapChain(err)
	if len(causes) != 1 || causes[0] != err.Error() {
		t.Fatalf("expected a single cause equal to the error's own message, got %v", causes)
	}
}

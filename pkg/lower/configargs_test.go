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
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

func TestBoolsFromConfigArg_string(t *testing.T) {
	prim := &netlist.Primitive{Library: "commonlib", Name: "lutN", ConfigArgs: map[string]any{"init": "1010"}}

	bits, err := boolsFromConfigArg(Config{}, prim, "init")
	assert.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, bits)
}

func TestBoolsFromConfigArg_anySlice(t *testing.T) {
	prim := &netlist.Primitive{Library: "commonlib", Name: "lutN", ConfigArgs: map[string]any{
		"init": []any{float64(1), float64(0), true, false},
	}}

	bits, err := boolsFromConfigArg(Config{}, prim, "init")
	assert.NoError(t, err)
	assert.Equal(t, []bool{true, false, true, false}, bits)
}

func TestBoolsFromConfigArg_missingKeyStrict(t *testing.T) {
	prim := &netlist.Primitive{Library: "commonlib", Name: "lutN", ConfigArgs: map[string]any{}}

	_, err := boolsFromConfigArg(Config{Strict: true}, prim, "init")
	if err == nil {
		t.Fatal("expected an UnsupportedPrimitive error in strict mode")
	}
}

func TestBoolsFromConfigArg_missingKeyPermissive(t *testing.T) {
	prim := &netlist.Primitive{Library: "commonlib", Name: "lutN", ConfigArgs: map[string]any{}}

	bits, err := boolsFromConfigArg(Config{}, prim, "init")
	assert.NoError(t, err)
	if bits != nil {
		t.Fatalf("expected nil bits in permissive mode, got %v", bits)
	}
}

func TestDecimalFromConfigArg(t *testing.T) {
	cases := []struct {
		args map[string]any
		want string
	}{
		{nil, "0"},
		{map[string]any{"init": float64(7)}, "7"},
		{map[string]any{"init": true}, "1"},
		{map[string]any{"init": "42"}, "42"},
	}

	for _, c := range cases {
		prim := &netlist.Primitive{Library: "coreir", Name: "reg", ConfigArgs: c.args}
		assert.Equal(t, c.want, decimalFromConfigArg(Config{}, prim))
	}
}

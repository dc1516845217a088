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
package netlist_test

import (
	"testing"

	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/util/assert"
)

const andFixture = `{
  "top": "top",
  "definitions": [
    {
      "name": "and2",
      "primitive": {"library": "coreir", "name": "and"},
      "ports": [
        {"name": "in0", "dir": "in", "type": {"kind": "digital"}},
        {"name": "in1", "dir": "in", "type": {"kind": "digital"}},
        {"name": "out", "dir": "out", "type": {"kind": "digital"}}
      ]
    },
    {
      "name": "top",
      "ports": [
        {"name": "a", "dir": "in", "type": {"kind": "digital"}},
        {"name": "b", "dir": "in", "type": {"kind": "digital"}},
        {"name": "y", "dir": "out", "type": {"kind": "digital"}}
      ],
      "instances": [
        {"name": "g0", "defn": "and2"}
      ],
      "drivers": [
        {"target": "g0.in0", "expr": {"kind": "port", "ref": "a"}},
        {"target": "g0.in1", "expr": {"kind": "port", "ref": "b"}},
        {"target": "y", "expr": {"kind": "port", "ref": "g0.out"}}
      ]
    }
  ]
}`

func TestLoadCircuitJSON_andFixture(t *testing.T) {
	c, err := netlist.LoadCircuitJSON([]byte(andFixture))
	assert.NoError(t, err)

	if c.Top == nil || c.Top.Name != "top" {
		t.Fatalf("expected top definition %q, got %v", "top", c.Top)
	}

	top := c.Top
	assert.Equal(t, 1, len(top.Instances))

	y := top.Port("y")
	if y == nil {
		t.Fatal("expected a port named y on top")
	}
	ref, ok := y.Driver()
	if !ok {
		t.Fatal("expected y to be driven")
	}
	instRef, ok := ref.(netlist.InstRef)
	if !ok {
		t.Fatalf("expected y's driver to be an InstRef, got %T", ref)
	}
	assert.Equal(t, "g0", instRef.Inst.Name)
}

func TestLoadCircuitJSON_unknownTopErrors(t *testing.T) {
	_, err := netlist.LoadCircuitJSON([]byte(`{"top": "missing", "definitions": []}`))
	if err == nil {
		t.Fatal("expected an error for a missing top definition")
	}
}

func TestLoadCircuitJSON_malformedJSON(t *testing.T) {
	_, err := netlist.LoadCircuitJSON([]byte(`not json`))
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

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
package netlist

import "fmt"

// MixedField describes one named, individually-directed sub-field of a
// mixed-direction port (GLOSSARY "Mixed aggregate").
type MixedField struct {
	Name string
	Type Type
	Dir  Direction
}

// AddPort declares a new top-level, pure-direction named port on this
// definition.
func (d *Definition) AddPort(name string, typ Type, dir Direction) *Value {
	v := &Value{
		id:     d.circuit.allocID(),
		name:   name,
		typ:    typ,
		dir:    dir,
		origin: OriginDefnPort,
		defn:   d,
	}
	d.ports = append(d.ports, v)
	d.portIndex[name] = v

	return v
}

// AddMixedPort declares a new top-level, mixed-direction named port,
// consisting of individually-directed fields.
func (d *Definition) AddMixedPort(name string, fields []MixedField) *Value {
	productFields := make([]Field, len(fields))
	for i, f := range fields {
		productFields[i] = Field{Name: f.Name, Type: f.Type}
	}

	pt := ProductType{Fields: productFields}

	v := &Value{
		id:     d.circuit.allocID(),
		name:   name,
		typ:    pt,
		dir:    Mixed,
		origin: OriginDefnPort,
		defn:   d,
	}

	for _, f := range fields {
		fv := &Value{
			id:     d.circuit.allocID(),
			name:   name + "." + f.Name,
			typ:    f.Type,
			dir:    f.Dir,
			origin: OriginProductField,
			parent: v,
			field:  f.Name,
			defn:   d,
		}
		v.mixedFields = append(v.mixedFields, fv)
	}

	d.ports = append(d.ports, v)
	d.portIndex[name] = v

	return v
}

// AddInstance places an instance of defn inside d's body, mirroring
// defn's port shapes and directions exactly.
func (d *Definition) AddInstance(name string, defn *Definition) *Instance {
	inst := &Instance{
		Name:      name,
		Defn:      defn,
		portIndex: make(map[string]*Value),
	}

	for _, p := range defn.ports {
		inst.ports = append(inst.ports, mirrorPort(d.circuit, inst, p))
		inst.portIndex[p.name] = inst.ports[len(inst.ports)-1]
	}

	d.Instances = append(d.Instances, inst)

	return inst
}

func mirrorPort(c *Circuit, inst *Instance, p *Value) *Value {
	v := &Value{
		id:     c.allocID(),
		name:   p.name,
		typ:    p.typ,
		dir:    p.dir,
		origin: OriginInstancePort,
		inst:   inst,
	}

	for _, f := range p.mixedFields {
		fv := &Value{
			id:     c.allocID(),
			name:   p.name + "." + f.field,
			typ:    f.typ,
			dir:    f.dir,
			origin: OriginProductField,
			parent: v,
			field:  f.field,
			inst:   inst,
		}
		v.mixedFields = append(v.mixedFields, fv)
	}

	return v
}

// Drive wires ref as the driver of target. target is ordinarily an
// In-direction leaf of an instance (or a direction-pure field reached by
// descending a Mixed port), but the same mechanism also threads drivers
// onto synthetic sub-values (array/product leaves, anonymous-aggregate
// elements) that themselves sit in the middle of a driver chain, and onto
// a definition's own Out-direction ports — which, from the body's
// perspective, are the values the body must produce (spec §4.D/§4.F: the
// root definition's own interface is consumed with the sense inverted
// relative to an instance's). Only an instance's Out-direction port can
// never be driven: it is produced by the instance itself.
func (c *Circuit) Drive(target *Value, ref Ref) error {
	if target.dir == Out && target.origin == OriginInstancePort {
		return fmt.Errorf("netlist: cannot drive produced value %s (direction %s)", target, target.dir)
	}

	if target.driver != nil {
		return fmt.Errorf("netlist: %s is already driven", target)
	}

	target.driver = ref

	return nil
}

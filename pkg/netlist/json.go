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

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/segmentio/encoding/json"
)

// The JSON fixture format below is a compact textual stand-in for a real
// frontend's in-memory circuit graph (spec §3's "opaque source circuit
// API"). It is deliberately shallow: it represents the handful of driver
// shapes the end-to-end scenarios in spec §8 actually exercise (direct
// instance/definition feedthrough, one level of array/tuple indexing,
// anonymous aggregate literals, and constants), rather than an arbitrary
// expression language.

type jsonCircuit struct {
	Top         string           `json:"top"`
	Definitions []jsonDefinition `json:"definitions"`
}

type jsonDefinition struct {
	Name          string            `json:"name"`
	Ports         []jsonPort        `json:"ports"`
	Primitive     *jsonPrimitive    `json:"primitive"`
	VerilogFile   string            `json:"verilogFile"`
	Instances     []jsonInstance    `json:"instances"`
	Drivers       []jsonDriver      `json:"drivers"`
	Binds         []jsonBind        `json:"binds"`
	InlineVerilog []jsonVerilogTmpl `json:"inlineVerilog"`
}

type jsonPort struct {
	Name   string          `json:"name"`
	Type   jsonType        `json:"type"`
	Dir    string          `json:"dir"`
	Fields []jsonMixedPort `json:"fields"`
}

type jsonMixedPort struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
	Dir  string   `json:"dir"`
}

type jsonType struct {
	Kind  string     `json:"kind"` // "digital" | "bits" | "array" | "product"
	Width uint       `json:"width"`
	Count uint       `json:"count"`
	Elem  *jsonType  `json:"elem"`
	Reset string     `json:"reset"`
	Field string     `json:"fieldName"`
	Nest  []jsonType `json:"fields"`
}

type jsonPrimitive struct {
	Library      string         `json:"library"`
	Name         string         `json:"name"`
	ConfigArgs   map[string]any `json:"configArgs"`
	VerilogName  string         `json:"verilogName"`
	CompileGuard *jsonGuard     `json:"compileGuard"`
}

type jsonGuard struct {
	Kind      string `json:"kind"` // "defined" | "undefined"
	Condition string `json:"condition"`
}

type jsonInstance struct {
	Name         string     `json:"name"`
	Defn         string     `json:"defn"`
	CompileGuard *jsonGuard `json:"compileGuard"`
}

// jsonDriver wires one target (a port path) to one driver expression.
// Target is a bare definition port name or "inst.port", either optionally
// followed by ".field" to address a field of a mixed-direction port (see
// resolvePortPath); "[index]" paths are not accepted.
type jsonDriver struct {
	Target string    `json:"target"`
	Expr   jsonDExpr `json:"expr"`
}

// jsonDExpr is the recursive driver-expression shape. Kind selects which
// fields apply:
//
//	"port"          -> Ref (bare "name" or "inst.name")
//	"array_index"   -> Of, Index
//	"tuple_field"   -> Of, Field
//	"anon_array"    -> Type, Elems
//	"anon_product"  -> Type, Elems (positional, matching Type.Nest order)
//	"const_digital" -> Bit
//	"const_bits"    -> Type, Bits (hex string, MSB-first)
type jsonDExpr struct {
	Kind  string       `json:"kind"`
	Ref   string       `json:"ref"`
	Of    *jsonDExpr   `json:"of"`
	Index uint         `json:"index"`
	Field string       `json:"field"`
	Type  *jsonType    `json:"type"`
	Elems []jsonDExpr  `json:"elems"`
	Bit   bool         `json:"bit"`
	Bits  string       `json:"bits"`
}

type jsonBind struct {
	Name  string   `json:"name"`
	Inst  string   `json:"inst"`
	Extra []string `json:"extra"`
}

type jsonVerilogTmpl struct {
	Template string   `json:"template"`
	Refs     []string `json:"refs"`
}

// LoadCircuitJSON parses a circuit fixture using segmentio/encoding/json
// (spec §F) and builds the equivalent netlist.Circuit via the Builder API
// in builder.go, in two passes: every definition's ports first, then each
// definition's instances, binds, inline-verilog templates and drivers, so
// that forward references across definitions resolve.
func LoadCircuitJSON(data []byte) (*Circuit, error) {
	var doc jsonCircuit
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("netlist: parsing circuit JSON: %w", err)
	}

	c := NewCircuit()
	defsByName := make(map[string]*Definition, len(doc.Definitions))

	for _, jd := range doc.Definitions {
		d := c.NewDefinition(jd.Name)
		defsByName[jd.Name] = d

		if jd.Primitive != nil {
			d.Primitive = jd.Primitive.toPrimitive()
		}
		d.VerilogFile = jd.VerilogFile

		for _, jp := range jd.Ports {
			dir, err := parseDirection(jp.Dir)
			if err != nil {
				return nil, fmt.Errorf("netlist: definition %s port %s: %w", jd.Name, jp.Name, err)
			}

			if dir == Mixed {
				fields := make([]MixedField, len(jp.Fields))
				for i, jf := range jp.Fields {
					fdir, err := parseDirection(jf.Dir)
					if err != nil {
						return nil, fmt.Errorf("netlist: definition %s port %s field %s: %w", jd.Name, jp.Name, jf.Name, err)
					}
					fields[i] = MixedField{Name: jf.Name, Type: jf.Type.toType(), Dir: fdir}
				}
				d.AddMixedPort(jp.Name, fields)
				continue
			}

			d.AddPort(jp.Name, jp.Type.toType(), dir)
		}
	}

	// Second pass: instances (needs every definition's port shape to exist
	// already, for mirroring), then binds/inline-verilog/drivers.
	for _, jd := range doc.Definitions {
		d := defsByName[jd.Name]

		for _, ji := range jd.Instances {
			target, ok := defsByName[ji.Defn]
			if !ok {
				return nil, fmt.Errorf("netlist: definition %s: instance %s references unknown definition %s", jd.Name, ji.Name, ji.Defn)
			}

			inst := d.AddInstance(ji.Name, target)
			if ji.CompileGuard != nil {
				kind := GuardDefined
				if ji.CompileGuard.Kind == "undefined" {
					kind = GuardUndefined
				}
				inst.CompileGuard = &CompileGuard{Kind: kind, Condition: ji.CompileGuard.Condition}
			}
		}

		for _, jb := range jd.Binds {
			inst := d.instanceByName(jb.Inst)
			if inst == nil {
				return nil, fmt.Errorf("netlist: definition %s: bind %s references unknown instance %s", jd.Name, jb.Name, jb.Inst)
			}

			bind := BindDecl{Name: jb.Name, Inst: inst}
			for _, ref := range jb.Extra {
				v, err := resolvePortPath(d, ref)
				if err != nil {
					return nil, fmt.Errorf("netlist: definition %s: bind %s: %w", jd.Name, jb.Name, err)
				}
				bind.Extra = append(bind.Extra, v)
			}
			d.Binds = append(d.Binds, bind)
		}

		for _, jv := range jd.InlineVerilog {
			tmpl := VerilogTemplate{Template: jv.Template}
			for _, ref := range jv.Refs {
				v, err := resolvePortPath(d, ref)
				if err != nil {
					return nil, fmt.Errorf("netlist: definition %s: inline verilog: %w", jd.Name, err)
				}
				tmpl.Refs = append(tmpl.Refs, v)
			}
			d.InlineVerilog = append(d.InlineVerilog, tmpl)
		}

		for _, jdr := range jd.Drivers {
			target, err := resolvePortPath(d, jdr.Target)
			if err != nil {
				return nil, fmt.Errorf("netlist: definition %s: driver target: %w", jd.Name, err)
			}

			ref, err := jdr.Expr.resolve(c, d)
			if err != nil {
				return nil, fmt.Errorf("netlist: definition %s: driver for %s: %w", jd.Name, jdr.Target, err)
			}

			if err := c.Drive(target, ref); err != nil {
				return nil, err
			}
		}
	}

	if doc.Top != "" {
		top, ok := defsByName[doc.Top]
		if !ok {
			return nil, fmt.Errorf("netlist: top definition %q not found", doc.Top)
		}
		c.Top = top
	}

	return c, nil
}

func (d *Definition) instanceByName(name string) *Instance {
	for _, i := range d.Instances {
		if i.Name == name {
			return i
		}
	}
	return nil
}

// resolvePortPath resolves "port", "port.field", or "inst.port" (optionally
// followed by ".field" for a mixed sub-field) to its concrete Value.
func resolvePortPath(d *Definition, path string) (*Value, error) {
	name, rest, hasRest := cutDot(path)

	if inst := d.instanceByName(name); inst != nil {
		portName, field, hasField := cutDot(rest)
		if !hasRest {
			return nil, fmt.Errorf("path %q names an instance but no port", path)
		}
		v := inst.Port(portName)
		if v == nil {
			return nil, fmt.Errorf("instance %s has no port %s", name, portName)
		}
		if hasField {
			return resolveMixedField(v, field)
		}
		return v, nil
	}

	v := d.Port(name)
	if v == nil {
		return nil, fmt.Errorf("no port named %s", name)
	}
	if hasRest {
		return resolveMixedField(v, rest)
	}
	return v, nil
}

func resolveMixedField(v *Value, field string) (*Value, error) {
	for _, f := range v.mixedFields {
		if f.field == field {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s has no mixed field %s", v, field)
}

func cutDot(s string) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func (p *jsonPrimitive) toPrimitive() *Primitive {
	prim := &Primitive{
		Library:     p.Library,
		Name:        p.Name,
		ConfigArgs:  p.ConfigArgs,
		VerilogName: p.VerilogName,
	}
	if p.CompileGuard != nil {
		kind := GuardDefined
		if p.CompileGuard.Kind == "undefined" {
			kind = GuardUndefined
		}
		prim.CompileGuard = &CompileGuard{Kind: kind, Condition: p.CompileGuard.Condition}
	}
	return prim
}

func parseDirection(s string) (Direction, error) {
	switch s {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	case "mixed":
		return Mixed, nil
	case "inout":
		return InOut, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (t jsonType) toType() Type {
	switch t.Kind {
	case "digital":
		reset := NoReset
		switch t.Reset {
		case "sync":
			reset = SyncReset
		case "syncN":
			reset = SyncResetN
		case "async":
			reset = AsyncReset
		case "asyncN":
			reset = AsyncResetN
		}
		return DigitalType{Reset: reset}
	case "bits":
		return BitsType{Width: t.Width}
	case "array":
		return ArrayType{Count: t.Count, Elem: t.Elem.toType()}
	case "product":
		fields := make([]Field, len(t.Nest))
		for i, f := range t.Nest {
			fields[i] = Field{Name: f.Field, Type: f.toType()}
		}
		return ProductType{Fields: fields}
	default:
		return DigitalType{}
	}
}

func (e jsonDExpr) resolve(c *Circuit, d *Definition) (Ref, error) {
	switch e.Kind {
	case "port":
		name, rest, hasRest := cutDot(e.Ref)
		if inst := d.instanceByName(name); inst != nil {
			if !hasRest {
				return nil, fmt.Errorf("port ref %q names an instance but no port", e.Ref)
			}
			return InstRef{Inst: inst, PortName: rest}, nil
		}
		return DefnRef{Defn: d, PortName: e.Ref}, nil

	case "array_index":
		if e.Of == nil {
			return nil, fmt.Errorf("array_index expression missing \"of\"")
		}
		arr, err := e.Of.resolveValue(c, d)
		if err != nil {
			return nil, err
		}
		return ArrayRef{Array: arr, Index: e.Index, Mixed: arr.dir == Mixed}, nil

	case "tuple_field":
		if e.Of == nil {
			return nil, fmt.Errorf("tuple_field expression missing \"of\"")
		}
		tup, err := e.Of.resolveValue(c, d)
		if err != nil {
			return nil, err
		}
		return TupleRef{Tuple: tup, Field: e.Field, Mixed: tup.dir == Mixed}, nil

	case "anon_array", "anon_product":
		v, err := e.materializeAnon(c, d)
		if err != nil {
			return nil, err
		}
		return AnonRef{Value: v}, nil

	case "const_digital":
		return ConstDigitalRef{Value: e.Bit}, nil

	case "const_bits":
		if e.Type == nil {
			return nil, fmt.Errorf("const_bits expression missing \"type\"")
		}
		t := e.Type.toType()
		bits, err := parseHexBits(e.Bits, t)
		if err != nil {
			return nil, err
		}
		return ConstBitsRef{Type: t, Bits: c.NewConstBitsValue(t, bits)}, nil

	default:
		return nil, fmt.Errorf("unknown driver expression kind %q", e.Kind)
	}
}

// resolveValue resolves an expression that itself names a concrete Value
// (as opposed to a terminal Ref), for use as the "of" operand of a nested
// array_index/tuple_field. Ports resolve directly; aggregate literals and
// further indexing materialize (and, where the result would itself need a
// driver, are wired via Circuit.Drive so the chain remains traceable).
func (e jsonDExpr) resolveValue(c *Circuit, d *Definition) (*Value, error) {
	switch e.Kind {
	case "port":
		name, rest, hasRest := cutDot(e.Ref)
		if inst := d.instanceByName(name); inst != nil {
			if !hasRest {
				return nil, fmt.Errorf("port ref %q names an instance but no port", e.Ref)
			}
			v := inst.Port(rest)
			if v == nil {
				return nil, fmt.Errorf("instance %s has no port %s", name, rest)
			}
			return v, nil
		}
		v := d.Port(e.Ref)
		if v == nil {
			return nil, fmt.Errorf("no port named %s", e.Ref)
		}
		return v, nil

	case "anon_array", "anon_product":
		return e.materializeAnon(c, d)

	case "array_index", "tuple_field":
		ref, err := e.resolve(c, d)
		if err != nil {
			return nil, err
		}
		var v *Value
		switch r := ref.(type) {
		case ArrayRef:
			v = c.NewArrayIndexValue(r.Array, r.Index, Out)
		case TupleRef:
			v = c.NewProductFieldValue(r.Tuple, r.Field, Out)
		}
		if err := c.Drive(v, ref); err != nil {
			return nil, err
		}
		return v, nil

	default:
		return nil, fmt.Errorf("expression kind %q cannot be used as a nested operand", e.Kind)
	}
}

func (e jsonDExpr) materializeAnon(c *Circuit, d *Definition) (*Value, error) {
	if e.Type == nil {
		return nil, fmt.Errorf("%s expression missing \"type\"", e.Kind)
	}
	t := e.Type.toType()

	elems := make([]*Value, len(e.Elems))
	for i, je := range e.Elems {
		v, err := je.resolveValue(c, d)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = v
	}

	switch tt := t.(type) {
	case ArrayType:
		return c.NewAnonArrayValue(tt, elems), nil
	case ProductType:
		return c.NewAnonProductValue(tt, elems), nil
	default:
		return nil, fmt.Errorf("%s: type %s is not array/product shaped", e.Kind, t)
	}
}

func parseHexBits(s string, t Type) (*bitset.BitSet, error) {
	bt, ok := t.(BitsType)
	if !ok {
		return nil, fmt.Errorf("const_bits: type %s is not bits-shaped", t)
	}

	bs := bitset.New(bt.Width)
	pos := uint(0)
	for i := len(s) - 1; i >= 0 && pos < bt.Width; i-- {
		ch := s[i]
		var nibble uint64
		switch {
		case ch >= '0' && ch <= '9':
			nibble = uint64(ch - '0')
		case ch >= 'a' && ch <= 'f':
			nibble = uint64(ch-'a') + 10
		case ch >= 'A' && ch <= 'F':
			nibble = uint64(ch-'A') + 10
		case ch == 'x' || ch == 'X':
			continue
		default:
			return nil, fmt.Errorf("const_bits: invalid hex digit %q", ch)
		}
		for b := uint(0); b < 4 && pos < bt.Width; b++ {
			if nibble&(1<<b) != 0 {
				bs.Set(pos)
			}
			pos++
		}
	}

	return bs, nil
}

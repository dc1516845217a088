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
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/weave-silicon/circt-emit/pkg/compileerr"
	"github.com/weave-silicon/circt-emit/pkg/netlist"
)

// boolsFromConfigArg converts a primitive's ConfigArgs["init"] entry — as
// decoded from JSON, one of []any (of bool/float64), a string of '0'/'1'
// characters, or a single bool — into the bit pattern lutN materializes
// as an array of i1 constants. An unrecognized shape is a warning in
// permissive mode and an UnsupportedPrimitive error under Config.Strict.
func boolsFromConfigArg(cfg Config, prim *netlist.Primitive, key string) ([]bool, error) {
	raw, ok := prim.ConfigArgs[key]
	if !ok {
		return nil, unrecognizedConfigArg(cfg, prim, key, "missing")
	}

	switch v := raw.(type) {
	case []any:
		out := make([]bool, len(v))
		for i, e := range v {
			b, err := toBool(e)
			if err != nil {
				return nil, unrecognizedConfigArg(cfg, prim, key, err.Error())
			}
			out[i] = b
		}
		return out, nil

	case string:
		out := make([]bool, 0, len(v))
		for _, ch := range v {
			out = append(out, ch != '0')
		}
		return out, nil

	case bool:
		return []bool{v}, nil

	default:
		return nil, unrecognizedConfigArg(cfg, prim, key, fmt.Sprintf("unsupported type %T", raw))
	}
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		return x != 0, nil
	default:
		return false, fmt.Errorf("unsupported element type %T", v)
	}
}

// decimalFromConfigArg reads a scalar init value (for register reset/
// initial-block constants) and renders it as decimal text.
func decimalFromConfigArg(cfg Config, prim *netlist.Primitive) string {
	raw, ok := prim.ConfigArgs["init"]
	if !ok {
		return "0"
	}

	switch v := raw.(type) {
	case float64:
		return strconv.FormatInt(int64(v), 10)
	case bool:
		if v {
			return "1"
		}
		return "0"
	case string:
		return v
	default:
		log.Warnf("lower: primitive %s.%s: init config arg has unrecognized type %T, defaulting to 0", prim.Library, prim.Name, raw)
		return "0"
	}
}

func unrecognizedConfigArg(cfg Config, prim *netlist.Primitive, key, reason string) error {
	msg := fmt.Sprintf("primitive %s.%s: config arg %q: %s", prim.Library, prim.Name, key, reason)
	if cfg.Strict {
		return compileerr.New(compileerr.UnsupportedPrimitive, prim, msg)
	}

	log.Warn("lower: " + msg)

	return nil
}

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

// Package translate is component I (spec §4.F, §4.G, §4.H, §4.I): the
// translation unit that discovers every definition reachable from a top
// module, assigns each one its MLIR symbol, drives component F's
// per-module pipeline (itself folding in component H's cycle breaking),
// processes component G's bind declarations, and renders the whole result
// with package mlirhw's printer.
package translate

import "strings"

// sanitizeName rewrites a source identifier (a port's dotted mixed-field
// name, a definition's name) into one safe to print as a bare MLIR
// identifier.
func sanitizeName(name string) string {
	r := strings.NewReplacer(".", "_", "[", "_", "]", "_")
	return r.Replace(name)
}

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

// Config is the ambient bundle threaded through instance lowering,
// grounded on corset.CompilationConfig.
type Config struct {
	// Strict promotes an unrecognized primitive ConfigArgs key (one a
	// handler does not know what to do with) from a logged warning to a
	// fatal UnsupportedPrimitive error.
	Strict bool

	// FlattenAllTuples expands product-typed leaves into their
	// constituent scalar/array leaves wherever a module signature is
	// minted, per spec §6.2's CompileToMlirOpts.flatten_all_tuples.
	FlattenAllTuples bool
}

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

// Instance places a Definition inside the body of another Definition. Its
// ports mirror the referenced Definition's ports exactly in shape and
// direction.
type Instance struct {
	Name         string
	Defn         *Definition
	CompileGuard *CompileGuard
	ports        []*Value
	portIndex    map[string]*Value
}

// Port returns the named port on this instance, or nil.
func (i *Instance) Port(name string) *Value {
	return i.portIndex[name]
}

// Ports returns all of this instance's top-level named ports, mirroring
// its definition's declaration order.
func (i *Instance) Ports() []*Value {
	return i.ports
}

// Inputs returns the leaves of every In-direction port on this instance.
func (i *Instance) Inputs() []*Value {
	return leavesByDirection(i.ports, In)
}

// Outputs returns the leaves of every Out-direction port on this instance.
func (i *Instance) Outputs() []*Value {
	return leavesByDirection(i.ports, Out)
}

func (i *Instance) String() string {
	return i.Name + ":" + i.Defn.Name
}

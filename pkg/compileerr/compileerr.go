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

// Package compileerr defines the structured error taxonomy raised by the
// netlist-to-MLIR compiler. Every fallible pipeline function returns one of
// these (wrapped in Go's standard error interface) rather than panicking,
// so that a caller can distinguish, e.g., an unsupported primitive from a
// malformed graph.
package compileerr

import "fmt"

// Kind enumerates the fatal error categories a compile can raise.
type Kind int

const (
	// UnsupportedType indicates type lowering (component A) encountered a
	// source type variant it does not know how to lower.
	UnsupportedType Kind = iota
	// UnsupportedDriver indicates the graph builder (component D) found a
	// driver reference kind it does not handle.
	UnsupportedDriver
	// UnsupportedPrimitive indicates the (library, name) pair of a source
	// primitive is not present in the lowering table (component E).
	UnsupportedPrimitive
	// ValueMapConflict indicates an attempt to bind an already-mapped port
	// to a second MLIR value.
	ValueMapConflict
	// NameCollision indicates a forced symbol name was already in use.
	NameCollision
	// MultipleOutputs indicates more than one hw.output was discovered in
	// a single hw.module body.
	MultipleOutputs
	// ReVisit indicates a graph node was reached twice by the module
	// visitor, which is a graph-builder invariant violation.
	ReVisit
)

// String renders the Kind using the name it is given in the specification.
func (k Kind) String() string {
	switch k {
	case UnsupportedType:
		return "UnsupportedType"
	case UnsupportedDriver:
		return "UnsupportedDriver"
	case UnsupportedPrimitive:
		return "UnsupportedPrimitive"
	case ValueMapConflict:
		return "ValueMapConflict"
	case NameCollision:
		return "NameCollision"
	case MultipleOutputs:
		return "MultipleOutputs"
	case ReVisit:
		return "ReVisit"
	default:
		return "UnknownError"
	}
}

// Error is a structured, fatal compilation error. It identifies the
// offending source node (whatever triggered it — a netlist definition, an
// instance, a port, a graph node) via Node, which is printed using its
// Stringer if it implements one; Node may be nil, in which case Error()
// omits the "(at ...)" clause.
type Error struct {
	kind    Kind
	node    any
	message string
}

// New constructs a new compile error of the given kind, attaching the
// offending node and a human-readable message.
func New(kind Kind, node any, message string) *Error {
	return &Error{kind, node, message}
}

// Newf is like New but accepts a format string for the message.
func Newf(kind Kind, node any, format string, args ...any) *Error {
	return &Error{kind, node, fmt.Sprintf(format, args...)}
}

// Kind returns the category of this error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Node returns the offending source node, if any was attached.
func (e *Error) Node() any {
	return e.node
}

// Message returns the human-readable message, without the kind prefix.
func (e *Error) Message() string {
	return e.message
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.node == nil {
		return fmt.Sprintf("%s: %s", e.kind, e.message)
	}

	return fmt.Sprintf("%s: %s (at %v)", e.kind, e.message, e.node)
}

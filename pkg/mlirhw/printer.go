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
package mlirhw

import (
	"fmt"
	"strings"
)

const indentUnit = "  "

// Printer is the text sink described in spec §4.C: push/pop indentation
// and a single flush-line primitive. Every op implements its own Print
// using only these three operations, plus Block.Print for anything
// region-bearing — no op ever inspects another op's internals to render
// itself.
type Printer struct {
	sb     strings.Builder
	indent int
}

// NewPrinter constructs an empty printer at indent level zero.
func NewPrinter() *Printer {
	return &Printer{}
}

// Push increases the indentation of every subsequent Line call by one
// level, until the matching Pop.
func (p *Printer) Push() {
	p.indent++
}

// Pop decreases the indentation by one level.
func (p *Printer) Pop() {
	p.indent--
}

// Line writes one indented, newline-terminated line.
func (p *Printer) Line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat(indentUnit, p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

// String returns everything printed so far.
func (p *Printer) String() string {
	return p.sb.String()
}

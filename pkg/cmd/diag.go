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
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// printCompileError renders a (possibly wrapped) compile error chain,
// grounded on go-corset's pkg/util/termio use of term.GetSize to size
// interactive output: on a wide-enough terminal, or when stdout is not a
// terminal at all (e.g. output is piped, so no width can be read), the
// chain is printed as the single line its Error() already produces; a
// terminal narrower than that line gets one cause per line, outermost
// first, each indented one level deeper than its wrapper.
func printCompileError(err error) {
	causes := unwrapChain(err)

	width, _, sizeErr := term.GetSize(int(os.Stdout.Fd()))
	if sizeErr != nil {
		width = 0
	}

	oneLine := strings.Join(causes, ": ")
	if width == 0 || len(oneLine) <= width {
		fmt.Println(oneLine)
		return
	}

	for i, c := range causes {
		fmt.Println(strings.Repeat("  ", i) + c)
	}
}

// unwrapChain walks err's wrap chain (via errors.Unwrap), returning the
// message fragment each link contributes on top of what it wraps, so that
// strings.Join(unwrapChain(err), ": ") reconstructs err.Error() exactly.
func unwrapChain(err error) []string {
	var out []string

	for err != nil {
		msg := err.Error()

		next := errors.Unwrap(err)
		if next != nil {
			msg = strings.TrimSuffix(msg, next.Error())
			msg = strings.TrimRight(msg, ": ")
		}

		out = append(out, msg)
		err = next
	}

	return out
}

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
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/weave-silicon/circt-emit/pkg/netlist"
	"github.com/weave-silicon/circt-emit/pkg/translate"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] netlist.json",
	Short: "compile a netlist fixture into CIRCT MLIR",
	Long: `Compile a single JSON netlist fixture into textual MLIR using the CIRCT
hw, comb and sv dialects, writing the result to --output (or stdout).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}

		strict := GetFlag(cmd, "strict")
		flattenAllTuples := GetFlag(cmd, "flatten-all-tuples")
		top := GetString(cmd, "top")
		output := GetString(cmd, "output")

		data, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		circuit, err := netlist.LoadCircuitJSON(data)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}

		mlir, err := translate.CompileToMLIR(circuit, translate.CompileToMlirOpts{
			Top:              top,
			Strict:           strict,
			FlattenAllTuples: flattenAllTuples,
		})
		if err != nil {
			printCompileError(err)
			os.Exit(4)
		}

		if output == "" {
			fmt.Print(mlir)
			return
		}

		if err := os.WriteFile(output, []byte(mlir), 0o644); err != nil {
			fmt.Println(err)
			os.Exit(5)
		}
	},
}

//nolint:errcheck
func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().String("top", "", "name of the top definition (defaults to the circuit's designated top)")
	compileCmd.Flags().StringP("output", "o", "", "output file (defaults to stdout)")
	compileCmd.Flags().Bool("strict", false, "fail on unsupported constructs rather than warning and skipping them")
	compileCmd.Flags().Bool("flatten-all-tuples", false, "expand product-typed leaves into scalar/array leaves in interface signatures")
}

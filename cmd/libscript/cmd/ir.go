package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/strandscript/libscript/internal/ir"
)

var irCmd = &cobra.Command{
	Use:   "ir <file.lsc>",
	Short: "Compile a script and print its typed IR",
	Long: `ir compiles a script and prints the typed IR of every compiled
function body, global initializer, and top-level statement. Nothing is
executed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := loadScript(cmd, args[0])
		if !s.Compile() {
			printDiagnostics(cmd, s)
			os.Exit(1)
		}
		sess := s.Session()

		names := make([]string, 0, len(sess.Global.Functions))
		for name := range sess.Global.Functions {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, fn := range sess.Global.Functions[name] {
				if fn.Body == nil {
					continue
				}
				fmt.Printf("func %s (%d locals)\n", name, fn.Body.LocalCount)
				for _, stmt := range fn.Body.Statements {
					fmt.Print(ir.DumpStmt(stmt, sess.Types))
				}
			}
		}

		for _, g := range sess.GlobalInits {
			fmt.Printf("global %s [%d]\n", g.Variable.Name, g.Variable.Index)
			fmt.Print(ir.DumpExpr(g.Init, sess.Types))
		}

		if len(sess.RootStatements) > 0 {
			fmt.Printf("script body (%d locals)\n", sess.RootLocalCount)
			for _, stmt := range sess.RootStatements {
				fmt.Print(ir.DumpStmt(stmt, sess.Types))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(irCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var astCmd = &cobra.Command{
	Use:   "ast <file.lsc>",
	Short: "Parse a script and print its AST",
	Long: `ast lexes and parses a script, printing the resulting translation
unit one declaration per line in each node's compact debug form. It stops
at the first syntax error without attempting recovery.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := loadScript(cmd, args[0])
		tu, err := s.Parse()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(tu.String())
		for _, decl := range tu.Declarations {
			fmt.Println(decl.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(astCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/strandscript/libscript/pkg/script"
)

var checkManifest string

var checkCmd = &cobra.Command{
	Use:   "check <file.lsc>",
	Short: "Compile a script and report diagnostics",
	Long: `check runs the full front-end pipeline over a script: lexing,
parsing, declaration processing and semantic compilation. It prints every
accumulated diagnostic and exits non-zero when compilation fails.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := loadScript(cmd, args[0])
		ok := s.Compile()
		printDiagnostics(cmd, s)
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkManifest, "manifest", "", "module manifest YAML resolving import directives")
	rootCmd.AddCommand(checkCmd)
}

func loadScript(cmd *cobra.Command, path string) *script.Script {
	opts := []script.Option{}
	engine := script.NewEngine(opts...)
	if checkManifest != "" {
		m, err := script.LoadManifest(checkManifest)
		if err != nil {
			exitWithError("%s", err)
		}
		m.Install(engine)
	}
	s, err := engine.LoadScript(path)
	if err != nil {
		exitWithError("%s", err)
	}
	return s
}

func printDiagnostics(cmd *cobra.Command, s *script.Script) {
	asJSON, _ := cmd.Root().PersistentFlags().GetBool("json")
	if asJSON {
		blob, err := s.MessagesJSON()
		if err != nil {
			exitWithError("%s", err)
		}
		fmt.Println(string(blob))
		return
	}
	for _, m := range s.Messages() {
		fmt.Println(m.FormatWithContext())
	}
}

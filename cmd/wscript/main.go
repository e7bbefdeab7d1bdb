// cmd/wscript/main.go
//
// ROLE: Executable entrypoint and command registration for the wscript CLI.
//
// What lives here
//   • Cobra root command, global flags, project config loading.
//
// What does NOT live here
//   • No analysis logic; every subcommand delegates to the front-end
//     package and to the output helpers in output.go.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

var (
	cfgPath string
	config  wscript.Config

	rootCmd = &cobra.Command{
		Use:           "wscript",
		Short:         "Front-end tooling for engine scripts (C / C++ / TypeScript dialects)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := wscript.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("loading %s: %w", cfgPath, err)
			}
			config = cfg
			return nil
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, paint(styleError, "error: ")+err.Error())
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", wscript.ConfigFileName, "project configuration file")
	rootCmd.AddCommand(checkCmd, tokensCmd, detectCmd, replCmd)
}

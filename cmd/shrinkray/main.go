// Package main provides the shrinkray CLI: inspection and maintenance of
// the counterexample store that property runs write minimal failing
// examples into.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "shrinkray",
	Short: "Inspect minimal failing examples from property runs",
	Long: `Shrinkray manages the counterexample store: every property check that
fails records its minimal (shrunk) failing example here, together with
the seed that reproduces the generation pass.`,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flags.dataDir, "data-dir", "", "data directory (default: .shrinkray-db)")
	rootCmd.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shrinkray v0.1.0")
	},
}

// Show command for the shrinkray CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Display a counterexample with full details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exampleID := args[0]

		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		ce, err := store.Get(exampleID)
		if err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "counterexample %q not found\n", exampleID)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get counterexample:", err)
			os.Exit(exitSysError)
		}

		if flags.jsonMode {
			out, err := json.MarshalIndent(ce, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal counterexample: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("ID:        %s\n", ce.ExampleID)
		fmt.Printf("Property:  %s\n", ce.Property)
		fmt.Printf("Seed:      %d\n", ce.Seed)
		fmt.Printf("Tried:     %d examples\n", ce.ExamplesTried)
		fmt.Printf("Created:   %s\n", ce.CreatedAt.Format("2006-01-02 15:04:05"))
		if ce.Failure != "" {
			fmt.Printf("Failure:   %s\n", ce.Failure)
		}

		if len(ce.Value) > 0 {
			fmt.Println("\nMinimal failing values:")
			names := make([]string, 0, len(ce.Value))
			for name := range ce.Value {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("  %s: %v\n", name, ce.Value[name])
			}
		}
		return nil
	},
}

// List command queries stored counterexamples with optional filtering.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [property]",
	Short: "List stored counterexamples, optionally for one property",
	Long: `List queries stored counterexamples, newest first.

With a property argument, only counterexamples for that property are
listed.

Example:
  shrinkray list
  shrinkray list sorted_stays_sorted`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		filter := make(map[string]any)
		if len(args) == 1 {
			filter["property"] = args[0]
		}

		examples, err := store.Fetch(filter)
		if err != nil {
			return fmt.Errorf("fetch counterexamples: %w", err)
		}

		if flags.jsonMode {
			out, err := json.MarshalIndent(examples, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal counterexamples: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		if len(examples) == 0 {
			fmt.Println("no counterexamples stored")
			return nil
		}
		for _, ce := range examples {
			fmt.Printf("%s  %s  seed=%d  %s\n",
				ce.ExampleID, ce.Property, ce.Seed,
				ce.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

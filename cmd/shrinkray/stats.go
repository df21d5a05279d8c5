// Stats command for the shrinkray CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show counterexample counts per property",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "stats:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		total, perProperty, err := store.Stats()
		if err != nil {
			return fmt.Errorf("store stats: %w", err)
		}

		if flags.jsonMode {
			out, err := json.MarshalIndent(map[string]any{
				"total":      total,
				"properties": perProperty,
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal stats: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("total: %d\n", total)
		names := make([]string, 0, len(perProperty))
		for name := range perProperty {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %s: %d\n", name, perProperty[name])
		}
		return nil
	},
}

// Delete command for the shrinkray CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored counterexample",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exampleID := args[0]

		store, err := attachStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer store.Detach()

		if err := store.Delete(exampleID); err != nil {
			if isNotFound(err) {
				fmt.Fprintf(os.Stderr, "counterexample %q not found\n", exampleID)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "delete counterexample:", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("deleted %s\n", exampleID)
		return nil
	},
}

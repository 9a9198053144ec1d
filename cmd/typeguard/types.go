package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types <typedef-file>",
	Short: "List the type names a typedef file defines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read typedef: %w", err)
		}
		set, err := importByExt(args[0], data)
		if err != nil {
			return err
		}
		names := set.Names()
		if len(names) == 0 {
			fmt.Println("(anonymous root schema only)")
			return nil
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

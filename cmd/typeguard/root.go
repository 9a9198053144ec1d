package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/typeguard/i18n"
)

var rootCmd = &cobra.Command{
	Use:   "typeguard",
	Short: "Validate JSON documents against structural type descriptors",
	Long: `typeguard compiles type descriptors declared in a YAML/JSON typedef file
into runtime validators and checks JSON documents against them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		lang, _ := cmd.Flags().GetString("lang")
		i18n.SetLanguage(lang)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("lang", "en", "Message language (en or ja)")
}

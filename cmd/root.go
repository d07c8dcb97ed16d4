package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "forum",
	Short: "A minimal web Q&A forum",
	Long: `A minimal web Q&A forum: users register and log in, post questions,
comment on questions, and search questions by keyword.`,
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

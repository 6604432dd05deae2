// catalogctl — административные команды каталога: хеш пароля, экспорт/импорт снапшота, пересчет эмбеддингов.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Administrative tool for the product catalog",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to the .env file (ignored if missing)")

	rootCmd.AddCommand(
		newHashPasswordCmd(),
		newExportCmd(&envFile),
		newImportCmd(&envFile),
		newReindexCmd(&envFile),
	)

	return rootCmd
}

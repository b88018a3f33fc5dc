package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "bankproducts",
		Short: "bankproducts manages the bank product catalogue",
		Long: `bankproducts exposes create, read, update and delete operations for bank
products over HTTP, backed by memory, PostgreSQL or Redis storage.

Configuration comes from config/bankproducts.yaml (or --config / CONFIG_FILE)
overlaid with environment variables. A .env file is loaded first when present.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadEnvFile(envFile, cmd.Flags().Changed("env"))
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

// loadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing default file is ignored.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil || (!explicit && errors.Is(err, fs.ErrNotExist)) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

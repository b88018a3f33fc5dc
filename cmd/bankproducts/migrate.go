package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/R3E-Network/bankproducts/internal/platform/migrations"
)

func newMigrateCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
		Long: `Run the embedded schema migrations against PostgreSQL.

The connection string is taken from --dsn or DATABASE_URL. Use the
search_path parameter to target a schema other than public.`,
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "PostgreSQL connection string (default $DATABASE_URL)")

	resolve := func() (string, error) {
		if v := strings.TrimSpace(dsn); v != "" {
			return v, nil
		}
		if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
			return v, nil
		}
		return "", errors.New("no database dsn: set --dsn or DATABASE_URL")
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolve()
			if err != nil {
				return err
			}
			if err := migrations.Up(target); err != nil {
				return err
			}
			return printVersion(cmd, target)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolve()
			if err != nil {
				return err
			}
			if err := migrations.Down(target); err != nil {
				return err
			}
			return printVersion(cmd, target)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolve()
			if err != nil {
				return err
			}
			return printVersion(cmd, target)
		},
	})

	return cmd
}

func printVersion(cmd *cobra.Command, dsn string) error {
	version, dirty, err := migrations.Version(dsn)
	if err != nil {
		return err
	}
	if version == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "schema version: none")
		return nil
	}
	state := ""
	if dirty {
		state = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d%s\n", version, state)
	return nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shopql/app/repositories"
	"github.com/shashiranjanraj/shopql/database/seeders"
	"github.com/shashiranjanraj/shopql/pkg/auth"
	"github.com/shashiranjanraj/shopql/pkg/migration"
	"github.com/shashiranjanraj/shopql/pkg/workerpool"
)

// shop migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		_, err = migration.New(e.db, migration.WithOutput(cmd.OutOrStdout())).Run(cmd.Context())
		return err
	},
}

// shop migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:     "migrate:rollback",
	Aliases: []string{"migrate:down"},
	Short:   "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		_, err = migration.New(e.db, migration.WithOutput(cmd.OutOrStdout())).Rollback(cmd.Context())
		return err
	},
}

// shop migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		return migration.New(e.db, migration.WithOutput(cmd.OutOrStdout())).Status(cmd.Context())
	},
}

// shop seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders (creates the ADMIN from ADMIN_EMAIL/ADMIN_PASSWORD)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		pool := workerpool.New(1)
		defer pool.Shutdown()

		seeders.Register("admin", seeders.Admin(
			repositories.NewUserRepository(e.db),
			auth.NewHasher(auth.DefaultCost, pool),
			e.cfg.AdminEmail,
			e.cfg.AdminPassword,
		))

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(cmd.Context(), cmd.OutOrStdout())
	},
}

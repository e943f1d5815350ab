// Command shop runs the shop GraphQL server and its maintenance tasks.
//
//	shop serve              # HTTP (+ gRPC health when GRPC_PORT is set)
//	shop migrate            # apply pending migrations
//	shop seed               # create the ADMIN account
//	shop route:list
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations so their init() funcs run and register themselves.
	_ "github.com/shashiranjanraj/shopql/database/migrations"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "shop",
	Short:         "shop: a GraphQL storefront backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

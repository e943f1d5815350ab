package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/shopql/app/routes"
	"github.com/shashiranjanraj/shopql/internal/kernel"
	"github.com/shashiranjanraj/shopql/internal/server"
	"github.com/shashiranjanraj/shopql/pkg/logger"
	"github.com/shashiranjanraj/shopql/pkg/migration"
	"github.com/shashiranjanraj/shopql/pkg/router"
)

// shop serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server (and gRPC health server when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		k, err := buildKernel(ctx, e)
		if err != nil {
			return err
		}
		defer k.Close()

		cfg := server.Config{
			HTTPAddr: ":" + e.cfg.AppPort,
			Handler:  k.Handler(),
			Health:   k.Check,
		}
		if e.cfg.GRPCPort != "" {
			cfg.GRPCAddr = ":" + e.cfg.GRPCPort
		}

		logger.Info("shop starting", "env", e.cfg.AppEnv, "http", cfg.HTTPAddr, "grpc", cfg.GRPCAddr)
		return server.Run(ctx, cfg)
	},
}

// buildKernel wires the application and then, with AUTO_MIGRATE on, brings
// the schema up to date. Wiring comes first so a bad configuration such as a
// missing JWT_SECRET fails before the database is touched.
func buildKernel(ctx context.Context, e *env) (*kernel.HTTPKernel, error) {
	k, err := kernel.NewHTTPKernel(e.db, kernel.Options{
		JWTSecret:   e.cfg.JWTSecret,
		HashWorkers: e.cfg.HashWorkers,
		CORSOrigins: e.cfg.CORSOrigins,
	})
	if err != nil {
		return nil, err
	}

	if e.cfg.AutoMigrate {
		if _, err := migration.New(e.db).Run(ctx); err != nil {
			k.Close()
			return nil, err
		}
	}
	return k, nil
}

// shop route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r := router.New()
		routes.RegisterAPI(r, routes.Handlers{})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "METHOD\tPATH\tNAME")
		fmt.Fprintln(w, "------\t----\t----")
		for _, ri := range r.Routes() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
		}
		return w.Flush()
	},
}

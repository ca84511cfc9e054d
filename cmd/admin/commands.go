package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salary-portal/internal/app"
	"salary-portal/internal/core/auth"
	"salary-portal/internal/core/config"
	"salary-portal/internal/core/server"
	"salary-portal/internal/transport/http/router"
)

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "salary-admin",
		Short:        "Operator tools for the salary portal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv("CONFIG_PATH"), "path to the YAML config")

	root.AddCommand(
		newServeCmd(&configPath),
		newMigrateCmd(&configPath),
		newTokenCmd(&configPath),
	)
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin view and its API on app.admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cleanup, err := app.Setup(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.FromConfig(cfg.App.Admin, router.NewAdminEngine(a.Deps()))
			log.Info("admin starting",
				zap.String("addr", srv.Addr),
				zap.String("open", server.HumanURL(cfg.App.Admin)+"/admin"),
			)
			return server.Run(ctx, srv, log, 10*time.Second)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the salary_details table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, cleanup, err := app.Setup(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg.DB.AutoMigrate = true
			db, err := app.OpenDB(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrated")
			return nil
		},
	}
}

func newTokenCmd(configPath *string) *cobra.Command {
	var email, name, role string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token accepted by GET /api/user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return errors.New("--email is required")
			}
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			tok, err := auth.NewJWTer(cfg.JWT).Issue(email, name, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "subject of the token")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", "admin", "role claim")
	return cmd
}

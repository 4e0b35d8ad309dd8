package main

import (
	"cleaning-match-service/internal/api/dto"
	"cleaning-match-service/internal/app"
	"cleaning-match-service/internal/config"
	"cleaning-match-service/internal/platform/logging"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// withApp loads configuration, builds the app and runs fn against it.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "matchctl",
		Short:         "Operate the cleaning-match database and matching pipeline",
		SilenceUsage:  true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newGeocodePendingCmd(),
		newNearbyCmd(),
	)
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the homes and service_providers tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Migrate(ctx, false); err != nil {
					return err
				}
				a.Logger.Info("schema ready", zap.String("dialect", a.Dialect.String()))
				return nil
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the schema and load demo homes and providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if path != "" {
					a.Cfg.SeedPath = path
				}
				if err := a.Migrate(ctx, true); err != nil {
					return err
				}
				a.Logger.Info("seeding complete", zap.String("path", a.Cfg.SeedPath))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "seed file (defaults to SEED_PATH)")
	return cmd
}

func newGeocodePendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "geocode-pending",
		Short: "Geocode every home and provider that still has no coordinates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Registration.GeocodePending(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "geocoded=%d failed=%d\n", res.Geocoded, res.Failed)
				return nil
			})
		},
	}
}

func newNearbyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nearby <home-id>",
		Short: "Print the nearest eligible providers for a home as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("home-id must be a positive integer, got %q", args[0])
			}

			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				res, err := a.Matcher.NearbyProviders(ctx, id)
				if err != nil {
					return err
				}
				if res.Degraded {
					fmt.Fprintln(cmd.ErrOrStderr(), "warning: ranking degraded, result is empty")
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dto.NearbyFrom(res.Providers))
			})
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/database/seeders"
	"github.com/shashiranjanraj/products/pkg/database"
)

// products seed: insert the demo catalogue into an existing products table.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo products",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			boot := database.NewBootstrap(database.Dial(database.FromConfig()), database.DefaultPolicy())
			if err := boot.Initialize(cmd.Context()); err != nil {
				return err
			}
			defer boot.Close() //nolint:errcheck

			out := cmd.OutOrStdout()
			if err := seeders.RunAll(cmd.Context(), boot.MustConn(), out); err != nil {
				return err
			}
			fmt.Fprintln(out, "✅ Seeding complete")
			return nil
		},
	}
}

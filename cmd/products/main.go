package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "products",
		Short:         "Product catalogue HTTP service",
		Long:          "Serves the product catalogue over HTTP and ships a small client for it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveCmd().RunE(cmd, args)
		},
	}

	// Server
	root.AddCommand(serveCmd())
	root.AddCommand(routeListCmd())
	root.AddCommand(apiURLCmd())

	// Database
	root.AddCommand(seedCmd())

	// Client
	root.AddCommand(clientListCmd())
	root.AddCommand(clientCreateCmd())
	root.AddCommand(clientUpdateCmd())
	root.AddCommand(clientDeleteCmd())

	return root
}

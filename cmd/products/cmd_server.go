package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/internal/kernel"
	"github.com/shashiranjanraj/products/internal/server"
	"github.com/shashiranjanraj/products/pkg/clientcfg"
)

// products serve: connect to the database and start the HTTP server.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.Start(cmd.Context())
		},
	}
}

// products route:list: print all named routes.
func routeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List all registered named routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := kernel.NewRouter(nil, kernel.Options{}).Routes()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range infos {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}

// products api:url: print the API base URL a client would use.
func apiURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api:url",
		Short: "Print the resolved API base URL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return fmt.Errorf("config: %w", err)
			}

			url := clientcfg.APIURL(config.Lookup)
			if url == "" {
				url = "undefined"
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

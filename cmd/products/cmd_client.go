package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/products/app/models"
	"github.com/shashiranjanraj/products/config"
	"github.com/shashiranjanraj/products/pkg/apiclient"
	"github.com/shashiranjanraj/products/pkg/clientcfg"
)

// newClient uses --url when given, otherwise the resolved VITE_API_URL.
func newClient(cmd *cobra.Command) (*apiclient.Client, error) {
	base, _ := cmd.Flags().GetString("url")
	if base == "" {
		if err := config.Load(); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		base = clientcfg.APIURL(config.Lookup)
	}
	return apiclient.New(base)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addURLFlag(cmd *cobra.Command) {
	cmd.Flags().String("url", "", "API base URL (defaults to VITE_API_URL)")
}

// addProductFlags registers the four product fields. A flag left unset is
// sent as null.
func addProductFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "product name")
	cmd.Flags().String("description", "", "product description")
	cmd.Flags().Float64("price", 0, "product price")
	cmd.Flags().String("img", "", "product image")
}

func productInput(cmd *cobra.Command) models.ProductInput {
	var in models.ProductInput
	flags := cmd.Flags()

	str := func(name string) models.Value {
		if !flags.Changed(name) {
			return models.Value{}
		}
		v, _ := flags.GetString(name)
		return models.V(v)
	}

	in.Name = str("name")
	in.Description = str("description")
	in.Img = str("img")
	if flags.Changed("price") {
		v, _ := flags.GetFloat64("price")
		in.Price = models.V(v)
	}
	return in
}

func clientListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client:list",
		Short: "List products from a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			products, err := c.List(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, products)
		},
	}
	addURLFlag(cmd)
	return cmd
}

func clientCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client:create",
		Short: "Create a product on a running server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.Create(cmd.Context(), productInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	addURLFlag(cmd)
	addProductFlags(cmd)
	return cmd
}

func clientUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client:update <id>",
		Short: "Overwrite a product on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.Update(cmd.Context(), args[0], productInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	addURLFlag(cmd)
	addProductFlags(cmd)
	return cmd
}

func clientDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client:delete <id>",
		Short: "Delete a product on a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, res)
		},
	}
	addURLFlag(cmd)
	return cmd
}

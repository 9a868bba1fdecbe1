package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dejobratic/backoffice/internal/bootstrap"
	"github.com/dejobratic/backoffice/internal/seed"
)

func newSeedCmd(s *settings) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, products, customers and orders from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixtures, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			return s.withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				res, err := seed.Apply(cmd.Context(), rt.Service, fixtures)
				if err != nil {
					return fmt.Errorf("seed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %d users, %d products, %d customers, %d orders\n",
					res.Users, res.Products, res.Customers, res.Orders)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Seed file (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dejobratic/backoffice/internal/backoffice/domain"
	"github.com/dejobratic/backoffice/internal/bootstrap"
)

func newStockCmd(s *settings) *cobra.Command {
	var (
		op  string
		qty int64
	)

	cmd := &cobra.Command{
		Use:   "stock <product-id>",
		Short: "Set, add to or subtract from a product's stock",
		Long:  "Adjusts stock the way PUT /api/inventory/{id}/stock does. The result never drops below zero.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				product, err := rt.Service.AdjustStock(cmd.Context(), args[0], domain.StockOperation(op), qty)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) stock is now %d\n", product.Name, product.SKU, product.Stock)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&op, "op", string(domain.StockSet), "Operation: set, add or subtract")
	cmd.Flags().Int64Var(&qty, "qty", 0, "Quantity")
	_ = cmd.MarkFlagRequired("qty")
	return cmd
}

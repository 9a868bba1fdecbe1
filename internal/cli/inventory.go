package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dejobratic/backoffice/internal/bootstrap"
)

func newInventoryCmd(s *settings) *cobra.Command {
	var (
		lowStock   int64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Report low stock, out of stock and inventory value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.withRuntime(cmd, func(rt *bootstrap.Runtime) error {
				threshold := lowStock
				if !cmd.Flags().Changed("low-stock") {
					threshold = -1
				}

				snap, err := rt.Service.InventorySnapshot(cmd.Context(), threshold)
				if err != nil {
					return fmt.Errorf("inventory snapshot: %w", err)
				}

				if jsonOutput {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				}
				if threshold < 0 {
					threshold = rt.Service.LowStockThreshold()
				}
				fmt.Fprint(cmd.OutOrStdout(), renderInventory(snap, threshold))
				return nil
			})
		},
	}

	cmd.Flags().Int64Var(&lowStock, "low-stock", 0, "Low stock threshold (defaults to INVENTORY_LOW_STOCK_THRESHOLD)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

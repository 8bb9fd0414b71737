package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/listview"
	"github.com/spinforge/partnerctl/internal/ui"
)

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "Review and request payouts",
}

var payoutsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payout requests",
	Long: `
Examples:
  partnerctl payouts list --filter status=pending
  partnerctl payouts list --sort amount --desc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Payout]{
			entity:  "payouts",
			config:  entity.PayoutsConfig(rt.cfg.PageSize),
			columns: entity.PayoutColumns(),
			cells:   entity.Payout.Cells,
		}, readListFlags(cmd))
	},
}

var payoutsRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request a payout against the current balance",
	Long: `
Validates the amount against the platform floor locally before sending.

Examples:
  partnerctl payouts request --amount 250 --method pm_81`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		amount, _ := cmd.Flags().GetFloat64("amount")
		method, _ := cmd.Flags().GetString("method")
		req := entity.PayoutRequest{Amount: amount, MethodID: method}

		ctrl := listview.NewController(rt.client, entity.PayoutsConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, nil, nil)

		if err := coord.CreateRow(context.Background(), req); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "payout of %.2f requested", amount)
		return nil
	},
}

func init() {
	registerListFlags(payoutsListCmd)
	payoutsRequestCmd.Flags().Float64("amount", 0, "Amount to withdraw")
	payoutsRequestCmd.Flags().String("method", "", "Payment method id (see: partnerctl methods list)")

	payoutsCmd.AddCommand(payoutsListCmd, payoutsRequestCmd)
	rootCmd.AddCommand(payoutsCmd)
}

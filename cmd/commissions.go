package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/export"
	"github.com/spinforge/partnerctl/internal/listview"
	"github.com/spinforge/partnerctl/internal/ui"
)

var commissionsCmd = &cobra.Command{
	Use:   "commissions",
	Short: "Review earned commissions",
}

var commissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List commission records",
	Long: `
Examples:
  partnerctl commissions list --filter status=pending
  partnerctl commissions list --filter period=2026-08
  partnerctl commissions list --sort amount --desc --export csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Commission]{
			entity:  "commissions",
			config:  entity.CommissionsConfig(rt.cfg.PageSize),
			columns: entity.CommissionColumns(),
			cells:   entity.Commission.Cells,
		}, readListFlags(cmd))
	},
}

var commissionsStatementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Download a PDF earnings statement for a period",
	Long: `
Renders the period's commission rows into a printable statement.

Examples:
  partnerctl commissions statement --period 2026-08`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		period, _ := cmd.Flags().GetString("period")
		if period == "" {
			return fmt.Errorf("--period is required (YYYY-MM)")
		}

		ctx := context.Background()
		ctrl := listview.NewController(rt.client, entity.CommissionsConfig(100))
		if err := ctrl.Seed(1, "", map[string]string{"period": period}); err != nil {
			return err
		}
		if err := ctrl.Refresh(ctx); err != nil {
			return err
		}

		rows := ctrl.Rows()
		if len(rows) == 0 {
			return fmt.Errorf("no commissions recorded for %s", period)
		}

		cells := make([][]string, 0, len(rows))
		var totalAmount float64
		currency := ""
		for _, c := range rows {
			cells = append(cells, c.Cells())
			totalAmount += c.Amount
			if currency == "" {
				currency = c.Currency
			}
		}

		partner := "affiliate"
		if p := rt.store.Current(); p != nil && p.Username != "" {
			partner = p.Username
		}

		stmt := export.Statement{
			Title:    "Commission Statement",
			Partner:  partner,
			Period:   period,
			Columns:  entity.CommissionColumns(),
			Rows:     cells,
			TotalRow: []string{"", "", "", "", "Total", fmt.Sprintf("%.2f %s", totalAmount, currency), ""},
		}

		path, err := stmt.ToPDFFile(rt.cfg.ExportPath)
		if err != nil {
			return err
		}
		ui.Successf(os.Stdout, "statement written to %s", path)
		return nil
	},
}

func init() {
	registerListFlags(commissionsListCmd)
	commissionsStatementCmd.Flags().String("period", "", "Statement period (YYYY-MM)")

	commissionsCmd.AddCommand(commissionsListCmd, commissionsStatementCmd)
	rootCmd.AddCommand(commissionsCmd)
}

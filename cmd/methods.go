package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/listview"
	"github.com/spinforge/partnerctl/internal/ui"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "Manage payout payment methods",
}

var methodsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved payment methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.PaymentMethod]{
			entity:  "methods",
			config:  entity.PaymentMethodsConfig(rt.cfg.PageSize),
			toggles: entity.PaymentMethodToggles(),
			columns: entity.PaymentMethodColumns(),
			cells:   entity.PaymentMethod.Cells,
		}, readListFlags(cmd))
	},
}

var methodsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new payment method",
	Long: `
Examples:
  partnerctl methods add --type crypto --label "Cold wallet" --details bc1q...
  partnerctl methods add --type bank --label "Main account" --details DE89...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		mtype, _ := cmd.Flags().GetString("type")
		label, _ := cmd.Flags().GetString("label")
		details, _ := cmd.Flags().GetString("details")
		payload := entity.PaymentMethodPayload{Type: mtype, Label: label, Details: details}

		ctrl := listview.NewController(rt.client, entity.PaymentMethodsConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.PaymentMethodToggles(), nil)

		if err := coord.CreateRow(context.Background(), payload); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "saved payment method %q", label)
		return nil
	},
}

var methodsPrimaryCmd = &cobra.Command{
	Use:   "set-primary <id>",
	Short: "Make a payment method the default payout destination",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		ctx := context.Background()
		ctrl := listview.NewController(rt.client, entity.PaymentMethodsConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.PaymentMethodToggles(), nil)

		if err := findOnSomePage(ctx, ctrl, args[0]); err != nil {
			return err
		}
		if err := coord.ToggleField(ctx, args[0], "primary"); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "method %s is now primary", args[0])
		return nil
	},
}

var methodsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a payment method",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force {
			prompter := ui.NewPrompter()
			ok, err := prompter.Confirm(fmt.Sprintf("Remove payment method %s?", args[0]))
			prompter.Close()
			if err != nil {
				return err
			}
			if !ok {
				ui.Infof(os.Stdout, "cancelled")
				return nil
			}
		}

		ctrl := listview.NewController(rt.client, entity.PaymentMethodsConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.PaymentMethodToggles(), nil)

		if err := coord.DeleteRow(context.Background(), args[0]); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "removed payment method %s", args[0])
		return nil
	},
}

func init() {
	registerListFlags(methodsListCmd)
	methodsAddCmd.Flags().String("type", "", "Method type: "+strings.Join(entity.PaymentMethodTypes, ", "))
	methodsAddCmd.Flags().String("label", "", "Display label")
	methodsAddCmd.Flags().String("details", "", "Account number / wallet address")
	methodsRemoveCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	methodsCmd.AddCommand(methodsListCmd, methodsAddCmd, methodsPrimaryCmd, methodsRemoveCmd)
	rootCmd.AddCommand(methodsCmd)
}

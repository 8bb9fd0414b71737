package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/listview"
	"github.com/spinforge/partnerctl/internal/ui"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Manage game providers (admin)",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers",
	Long: `
Examples:
  partnerctl providers list --filter status=active
  partnerctl providers list -i`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Provider]{
			entity:  "providers",
			config:  entity.ProvidersConfig(rt.cfg.PageSize),
			toggles: entity.ProviderToggles(),
			columns: entity.ProviderColumns(),
			cells:   entity.Provider.Cells,
		}, readListFlags(cmd))
	},
}

var providersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		name, _ := cmd.Flags().GetString("name")
		code, _ := cmd.Flags().GetString("code")
		logo, _ := cmd.Flags().GetString("logo")
		payload := entity.ProviderPayload{Name: name, Code: code, LogoURL: logo}

		ctrl := listview.NewController(rt.client, entity.ProvidersConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.ProviderToggles(), nil)

		if err := coord.CreateRow(context.Background(), payload); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "created provider %q", payload.Name)
		return nil
	},
}

var providersToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a provider's active flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		ctx := context.Background()
		ctrl := listview.NewController(rt.client, entity.ProvidersConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.ProviderToggles(), nil)

		if err := findOnSomePage(ctx, ctrl, args[0]); err != nil {
			return err
		}
		if err := coord.ToggleField(ctx, args[0], "status"); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "toggled status on provider %s", args[0])
		return nil
	},
}

var providersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force {
			prompter := ui.NewPrompter()
			ok, err := prompter.Confirm(fmt.Sprintf("Delete provider %s and orphan its games?", args[0]))
			prompter.Close()
			if err != nil {
				return err
			}
			if !ok {
				ui.Infof(os.Stdout, "cancelled")
				return nil
			}
		}

		ctrl := listview.NewController(rt.client, entity.ProvidersConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.ProviderToggles(), nil)

		if err := coord.DeleteRow(context.Background(), args[0]); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "deleted provider %s", args[0])
		return nil
	},
}

func init() {
	registerListFlags(providersListCmd)
	providersCreateCmd.Flags().String("name", "", "Provider name")
	providersCreateCmd.Flags().String("code", "", "Lowercase provider code")
	providersCreateCmd.Flags().String("logo", "", "Logo URL")
	providersDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	providersCmd.AddCommand(providersListCmd, providersCreateCmd, providersToggleCmd, providersDeleteCmd)
	rootCmd.AddCommand(providersCmd)
}

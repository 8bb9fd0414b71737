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

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage the game catalog (admin)",
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog games",
	Long: `
List catalog games with server-side pagination and filters. Search and
sort apply to the fetched page only.

Examples:
  partnerctl games list --filter status=active --filter category=slots
  partnerctl games list --page 3 --sort rtp --desc
  partnerctl games list -i
  partnerctl games list --export csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Game]{
			entity:  "games",
			config:  entity.GamesConfig(rt.cfg.PageSize),
			toggles: entity.GameToggles(),
			columns: entity.GameColumns(),
			cells:   entity.Game.Cells,
		}, readListFlags(cmd))
	},
}

var gamesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a game to the catalog",
	Long: `
Examples:
  partnerctl games create --name "Book of Nova" --provider novaplay \
      --category slots --rtp 96.4 --image https://cdn.spinforge.io/bon.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		payload := gamePayloadFromFlags(cmd)
		ctrl := listview.NewController(rt.client, entity.GamesConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.GameToggles(), nil)

		if err := coord.CreateRow(context.Background(), payload); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "created game %q", payload.Name)
		return nil
	},
}

var gamesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a catalog game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		payload := gamePayloadFromFlags(cmd)
		ctrl := listview.NewController(rt.client, entity.GamesConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.GameToggles(), nil)

		if err := coord.UpdateRow(context.Background(), args[0], payload); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "updated game %s", args[0])
		return nil
	},
}

var gamesToggleCmd = &cobra.Command{
	Use:   "toggle <id> <status|featured>",
	Short: "Flip a game's active or featured flag",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		field := args[1]
		if field != "status" && field != "featured" {
			return fmt.Errorf("field must be status or featured, got %q", field)
		}

		ctx := context.Background()
		ctrl := listview.NewController(rt.client, entity.GamesConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.GameToggles(), nil)

		// The toggle reads the current value from the held page, so fetch
		// the page containing the row first.
		if err := findOnSomePage(ctx, ctrl, args[0]); err != nil {
			return err
		}
		if err := coord.ToggleField(ctx, args[0], field); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "toggled %s on game %s", field, args[0])
		return nil
	},
}

var gamesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a game from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one game id")
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("yes")
		if !force {
			prompter := ui.NewPrompter()
			ok, err := prompter.Confirm(fmt.Sprintf("Delete game %s? This cannot be undone", args[0]))
			prompter.Close()
			if err != nil {
				return err
			}
			if !ok {
				ui.Infof(os.Stdout, "cancelled")
				return nil
			}
		}

		ctrl := listview.NewController(rt.client, entity.GamesConfig(rt.cfg.PageSize))
		coord := listview.NewCoordinator(ctrl, entity.GameToggles(), nil)

		if err := coord.DeleteRow(context.Background(), args[0]); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "deleted game %s", args[0])
		return nil
	},
}

func gamePayloadFromFlags(cmd *cobra.Command) entity.GamePayload {
	name, _ := cmd.Flags().GetString("name")
	provider, _ := cmd.Flags().GetString("provider")
	category, _ := cmd.Flags().GetString("category")
	image, _ := cmd.Flags().GetString("image")
	rtp, _ := cmd.Flags().GetFloat64("rtp")

	return entity.GamePayload{
		Name:     name,
		Provider: provider,
		Category: category,
		ImageURL: image,
		RTP:      rtp,
	}
}

func registerGamePayloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Game name")
	cmd.Flags().String("provider", "", "Provider code")
	cmd.Flags().String("category", "", "Category: "+strings.Join(entity.GameCategories, ", "))
	cmd.Flags().String("image", "", "Image URL")
	cmd.Flags().Float64("rtp", 0, "Return-to-player percentage")
}

func init() {
	registerListFlags(gamesListCmd)
	registerGamePayloadFlags(gamesCreateCmd)
	registerGamePayloadFlags(gamesUpdateCmd)
	gamesDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	gamesCmd.AddCommand(gamesListCmd, gamesCreateCmd, gamesUpdateCmd, gamesToggleCmd, gamesDeleteCmd)
	rootCmd.AddCommand(gamesCmd)
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/ui"
)

var registrationsCmd = &cobra.Command{
	Use:   "registrations",
	Short: "List users who signed up through your links",
	Long: `
Examples:
  partnerctl registrations --filter status=active
  partnerctl registrations --search ann --sort deposits --desc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Registration]{
			entity:  "registrations",
			config:  entity.RegistrationsConfig(rt.cfg.PageSize),
			columns: entity.RegistrationColumns(),
			cells:   entity.Registration.Cells,
		}, readListFlags(cmd))
	},
}

var depositsCmd = &cobra.Command{
	Use:   "deposits",
	Short: "List referred users' deposits",
	Long: `
Examples:
  partnerctl deposits --filter status=confirmed --export csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return runList(rt, listPage[entity.Deposit]{
			entity:  "deposits",
			config:  entity.DepositsConfig(rt.cfg.PageSize),
			columns: entity.DepositColumns(),
			cells:   entity.Deposit.Cells,
		}, readListFlags(cmd))
	},
}

// referralLink is the server-issued referral code plus its campaign tag.
type referralLink struct {
	Code     string `json:"code"`
	Campaign string `json:"campaign,omitempty"`
	Clicks   int    `json:"clicks"`
	Signups  int    `json:"signups"`
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Referral links",
}

var linksShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your referral links and their stats",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		var links []referralLink
		if err := rt.client.Get(context.Background(), "/affiliate/links", "links", &links); err != nil {
			return err
		}

		rows := make([][]string, 0, len(links))
		for _, l := range links {
			rows = append(rows, []string{
				l.Code,
				l.Campaign,
				referralURL(rt.cfg.PlatformURL, l),
				fmt.Sprintf("%d", l.Clicks),
				fmt.Sprintf("%d", l.Signups),
			})
		}
		ui.RenderTable(os.Stdout, []string{"Code", "Campaign", "URL", "Clicks", "Signups"}, rows)
		return nil
	},
}

var linksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a referral link for a campaign",
	Long: `
Examples:
  partnerctl links create --campaign summer-freespins`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		campaign, _ := cmd.Flags().GetString("campaign")
		if campaign == "" {
			return fmt.Errorf("--campaign is required")
		}

		var link referralLink
		body := map[string]string{"campaign": campaign}
		if err := rt.client.Post(context.Background(), "/affiliate/links", body, "link", &link); err != nil {
			return err
		}

		ui.Successf(os.Stdout, "link created: %s", referralURL(rt.cfg.PlatformURL, link))
		return nil
	},
}

func referralURL(platformURL string, l referralLink) string {
	u := fmt.Sprintf("%s/ref/%s", platformURL, l.Code)
	if l.Campaign != "" {
		u += "?c=" + l.Campaign
	}
	return u
}

func init() {
	registerListFlags(registrationsCmd)
	registerListFlags(depositsCmd)
	linksCreateCmd.Flags().String("campaign", "", "Campaign tag for the link")

	linksCmd.AddCommand(linksShowCmd, linksCreateCmd)
	rootCmd.AddCommand(registrationsCmd, depositsCmd, linksCmd)
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/config"
	"github.com/spinforge/partnerctl/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter partner.config.json",
	Long: `
Creates partner.config.json in the current directory with the default
settings (API URL, page size, export path). Edit it to point at your
environment, or rely on PARTNER_TOKEN / .env overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitializeProject(); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "wrote partner.config.json")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

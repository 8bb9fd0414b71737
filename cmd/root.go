package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	flagProfile string
	flagToken   string
	Version     = "1.4.2"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"┌──────────────────────────────────────────────┐",
		"│   ♠ ♥  partnerctl · SpinForge Partners  ♦ ♣  │",
		"│                                              │",
		"│   commissions · payouts · catalog · links    │",
		"└──────────────────────────────────────────────┘",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("            ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "partnerctl",
	Short: "Terminal portal for the SpinForge affiliate program",
	Long: `
partnerctl is the terminal client for the SpinForge partner program.

Affiliates and master affiliates can review commissions, deposits and
referred registrations, request payouts, manage payment methods, and
generate referral links. Platform admins additionally manage the game
and provider catalog.

All data lives on the platform API; partnerctl holds nothing locally
except your login token (~/.partnerctl/profiles.yaml).`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("partnerctl version %s\n", Version)
			return
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./partner.config.json)")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "named profile to use (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "bearer token override (skips the profile store)")

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("partner.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		// fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

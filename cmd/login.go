package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/session"
	"github.com/spinforge/partnerctl/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Log in and store the session token",
	Long: `
Log in against the platform API and save the bearer token into the
current profile (~/.partnerctl/profiles.yaml).

Examples:
  partnerctl login acme_partners
  partnerctl --profile staging login acme_partners`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		prompter := ui.NewPrompter()
		defer prompter.Close()

		username := ""
		if len(args) > 0 {
			username = args[0]
		} else {
			username, err = prompter.Line("Username", "")
			if err != nil {
				return err
			}
		}
		if username == "" {
			return fmt.Errorf("username is required")
		}

		password, err := prompter.Password("Password")
		if err != nil {
			return err
		}
		if password == "" {
			return fmt.Errorf("password is required")
		}

		var resp struct {
			Token string `json:"token"`
		}
		body := map[string]string{"username": username, "password": password}
		if err := rt.client.Post(context.Background(), "/auth/login", body, "", &resp); err != nil {
			return err
		}
		if resp.Token == "" {
			return fmt.Errorf("login succeeded but no token was returned")
		}

		if err := rt.store.SetToken(rt.profileName(), rt.apiURL, username, resp.Token); err != nil {
			return err
		}

		ui.Successf(os.Stdout, "logged in as %s (profile %q)", username, rt.profileName())

		if claims, err := session.Peek(resp.Token); err == nil && !claims.ExpiresAt.IsZero() {
			ui.Infof(os.Stdout, "session valid until %s", claims.ExpiresAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if err := rt.store.ClearToken(rt.profileName()); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "logged out of profile %q", rt.profileName())
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the stored token belongs to",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		p := storeProfile(rt.store, rt.profileName())
		if p == nil {
			p = rt.store.Current()
		}
		if p == nil || p.Token == "" {
			return fmt.Errorf("not logged in (run: partnerctl login)")
		}

		claims, err := session.Peek(p.Token)
		if err != nil {
			return err
		}

		name := claims.Username
		if name == "" {
			name = p.Username
		}
		fmt.Printf("profile : %s\n", p.Name)
		fmt.Printf("backend : %s\n", p.APIURL)
		fmt.Printf("user    : %s\n", name)
		if claims.Role != "" {
			fmt.Printf("role    : %s\n", claims.Role)
		}
		if !claims.ExpiresAt.IsZero() {
			fmt.Printf("expires : %s\n", claims.ExpiresAt.Format("2006-01-02 15:04"))
		}
		if claims.Expired() {
			ui.Errorf(os.Stdout, "token is expired, log in again")
		}
		return nil
	},
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		current := ""
		if p := rt.store.Current(); p != nil {
			current = p.Name
		}

		rows := [][]string{}
		for _, p := range rt.store.Profiles() {
			marker := " "
			if p.Name == current {
				marker = "*"
			}
			loggedIn := "no"
			if p.Token != "" {
				loggedIn = "yes"
			}
			rows = append(rows, []string{marker, p.Name, p.APIURL, p.Username, loggedIn})
		}
		ui.RenderTable(os.Stdout, []string{"", "Name", "Backend", "User", "Logged in"}, rows)
		return nil
	},
}

var profilesUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if err := rt.store.Use(args[0]); err != nil {
			return err
		}
		ui.Successf(os.Stdout, "switched to profile %q", args[0])
		return nil
	},
}

func init() {
	profilesCmd.AddCommand(profilesUseCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, profilesCmd)
}

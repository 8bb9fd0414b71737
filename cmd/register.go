package cmd

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spinforge/partnerctl/internal/entity"
	"github.com/spinforge/partnerctl/internal/ui"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// registration is the wizard's accumulated state, posted once at the end.
// Each step validates before the next one opens; nothing reaches the
// network until the review step is confirmed.
type registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	CompanyName     string `json:"companyName,omitempty"`
	Website         string `json:"website,omitempty"`
	Phone           string `json:"phone,omitempty"`
	PreferredMethod string `json:"preferredMethod"`
	ParentCode      string `json:"parentCode,omitempty"`
}

func (r registration) validateAccount() error {
	if strings.TrimSpace(r.Username) == "" {
		return fmt.Errorf("username is required")
	}
	if len(r.Username) < 4 {
		return fmt.Errorf("username must be at least 4 characters")
	}
	if !emailPattern.MatchString(r.Email) {
		return fmt.Errorf("%q is not a valid email address", r.Email)
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Sign up as a new affiliate (interactive wizard)",
	Long: `
Walk through the affiliate signup: account, contact details, payout
preference, then a review step before anything is sent.

Master affiliates can enroll a sub-affiliate under their code:
  partnerctl register --parent MA-2041`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}

		parent, _ := cmd.Flags().GetString("parent")

		prompter := ui.NewPrompter()
		defer prompter.Close()

		var reg registration
		reg.ParentCode = parent

		// Step 1: account
		ui.Infof(os.Stdout, "Step 1/4: account")
		for {
			if reg.Username, err = prompter.Line("Username", reg.Username); err != nil {
				return err
			}
			if reg.Email, err = prompter.Line("Email", reg.Email); err != nil {
				return err
			}
			if reg.Password, err = prompter.Password("Password (min 8 chars)"); err != nil {
				return err
			}
			confirm, err := prompter.Password("Confirm password")
			if err != nil {
				return err
			}
			if reg.Password != confirm {
				ui.Errorf(os.Stdout, "passwords do not match")
				continue
			}
			if err := reg.validateAccount(); err != nil {
				ui.Errorf(os.Stdout, "%v", err)
				continue
			}
			break
		}

		// Step 2: contact
		ui.Infof(os.Stdout, "Step 2/4: contact (optional, enter to skip)")
		if reg.CompanyName, err = prompter.Line("Company", reg.CompanyName); err != nil {
			return err
		}
		for {
			if reg.Website, err = prompter.Line("Website", reg.Website); err != nil {
				return err
			}
			if reg.Website == "" || strings.HasPrefix(reg.Website, "http://") || strings.HasPrefix(reg.Website, "https://") {
				break
			}
			ui.Errorf(os.Stdout, "website must start with http:// or https://")
		}
		if reg.Phone, err = prompter.Line("Phone", reg.Phone); err != nil {
			return err
		}

		// Step 3: payout preference
		ui.Infof(os.Stdout, "Step 3/4: payout preference (%s)", strings.Join(entity.PaymentMethodTypes, ", "))
		for {
			if reg.PreferredMethod, err = prompter.Line("Preferred method", "bank"); err != nil {
				return err
			}
			valid := false
			for _, t := range entity.PaymentMethodTypes {
				if reg.PreferredMethod == t {
					valid = true
					break
				}
			}
			if valid {
				break
			}
			ui.Errorf(os.Stdout, "must be one of: %s", strings.Join(entity.PaymentMethodTypes, ", "))
		}

		// Step 4: review
		ui.Infof(os.Stdout, "Step 4/4: review")
		fmt.Printf("  username : %s\n", reg.Username)
		fmt.Printf("  email    : %s\n", reg.Email)
		if reg.CompanyName != "" {
			fmt.Printf("  company  : %s\n", reg.CompanyName)
		}
		if reg.Website != "" {
			fmt.Printf("  website  : %s\n", reg.Website)
		}
		fmt.Printf("  payout   : %s\n", reg.PreferredMethod)
		if reg.ParentCode != "" {
			fmt.Printf("  parent   : %s\n", reg.ParentCode)
		}

		ok, err := prompter.Confirm("Submit registration?")
		if err != nil {
			return err
		}
		if !ok {
			ui.Infof(os.Stdout, "cancelled, nothing was sent")
			return nil
		}

		if err := rt.client.Post(context.Background(), "/auth/register", reg, "", nil); err != nil {
			return err
		}

		ui.Successf(os.Stdout, "registration submitted, you can log in once approved")
		return nil
	},
}

func init() {
	registerCmd.Flags().String("parent", "", "Master affiliate code to register under")
	rootCmd.AddCommand(registerCmd)
}

package main

import (
	"fmt"

	"starmobiles/internal/client/store"
	"starmobiles/internal/delivery/api/dto"

	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email-or-phone>",
		Short: "Log in with an email address or a 10 digit phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.sf.Session.Login(cmd.Context(), args[0], password)
			if err := report(res.Success, res.Message); err != nil {
				return err
			}
			printIdentity(a.sf.Session.State())

			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out everywhere and forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.sf.Session.Logout(cmd.Context())
			fmt.Println("Logged out")

			return nil
		},
	}
}

func newSignupCommand(a *app) *cobra.Command {
	var in store.SignupInput
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account with an email, a phone number or both",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.sf.Session.Signup(cmd.Context(), in)

			return report(res.Success, res.Message)
		},
	}
	cmd.Flags().StringVar(&in.Name, "name", "", "Full name")
	cmd.Flags().StringVar(&in.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "10 digit mobile number")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "Password, at least 6 characters")

	return cmd
}

func newWhoamiCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			printIdentity(a.sf.Session.State())

			return nil
		},
	}
}

func newOTPCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "otp",
		Short: "Log in with a one-time code sent by SMS",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "send <phone>",
			Short: "Text a code to the phone",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				res := a.sf.Session.SendOTP(cmd.Context(), args[0])

				return report(res.Success, res.Message)
			},
		},
		&cobra.Command{
			Use:   "verify <phone> <code>",
			Short: "Log in with the code",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				res := a.sf.Session.VerifyOTP(cmd.Context(), args[0], args[1])

				return report(res.Success, res.Message)
			},
		},
	)

	return cmd
}

func newPasswordCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover or change the account password",
	}

	forgot := &cobra.Command{
		Use:   "forgot <email>",
		Short: "Email a reset code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.sf.Session.ForgotPassword(cmd.Context(), args[0])

			return report(res.Success, res.Message)
		},
	}

	var newPassword string
	reset := &cobra.Command{
		Use:   "reset <code>",
		Short: "Set a new password with the emailed code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := a.sf.Session.ResetPassword(cmd.Context(), args[0], newPassword)

			return report(res.Success, res.Message)
		},
	}
	reset.Flags().StringVar(&newPassword, "new", "", "New password")

	var current string
	change := &cobra.Command{
		Use:   "change",
		Short: "Change the password of the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.sf.Session.ChangePassword(cmd.Context(), current, newPassword)

			return report(res.Success, res.Message)
		},
	}
	change.Flags().StringVar(&current, "current", "", "Current password")
	change.Flags().StringVar(&newPassword, "new", "", "New password")

	cmd.AddCommand(forgot, reset, change)

	return cmd
}

func newProfileCommand(a *app) *cobra.Command {
	var name, phone, address string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var patch dto.UpdateProfileRequest
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("phone") {
				patch.Phone = &phone
			}
			if flags.Changed("address") {
				patch.Address = &address
			}
			if patch.Name == nil && patch.Phone == nil && patch.Address == nil {
				a.sf.Session.RefreshProfile(cmd.Context())
			} else {
				res := a.sf.Session.UpdateProfile(cmd.Context(), patch)
				if err := report(res.Success, res.Message); err != nil {
					return err
				}
			}
			printIdentity(a.sf.Session.State())

			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New display name")
	cmd.Flags().StringVar(&phone, "phone", "", "New phone number")
	cmd.Flags().StringVar(&address, "address", "", "New delivery address")

	return cmd
}

func printIdentity(state store.SessionState) {
	if state.Profile == nil {
		return
	}

	p := state.Profile
	fmt.Printf("%s <%s>\n", p.Name, firstNonEmpty(p.Email, p.Phone))
	fmt.Printf("  role:    %s\n", p.Role)
	if p.Address != "" {
		fmt.Printf("  address: %s\n", p.Address)
	}
	if state.Phase != store.PhaseConfirmedProfile {
		fmt.Println("  (profile not yet confirmed by the shop)")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmeshcher/artmarket-system/internal/api"
)

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			ident, err := a.session.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %s", errText(err))
			}

			fmt.Printf("logged in as %s (%s)\n", ident.DisplayName(), ident.Role)

			// Отложенный переход потребляется ровно один раз.
			if intent, ok := a.guard.Intents().Consume(); ok {
				fmt.Printf("resuming %s\n", intent.TargetPath)
			}
			return nil
		},
	}

	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			in := api.RegisterInput{}
			in.FirstName, _ = cmd.Flags().GetString("first-name")
			in.LastName, _ = cmd.Flags().GetString("last-name")
			in.Email, _ = cmd.Flags().GetString("email")
			in.Password, _ = cmd.Flags().GetString("password")
			in.Phone, _ = cmd.Flags().GetString("phone")

			ident, err := a.session.Register(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("registration failed: %s", errText(err))
			}

			fmt.Printf("registered and logged in as %s\n", ident.DisplayName())
			return nil
		},
	}

	cmd.Flags().String("first-name", "", "first name")
	cmd.Flags().String("last-name", "", "last name")
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password")
	cmd.Flags().String("phone", "", "phone number")
	_ = cmd.MarkFlagRequired("first-name")
	_ = cmd.MarkFlagRequired("last-name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			// Локальная сессия очищается даже при недоступном сервере.
			a.session.Logout(cmd.Context())
			fmt.Println("logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			ident := a.session.Identity()
			if ident == nil {
				fmt.Println("not logged in")
				return nil
			}

			fmt.Printf("%s <%s> role=%s\n", ident.DisplayName(), ident.Email, ident.Role)
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rc-foods/courier-client/internal/api"
)

func newLoginCmd(current func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as delivery personnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := current()
			if email == "" {
				var err error
				email, err = prompt("Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				var err error
				password, err = prompt("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := app.Auth.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", user.FullName, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

func newLogoutCmd(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := current().Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(current func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := current().Auth.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s <%s> role=%s approved=%t area=%d\n",
				user.FullName, user.Email, user.Role, user.Approved, user.AreaID)
			return nil
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

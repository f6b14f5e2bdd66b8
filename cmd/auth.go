package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/movio/movio-cli/movio"
	"github.com/movio/movio-cli/session"
)

var (
	loginUsername string
	loginPassword string

	registerUsername string
	registerPassword string
	registerEmail    string
	registerBirthday string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the movio service",
	Long:  `Authenticate against the movio service and store the session for later commands.`,
	RunE:  runLogin,
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new movio account",
	RunE:  runRegister,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently stored session",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVarP(&registerPassword, "password", "p", "", "password")
	registerCmd.Flags().StringVarP(&registerEmail, "email", "e", "", "email address")
	registerCmd.Flags().StringVarP(&registerBirthday, "birthday", "b", "", "birthday (YYYY-MM-DD)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("password")
	registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := client.Login(ctx, movio.Credentials{
		Username: loginUsername,
		Password: loginPassword,
	})
	if err != nil {
		return surface(err)
	}

	if err := session.Save(store, session.Session{
		Token:    result.Token,
		Username: result.User.Username,
	}); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", result.User.Username)
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	user, err := client.Register(ctx, movio.UserDetails{
		Username: registerUsername,
		Password: registerPassword,
		Email:    registerEmail,
		Birthday: registerBirthday,
	})
	if err != nil {
		return surface(err)
	}

	fmt.Printf("Account %s created. Run 'movio-cli login' to sign in.\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Println("Session cleared.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	current, ok := session.Current(store)
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s\n", current.Username)
	if expiresAt, ok := current.ExpiresAt(); ok {
		if current.Expired(time.Now()) {
			fmt.Printf("Session expired at %s\n", expiresAt.Format(time.RFC3339))
		} else {
			fmt.Printf("Session valid until %s\n", expiresAt.Format(time.RFC3339))
		}
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movio/movio-cli/movio"
	"github.com/movio/movio-cli/profile"
)

var (
	editUsername string
	editPassword string
	editEmail    string
	editBirthday string

	deleteYes bool
)

// profileCmd groups the profile commands
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your user profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE:  runProfileShow,
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Update profile fields",
	Long: `Update one or more profile fields. Changing the username invalidates the
stored session; you will need to log in again with the new credentials.`,
	RunE: runProfileEdit,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account",
	RunE:  runProfileDelete,
}

func init() {
	profileEditCmd.Flags().StringVar(&editUsername, "username", "", "new username")
	profileEditCmd.Flags().StringVar(&editPassword, "password", "", "new password")
	profileEditCmd.Flags().StringVar(&editEmail, "email", "", "new email address")
	profileEditCmd.Flags().StringVar(&editBirthday, "birthday", "", "new birthday (YYYY-MM-DD)")

	profileDeleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "skip confirmation prompt")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := profileState.Load(ctx); err != nil {
		return surface(err)
	}

	user := profileState.User()
	fmt.Printf("Username: %s\n", user.Username)
	fmt.Printf("Email:    %s\n", user.Email)
	if user.Birthday != "" {
		fmt.Printf("Birthday: %s\n", user.Birthday)
	}
	fmt.Printf("Favorite movies: %d\n", len(user.FavoriteMovies))
	return nil
}

func runProfileEdit(cmd *cobra.Command, args []string) error {
	patch := movio.UserPatch{
		Username: editUsername,
		Password: editPassword,
		Email:    editEmail,
		Birthday: editBirthday,
	}
	if patch == (movio.UserPatch{}) {
		return fmt.Errorf("nothing to update: pass at least one of --username, --password, --email, --birthday")
	}

	ctx := context.Background()

	if err := profileState.Load(ctx); err != nil {
		return surface(err)
	}
	if err := profileState.Edit(ctx, patch); err != nil {
		return surface(err)
	}
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var confirmer profile.Confirmer = &promptConfirmer{}
	if deleteYes {
		confirmer = &autoConfirmer{}
	}

	if err := profileState.Delete(ctx, confirmer); err != nil {
		if errors.Is(err, profile.ErrAborted) {
			fmt.Println("Deletion cancelled.")
			return nil
		}
		return surface(err)
	}
	return nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/movio/movio-cli/catalog"
)

// favoritesCmd groups the favorites commands
var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage your favorite movies",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your favorite movies",
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add MOVIE_ID",
	Short: "Add a movie to your favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove MOVIE_ID",
	Short: "Remove a movie from your favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesRemove,
}

func init() {
	favoritesCmd.AddCommand(favoritesListCmd)
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := catalogState.Refresh(ctx); err != nil {
		return surface(err)
	}

	favorites := catalogState.Favorites()
	if len(favorites) == 0 {
		fmt.Println("No favorite movies yet.")
		return nil
	}

	// Resolve titles from the snapshot fetched by the same refresh
	titles := make(map[string]string)
	for _, movie := range catalogState.Movies() {
		titles[movie.ID] = movie.Title
	}

	fmt.Printf("Found %d favorite movies:\n", len(favorites))
	for _, id := range favorites {
		if title, ok := titles[id]; ok {
			fmt.Printf("• %s (%s)\n", title, id)
		} else {
			fmt.Printf("• %s\n", id)
		}
	}
	return nil
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := catalogState.AddToFavorites(ctx, args[0]); err != nil {
		if errors.Is(err, catalog.ErrToggleInFlight) {
			return err
		}
		return surface(err)
	}
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := catalogState.RemoveFromFavorites(ctx, args[0]); err != nil {
		if errors.Is(err, catalog.ErrToggleInFlight) {
			return err
		}
		return surface(err)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/movio/movio-cli/movio"
)

var listFilter string

// moviesCmd groups the catalog read commands
var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Browse the movie catalog",
}

var moviesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all movies in the catalog",
	Long: `List the movies in the catalog, marking your favorites. An optional
filter expression narrows the list, e.g.:

  movio-cli movies list --filter 'Genre == "Thriller" and not Favorite'`,
	RunE: runMoviesList,
}

var moviesGetCmd = &cobra.Command{
	Use:   "get TITLE",
	Short: "Show a single movie by title",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesGet,
}

var moviesDirectorCmd = &cobra.Command{
	Use:   "director NAME",
	Short: "List the movies credited to a director",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesDirector,
}

var moviesGenreCmd = &cobra.Command{
	Use:   "genre NAME",
	Short: "List the movies in a genre",
	Args:  cobra.ExactArgs(1),
	RunE:  runMoviesGenre,
}

func init() {
	moviesListCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "filter expression")

	moviesCmd.AddCommand(moviesListCmd)
	moviesCmd.AddCommand(moviesGetCmd)
	moviesCmd.AddCommand(moviesDirectorCmd)
	moviesCmd.AddCommand(moviesGenreCmd)
	rootCmd.AddCommand(moviesCmd)
}

func runMoviesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if err := catalogState.Refresh(ctx); err != nil {
		return surface(err)
	}

	movies := catalogState.Movies()
	if listFilter != "" {
		var err error
		movies, err = catalogState.Search(listFilter)
		if err != nil {
			return err
		}
	}

	if len(movies) == 0 {
		fmt.Println("No movies found.")
		return nil
	}

	fmt.Printf("\nFound %d movies:\n", len(movies))
	fmt.Println(strings.Repeat("-", 80))

	for _, movie := range movies {
		fmt.Printf("• %s", movie.Title)
		if catalogState.IsFavorite(movie.ID) {
			fmt.Printf(" [FAVORITE]")
		}
		fmt.Println()
		fmt.Printf("  Genre: %s  Director: %s\n", movie.Genre.Name, movie.Director.Name)
	}

	return nil
}

func runMoviesGet(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	movie, err := client.GetMovie(ctx, args[0])
	if err != nil {
		return surface(err)
	}

	printMovie(movie)
	return nil
}

func runMoviesDirector(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	movies, err := client.GetDirector(ctx, args[0])
	if err != nil {
		return surface(err)
	}

	printMovieList(movies)
	return nil
}

func runMoviesGenre(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	movies, err := client.GetGenre(ctx, args[0])
	if err != nil {
		return surface(err)
	}

	printMovieList(movies)
	return nil
}

func printMovie(movie *movio.Movie) {
	fmt.Printf("%s\n", movie.Title)
	fmt.Println(strings.Repeat("-", len(movie.Title)))
	fmt.Printf("%s\n\n", movie.Description)
	fmt.Printf("Genre:    %s - %s\n", movie.Genre.Name, movie.Genre.Description)
	fmt.Printf("Director: %s", movie.Director.Name)
	if movie.Director.Birth != "" {
		fmt.Printf(" (b. %s)", movie.Director.Birth)
	}
	fmt.Println()
}

func printMovieList(movies []movio.Movie) {
	if len(movies) == 0 {
		fmt.Println("No movies found.")
		return
	}

	for _, movie := range movies {
		fmt.Printf("• %s (%s)\n", movie.Title, movie.Genre.Name)
	}
}

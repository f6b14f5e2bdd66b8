// Package catalog owns the in-memory movie list and the current user's
// favorite-movie ids, kept consistent with the server by refetching after
// every successful mutation. The server is the single source of truth for
// favorites membership; local state is never patched optimistically, so a
// failed call leaves the snapshot exactly as it was.
package catalog

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/movio/movio-cli/filter"
	"github.com/movio/movio-cli/movio"
)

// ErrToggleInFlight is returned when a favorite toggle is requested for a
// movie whose previous toggle has not settled yet.
var ErrToggleInFlight = errors.New("favorite toggle already in flight for this movie")

// Notifier receives transient user-visible messages
type Notifier interface {
	Notify(message string)
}

// State holds the catalog snapshot: the movie list and the favorite ids.
// The two halves are fetched independently and each completion writes only
// its own field, so concurrent completions never race on the same slice.
type State struct {
	client   *movio.Client
	notifier Notifier
	logger   zerolog.Logger

	mu        sync.Mutex
	movies    []movio.Movie
	favorites []string
	inflight  map[string]struct{}
}

// NewState creates an empty catalog state
func NewState(client *movio.Client, notifier Notifier, logger zerolog.Logger) *State {
	return &State{
		client:    client,
		notifier:  notifier,
		logger:    logger,
		movies:    []movio.Movie{},
		favorites: []string{},
		inflight:  make(map[string]struct{}),
	}
}

// Refresh fetches the movie list and the current user concurrently and
// replaces the snapshot wholesale. A failed fetch leaves the corresponding
// half of the prior snapshot unchanged.
func (s *State) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		movies, err := s.client.GetAllMovies(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.movies = movies
		s.mu.Unlock()
		return nil
	})

	g.Go(func() error {
		user, err := s.client.GetCurrentUser(ctx)
		if err != nil {
			return err
		}
		favorites := user.FavoriteMovies
		if favorites == nil {
			favorites = []string{}
		}
		s.mu.Lock()
		s.favorites = favorites
		s.mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("Catalog refresh failed")
		return err
	}

	s.mu.Lock()
	movieCount, favoriteCount := len(s.movies), len(s.favorites)
	s.mu.Unlock()

	s.logger.Debug().
		Int("movies", movieCount).
		Int("favorites", favoriteCount).
		Msg("Catalog refreshed")
	return nil
}

// Movies returns a copy of the current movie list
func (s *State) Movies() []movio.Movie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.movies)
}

// Favorites returns a copy of the current favorite ids
func (s *State) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// IsFavorite checks whether a movie id is in the favorites
func (s *State) IsFavorite(movieID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.favorites, movieID)
}

// AddToFavorites adds a movie to the favorites and refetches the snapshot so
// the favorites reflect server truth. Adding an already-favorited movie
// succeeds without duplicating the id.
func (s *State) AddToFavorites(ctx context.Context, movieID string) error {
	if err := s.beginToggle(movieID); err != nil {
		return err
	}
	defer s.endToggle(movieID)

	if _, err := s.client.AddFavorite(ctx, movieID); err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	s.notify("Movie added to favorites")
	return nil
}

// RemoveFromFavorites removes a movie from the favorites and refetches the
// snapshot
func (s *State) RemoveFromFavorites(ctx context.Context, movieID string) error {
	if err := s.beginToggle(movieID); err != nil {
		return err
	}
	defer s.endToggle(movieID)

	if _, err := s.client.RemoveFavorite(ctx, movieID); err != nil {
		return err
	}

	if err := s.Refresh(ctx); err != nil {
		return err
	}

	s.notify("Movie removed from favorites")
	return nil
}

// Search evaluates a filter expression against the current snapshot
func (s *State) Search(expression string) ([]movio.Movie, error) {
	compiled, err := filter.Compile(expression)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	movies := slices.Clone(s.movies)
	favorites := slices.Clone(s.favorites)
	s.mu.Unlock()

	var matched []movio.Movie
	for _, movie := range movies {
		ok, err := compiled.Match(filter.MovieEnv(movie, slices.Contains(favorites, movie.ID)))
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

// beginToggle marks a toggle in flight for movieID. A second toggle for the
// same id before the first settles is rejected rather than interleaved.
func (s *State) beginToggle(movieID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.inflight[movieID]; ok {
		return ErrToggleInFlight
	}
	s.inflight[movieID] = struct{}{}
	return nil
}

func (s *State) endToggle(movieID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, movieID)
}

func (s *State) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

// Package profile owns the current user's profile fields and mediates
// identity-changing edits. An edit that changes the username invalidates the
// stored session, and account deletion clears it whether or not the remote
// call succeeds.
package profile

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/movio/movio-cli/movio"
	"github.com/movio/movio-cli/session"
)

// ErrAborted is returned when the user declines the deletion confirmation
var ErrAborted = errors.New("account deletion aborted")

// Notifier receives transient user-visible messages
type Notifier interface {
	Notify(message string)
}

// Navigator transitions the consumer to the unauthenticated view
type Navigator interface {
	NavigateToWelcome()
}

// Confirmer is the yes/no gate that must be satisfied before destructive
// operations run
type Confirmer interface {
	Confirm(prompt string) bool
}

// State holds the current user's profile snapshot
type State struct {
	client    *movio.Client
	store     session.Store
	notifier  Notifier
	navigator Navigator
	logger    zerolog.Logger

	user movio.User
}

// NewState creates an empty profile state
func NewState(client *movio.Client, store session.Store, notifier Notifier, navigator Navigator, logger zerolog.Logger) *State {
	return &State{
		client:    client,
		store:     store,
		notifier:  notifier,
		navigator: navigator,
		logger:    logger,
	}
}

// Load fetches the current user's record into the snapshot
func (s *State) Load(ctx context.Context) error {
	user, err := s.client.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	s.user = *user
	return nil
}

// User returns the current profile snapshot
func (s *State) User() movio.User {
	return s.user
}

// Edit applies a profile patch. When the server echoes a different username
// than before, the stored token no longer matches the identity it was issued
// for: the session is cleared and the consumer is sent back to the
// unauthenticated view to log in again. Otherwise the local snapshot adopts
// the returned fields.
func (s *State) Edit(ctx context.Context, patch movio.UserPatch) error {
	previous := s.user.Username

	updated, err := s.client.UpdateUser(ctx, patch)
	if err != nil {
		return err
	}

	if updated.Username != previous {
		s.logger.Info().
			Str("old", previous).
			Str("new", updated.Username).
			Msg("Username changed, session invalidated")

		if err := s.store.Clear(); err != nil {
			s.logger.Error().Err(err).Msg("Failed to clear session store")
		}
		s.user = movio.User{}
		s.notify("User profile successfully updated. Please login using your new credentials")
		s.navigator.NavigateToWelcome()
		return nil
	}

	s.user = *updated
	s.notify("User profile successfully updated")
	return nil
}

// Delete removes the account after explicit confirmation. The consumer is
// navigated away optimistically and the session is cleared once the call
// settles, success or failure: the user confirmed leaving, so a failed
// deletion still logs them out locally.
func (s *State) Delete(ctx context.Context, confirmer Confirmer) error {
	if !confirmer.Confirm("All your data will be lost - this cannot be undone!") {
		return ErrAborted
	}

	s.navigator.NavigateToWelcome()
	s.notify("You have successfully deleted your account - we are sorry to see you go!")

	err := s.client.DeleteUser(ctx)

	if clearErr := s.store.Clear(); clearErr != nil {
		s.logger.Error().Err(clearErr).Msg("Failed to clear session store")
	}
	s.user = movio.User{}

	if err != nil {
		s.logger.Error().Err(err).Msg("Account deletion request failed, local session cleared anyway")
		return err
	}
	return nil
}

func (s *State) notify(message string) {
	if s.notifier != nil {
		s.notifier.Notify(message)
	}
}

package movio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/movio/movio-cli/session"
)

// Client wraps the movio HTTP API. Credentials are read from the session
// store at call time, never cached on the client, so a login or logout
// between calls is immediately visible.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new movio client
func NewClient(baseURL string, store session.Store, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("movio URL is required")
	}
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// doRequest performs an HTTP request, attaching the bearer token when authed.
// Failures are classified: *NetworkError when no response was received,
// *APIError for a non-2xx status.
func (c *Client) doRequest(ctx context.Context, method, path string, payload any, authed bool) ([]byte, error) {
	requestURL := c.baseURL + path

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, ok := c.store.Get(session.KeyToken)
		if !ok || token == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making movio API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", requestURL).Msg("Request never reached the server")
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error().Err(err).Str("url", requestURL).Msg("Failed to read response body")
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("url", requestURL).
			Str("body", string(body)).
			Msg("movio API returned an error status")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// decode unmarshals a response body into v. An absent or empty body is
// normalized to an empty record: v is left at its zero value.
func decode(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// username reads the session username for user-scoped endpoints
func (c *Client) username() (string, error) {
	username, ok := c.store.Get(session.KeyUser)
	if !ok || username == "" {
		return "", ErrNotAuthenticated
	}
	return username, nil
}

// Register creates a new user account. No authentication required.
func (c *Client) Register(ctx context.Context, details UserDetails) (*User, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/users", details, false)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates the user and returns the issued token together with
// the user record. No authentication required.
func (c *Client) Login(ctx context.Context, credentials Credentials) (*LoginResponse, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/login", credentials, false)
	if err != nil {
		return nil, err
	}

	var result LoginResponse
	if err := decode(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAllMovies retrieves the full movie catalog
func (c *Client) GetAllMovies(ctx context.Context) ([]Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/movies", nil, true)
	if err != nil {
		return nil, err
	}

	var movies []Movie
	if err := decode(body, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

// GetMovie retrieves a single movie by title
func (c *Client) GetMovie(ctx context.Context, title string) (*Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/movies/"+url.PathEscape(title), nil, true)
	if err != nil {
		return nil, err
	}

	var movie Movie
	if err := decode(body, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetDirector retrieves the movies credited to a director
func (c *Client) GetDirector(ctx context.Context, name string) ([]Movie, error) {
	return c.getMovieSlice(ctx, "/movies/directors/"+url.PathEscape(name))
}

// GetGenre retrieves the movies in a genre
func (c *Client) GetGenre(ctx context.Context, name string) ([]Movie, error) {
	return c.getMovieSlice(ctx, "/movies/genres/"+url.PathEscape(name))
}

func (c *Client) getMovieSlice(ctx context.Context, path string) ([]Movie, error) {
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}

	var movies []Movie
	if err := decode(body, &movies); err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []Movie{}
	}
	return movies, nil
}

// GetCurrentUser retrieves the record for the session username. It tries the
// direct single-user endpoint first and falls back to scanning the user
// collection when the backend does not expose one. ErrNotFound is returned
// when no record matches the session username.
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	username, err := c.username()
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/users/"+url.PathEscape(username), nil, true)
	if err == nil {
		var user User
		if err := decode(body, &user); err != nil {
			return nil, err
		}
		if user.Username != "" {
			return &user, nil
		}
	} else {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || (apiErr.StatusCode != 404 && apiErr.StatusCode != 405) {
			return nil, err
		}
		c.logger.Debug().
			Int("status", apiErr.StatusCode).
			Msg("Single-user endpoint unavailable, scanning user collection")
	}

	body, err = c.doRequest(ctx, http.MethodGet, "/users", nil, true)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decode(body, &users); err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}

	return nil, fmt.Errorf("%w: user %s", ErrNotFound, username)
}

// GetFavoriteMovie retrieves a single movie from the user's favorites
func (c *Client) GetFavoriteMovie(ctx context.Context, movieID string) (*Movie, error) {
	username, err := c.username()
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/%s/movies/%s", url.PathEscape(username), url.PathEscape(movieID))
	body, err := c.doRequest(ctx, http.MethodGet, path, nil, true)
	if err != nil {
		return nil, err
	}

	var movie Movie
	if err := decode(body, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// AddFavorite adds a movie to the user's favorites and returns the updated
// user record. Adding an already-favorited id is not an error and does not
// duplicate the id; the server keeps set semantics.
func (c *Client) AddFavorite(ctx context.Context, movieID string) (*User, error) {
	username, err := c.username()
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/%s/movies/%s", url.PathEscape(username), url.PathEscape(movieID))
	body, err := c.doRequest(ctx, http.MethodPost, path, favoriteRequest{FavoriteMovie: movieID}, true)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RemoveFavorite removes a movie from the user's favorites and returns the
// updated user record
func (c *Client) RemoveFavorite(ctx context.Context, movieID string) (*User, error) {
	username, err := c.username()
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/users/%s/movies/%s", url.PathEscape(username), url.PathEscape(movieID))
	body, err := c.doRequest(ctx, http.MethodDelete, path, nil, true)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial or full replacement of the user's profile
// fields and returns the updated record
func (c *Client) UpdateUser(ctx context.Context, patch UserPatch) (*User, error) {
	username, err := c.username()
	if err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPut, "/users/"+url.PathEscape(username), patch, true)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decode(body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes the current user's account
func (c *Client) DeleteUser(ctx context.Context) error {
	username, err := c.username()
	if err != nil {
		return err
	}

	_, err = c.doRequest(ctx, http.MethodDelete, "/users/"+url.PathEscape(username), nil, true)
	return err
}

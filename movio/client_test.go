package movio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movio/movio-cli/session"
)

// newTestClient builds a client against server with a stored session
func newTestClient(t *testing.T, server *httptest.Server) (*Client, *session.MemStore) {
	t.Helper()

	store := session.NewMemStore()
	require.NoError(t, session.Save(store, session.Session{Token: "t1", Username: "alice"}))

	client, err := NewClient(server.URL, store, zerolog.Nop())
	require.NoError(t, err)
	return client, store
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()
	store := session.NewMemStore()

	tests := []struct {
		name    string
		baseURL string
		store   session.Store
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:8080",
			store:   store,
			wantErr: false,
		},
		{
			name:    "missing URL",
			baseURL: "",
			store:   store,
			wantErr: true,
			errMsg:  "URL is required",
		},
		{
			name:    "missing store",
			baseURL: "http://localhost:8080",
			store:   nil,
			wantErr: true,
			errMsg:  "store is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, tt.store, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client, err := NewClient("http://localhost:8080/", session.NewMemStore(), zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", client.baseURL)
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var credentials Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&credentials))
		assert.Equal(t, "alice", credentials.Username)
		assert.Equal(t, "pw", credentials.Password)

		json.NewEncoder(w).Encode(LoginResponse{
			Token: "t1",
			User:  User{Username: "alice", Email: "alice@example.com"},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, session.NewMemStore(), zerolog.Nop())
	require.NoError(t, err)

	result, err := client.Login(context.Background(), Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "t1", result.Token)
	assert.Equal(t, "alice", result.User.Username)
}

func TestGetAllMovies(t *testing.T) {
	t.Run("attaches bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movies", r.URL.Path)
			assert.Equal(t, "Bearer t1", r.Header.Get("Authorization"))

			json.NewEncoder(w).Encode([]Movie{
				{ID: "m1", Title: "Alien", Genre: Genre{Name: "Horror"}},
				{ID: "m2", Title: "Heat", Genre: Genre{Name: "Thriller"}},
			})
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		movies, err := client.GetAllMovies(context.Background())
		require.NoError(t, err)
		require.Len(t, movies, 2)
		assert.Equal(t, "Alien", movies[0].Title)
	})

	t.Run("missing session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("request should not reach the server without a token")
		}))
		defer server.Close()

		client, err := NewClient(server.URL, session.NewMemStore(), zerolog.Nop())
		require.NoError(t, err)

		_, err = client.GetAllMovies(context.Background())
		assert.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("unauthorized response is classified", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "invalid token", http.StatusUnauthorized)
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		_, err := client.GetAllMovies(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 401, apiErr.StatusCode)
		assert.True(t, apiErr.IsUnauthorized())
		assert.Contains(t, apiErr.Body, "invalid token")
	})

	t.Run("empty body normalizes to empty list", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		movies, err := client.GetAllMovies(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, movies)
		assert.Empty(t, movies)
	})
}

func TestGetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movies/Alien":
			json.NewEncoder(w).Encode(Movie{ID: "m1", Title: "Alien"})
		default:
			http.Error(w, "movie not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	movie, err := client.GetMovie(context.Background(), "Alien")
	require.NoError(t, err)
	assert.Equal(t, "m1", movie.ID)

	_, err = client.GetMovie(context.Background(), "Missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestGetDirectorAndGenre(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/movies/directors/Ridley%20Scott", "/movies/directors/Ridley Scott":
			json.NewEncoder(w).Encode([]Movie{{ID: "m1", Title: "Alien"}})
		case "/movies/genres/Horror":
			json.NewEncoder(w).Encode([]Movie{{ID: "m1", Title: "Alien"}})
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	byDirector, err := client.GetDirector(context.Background(), "Ridley Scott")
	require.NoError(t, err)
	require.Len(t, byDirector, 1)

	byGenre, err := client.GetGenre(context.Background(), "Horror")
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
}

func TestGetCurrentUser(t *testing.T) {
	t.Run("direct lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/alice", r.URL.Path)
			json.NewEncoder(w).Encode(User{Username: "alice", FavoriteMovies: []string{"m1"}})
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		user, err := client.GetCurrentUser(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []string{"m1"}, user.FavoriteMovies)
	})

	t.Run("falls back to collection scan", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/users/alice":
				http.Error(w, "not found", http.StatusNotFound)
			case "/users":
				json.NewEncoder(w).Encode([]User{
					{Username: "bob"},
					{Username: "alice", FavoriteMovies: []string{"m1", "m2"}},
				})
			default:
				t.Fatalf("unexpected path %s", r.URL.Path)
			}
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		user, err := client.GetCurrentUser(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, []string{"m1", "m2"}, user.FavoriteMovies)
	})

	t.Run("not found in collection", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/users/alice":
				http.Error(w, "not found", http.StatusNotFound)
			case "/users":
				json.NewEncoder(w).Encode([]User{{Username: "bob"}})
			}
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		_, err := client.GetCurrentUser(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("server error is not masked", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		client, _ := newTestClient(t, server)

		_, err := client.GetCurrentUser(context.Background())
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 500, apiErr.StatusCode)
	})
}

func TestGetFavoriteMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/alice/movies/m1", r.URL.Path)

		json.NewEncoder(w).Encode(Movie{ID: "m1", Title: "Alien"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	movie, err := client.GetFavoriteMovie(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Alien", movie.Title)
}

func TestAddFavorite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/alice/movies/m1", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "m1", body["FavoriteMovie"])

		json.NewEncoder(w).Encode(User{Username: "alice", FavoriteMovies: []string{"m1"}})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	user, err := client.AddFavorite(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1"}, user.FavoriteMovies)
}

func TestRemoveFavorite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/alice/movies/m1", r.URL.Path)

		json.NewEncoder(w).Encode(User{Username: "alice", FavoriteMovies: []string{}})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	user, err := client.RemoveFavorite(context.Background(), "m1")
	require.NoError(t, err)
	assert.Empty(t, user.FavoriteMovies)
}

func TestUpdateUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/users/alice", r.URL.Path)

		var patch UserPatch
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patch))
		assert.Equal(t, "new@example.com", patch.Email)
		assert.Empty(t, patch.Username)

		json.NewEncoder(w).Encode(User{Username: "alice", Email: patch.Email})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)

	user, err := client.UpdateUser(context.Background(), UserPatch{Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestDeleteUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/users/alice", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, _ := newTestClient(t, server)
	require.NoError(t, client.DeleteUser(context.Background()))
}

func TestNetworkErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	client, _ := newTestClient(t, server)

	_, err := client.GetAllMovies(context.Background())
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.NotNil(t, errors.Unwrap(netErr))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))

	generic := UserMessage(&APIError{StatusCode: 500, Body: "boom"})
	assert.Equal(t, generic, UserMessage(&NetworkError{Err: errors.New("refused")}))
	assert.Equal(t, generic, UserMessage(ErrNotFound))
	assert.NotEmpty(t, generic)
}

func TestAPIError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &APIError{StatusCode: 404, Body: "movie not found"}
		assert.Equal(t, "movio API error: status 404: movie not found", err.Error())
	})

	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, (&APIError{StatusCode: 404}).IsNotFound())
		assert.False(t, (&APIError{StatusCode: 500}).IsNotFound())
	})

	t.Run("IsUnauthorized", func(t *testing.T) {
		tests := []struct {
			code     int
			expected bool
		}{
			{401, true},
			{403, true},
			{404, false},
			{500, false},
		}

		for _, tt := range tests {
			err := &APIError{StatusCode: tt.code}
			assert.Equal(t, tt.expected, err.IsUnauthorized())
		}
	})
}

func TestUserHasFavorite(t *testing.T) {
	user := User{FavoriteMovies: []string{"m1", "m2"}}
	assert.True(t, user.HasFavorite("m1"))
	assert.False(t, user.HasFavorite("m3"))
}

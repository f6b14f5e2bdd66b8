package movio

// Genre describes a movie genre as the movio service models it
type Genre struct {
	Name        string `json:"Name"`
	Description string `json:"Description"`
}

// Director describes a movie director
type Director struct {
	Name  string `json:"Name"`
	Bio   string `json:"Bio"`
	Birth string `json:"Birth,omitempty"`
	Death string `json:"Death,omitempty"`
}

// Movie is an immutable snapshot of a catalog record. The client never
// mutates a Movie; the server is the source of truth.
type Movie struct {
	ID          string   `json:"_id"`
	Title       string   `json:"Title"`
	Description string   `json:"Description"`
	Genre       Genre    `json:"Genre"`
	Director    Director `json:"Director"`
	ImagePath   string   `json:"ImagePath,omitempty"`
	Featured    bool     `json:"Featured,omitempty"`
}

// User is the client's cached copy of a server-side user record
type User struct {
	ID             string   `json:"_id,omitempty"`
	Username       string   `json:"Username"`
	Password       string   `json:"Password,omitempty"`
	Email          string   `json:"Email,omitempty"`
	Birthday       string   `json:"Birthday,omitempty"`
	FavoriteMovies []string `json:"FavoriteMovies"`
}

// HasFavorite checks membership of a movie id in the user's favorites
func (u *User) HasFavorite(movieID string) bool {
	for _, id := range u.FavoriteMovies {
		if id == movieID {
			return true
		}
	}
	return false
}

// Credentials are the login inputs
type Credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// UserDetails are the registration inputs
type UserDetails struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Email    string `json:"Email"`
	Birthday string `json:"Birthday,omitempty"`
}

// UserPatch is a partial or full replacement of profile fields. Empty fields
// are omitted from the request body.
type UserPatch struct {
	Username string `json:"Username,omitempty"`
	Password string `json:"Password,omitempty"`
	Email    string `json:"Email,omitempty"`
	Birthday string `json:"Birthday,omitempty"`
}

// LoginResponse is the payload returned by a successful login
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// favoriteRequest is the body the service expects when adding a favorite
type favoriteRequest struct {
	FavoriteMovie string `json:"FavoriteMovie"`
}

package session

// Keys used in the credential store.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Store is an opaque string key-value store for credentials. Implementations
// must make a Clear immediately visible to subsequent Gets.
type Store interface {
	// Get returns the value for key and whether it is present.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key, value string) error

	// Clear removes all stored values.
	Clear() error
}

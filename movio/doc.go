// Package movio provides a client for the movio movie catalog API.
//
// The client wraps every remote operation behind a uniform request/response/
// error contract: requests attach the bearer token read from the session
// store at call time, response bodies are normalized (an absent or empty body
// decodes to an empty record, never nil), and failures are classified.
//
// # Usage
//
// Create a client with the service URL and a session store:
//
//	store, err := session.NewFileStore(path)
//	if err != nil {
//		log.Fatal(err)
//	}
//	client, err := movio.NewClient("https://movio.onrender.com", store, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	result, err := client.Login(ctx, movio.Credentials{Username: "alice", Password: "pw"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	session.Save(store, session.Session{Token: result.Token, Username: result.User.Username})
//
//	movies, err := client.GetAllMovies(ctx)
//
// # Error Handling
//
// Failures fall into three classes:
//
//   - *NetworkError: the request never produced a response
//   - *APIError: the server answered with a non-2xx status; carries the
//     status code and body, with IsNotFound/IsUnauthorized helpers
//   - ErrNotFound: an expected record was absent from a successful
//     collection response
//
// The client never retries. Every failure is logged with its original detail
// and returned typed so callers can handle it programmatically; UserMessage
// maps any failure to the single generic user-facing string.
package movio

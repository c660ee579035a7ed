// Package spotify is a client for the Spotify Web API.
//
// It supports the three OAuth2 authorization flows the API offers to
// server-side apps: the authorization code flow, the authorization code flow
// with PKCE, and the client credentials flow. Authentication is enforced at
// the type level: the [Authenticator] returned by [NewAuthCodeFlow] or
// [NewPKCEFlow] exposes no endpoint operations, and only its Authenticate
// method hands out a [*Client].
//
//	auth, authURL, err := spotify.NewAuthCodeFlow(spotify.Config{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    RedirectURI:  "http://127.0.0.1:8888/callback",
//	    Scopes:       []string{"user-read-private", "playlist-read-private"},
//	    AutoRefresh:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Redirect the user to authURL. Your redirect handler receives the
//	// code and state query parameters.
//	client, err := auth.Authenticate(ctx, code, state)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	album, err := client.Album("4aawyAB9vmqN3uQ7FjRGTy").Market("SE").Get(ctx)
//
// Endpoint methods return request builders: optional parameters are set with
// chained setters, and a terminal Get or Send call issues the request.
// Numeric limits are clamped to the API's documented bounds when set.
//
// With AutoRefresh enabled the client transparently exchanges the refresh
// token for a new access token when the current one expires, serializing
// concurrent refreshes. With it disabled, requests on an expired token fail
// with [ErrTokenExpired] before any network I/O. Client credentials tokens
// cannot be refreshed; see [ErrRefreshUnavailable].
package spotify

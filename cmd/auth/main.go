// Package main provides the tool that obtains a Spotify refresh token for the dashboard.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"github.com/osa030/dashboard/internal/infra/logger"
)

var (
	app          = kingpin.New("dashboard-auth", "Obtain a Spotify refresh token for the dashboard")
	clientID     = app.Flag("client-id", "Spotify Client ID").Envar("SPOTIFY_CLIENT_ID").Required().String()
	clientSecret = app.Flag("client-secret", "Spotify Client Secret").Envar("SPOTIFY_CLIENT_SECRET").Required().String()
	port         = app.Flag("port", "Callback server port").Default("8888").Int()
	timeout      = app.Flag("timeout", "How long to wait for the browser callback").Default("5m").Duration()
)

// scopes are the read-only permissions the dashboard routes need.
var scopes = []string{
	spotifyauth.ScopeUserReadCurrentlyPlaying,
	spotifyauth.ScopeUserReadPlaybackState,
	spotifyauth.ScopeUserReadRecentlyPlayed,
	spotifyauth.ScopeUserTopRead,
}

// callback completes the authorization code exchange.
type callback struct {
	auth  *spotifyauth.Authenticator
	state string
	token chan *oauth2.Token
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if err := logger.Init(logger.Config{Output: "stderr", Level: "info"}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", *port)
	cb := &callback{
		auth: spotifyauth.New(
			spotifyauth.WithRedirectURL(redirectURI),
			spotifyauth.WithClientID(*clientID),
			spotifyauth.WithClientSecret(*clientSecret),
			spotifyauth.WithScopes(scopes...),
		),
		state: uuid.NewString(),
		token: make(chan *oauth2.Token, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cb.complete)
	server := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", *port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("Failed to start callback server")
		}
	}()

	fmt.Println("Please visit the following URL to authorize the dashboard:")
	fmt.Println("")
	fmt.Println(cb.auth.AuthURL(cb.state))
	fmt.Println("")
	zlog.Info().Msgf("Waiting for authorization on %s", redirectURI)

	var token *oauth2.Token
	select {
	case token = <-cb.token:
	case <-time.After(*timeout):
		zlog.Fatal().Msgf("No callback received within %s", *timeout)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		zlog.Warn().Err(err).Msg("Failed to shutdown callback server")
	}

	printToken(token)
}

func (c *callback) complete(w http.ResponseWriter, r *http.Request) {
	if st := r.FormValue("state"); st != c.state {
		http.Error(w, "State mismatch", http.StatusForbidden)
		zlog.Warn().Msgf("State mismatch: %s != %s", st, c.state)
		return
	}

	token, err := c.auth.Token(r.Context(), c.state, r)
	if err != nil {
		http.Error(w, "Failed to get token", http.StatusForbidden)
		zlog.Error().Err(err).Msg("Failed to exchange authorization code")
		return
	}

	fmt.Fprintln(w, "Authorization complete. You can close this window and return to the terminal.")

	select {
	case c.token <- token:
	default:
	}
}

func printToken(token *oauth2.Token) {
	fmt.Println("")
	fmt.Println("=== Authorization Successful ===")
	fmt.Println("")
	fmt.Println("Add this to config.dev.toml or config.prod.toml:")
	fmt.Println("")
	fmt.Println("[spotify]")
	fmt.Printf("refresh_token = %q\n", token.RefreshToken)
	fmt.Println("")
	fmt.Println("Or set as environment variable:")
	fmt.Printf("export SPOTIFY_REFRESH_TOKEN=%q\n", token.RefreshToken)
}

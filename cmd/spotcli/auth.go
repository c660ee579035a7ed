package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/verdeloop/spotify"
	"github.com/verdeloop/spotify/internal/callback"
	"github.com/verdeloop/spotify/internal/config"
	"github.com/verdeloop/spotify/internal/format"
)

// Setup creates the config file and initializes the token store.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := config.CreateConfigFile(configPath); err != nil {
		r.writePlain("%s %v\n", format.Warning("⚠"), err)
	} else {
		r.writePlain("%s Config written to %s\n", format.Success("✓"), configPath)
		r.writePlain("%s\n", format.Help("Fill in your client_id from https://developer.spotify.com/dashboard"))
	}

	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	r.writePlain("%s Token store initialized at %s\n", format.Success("✓"), r.config.Database.Path)
	return nil
}

// AuthLogin runs the OAuth2 authorization flow and saves the token.
//
// Starts a loopback server, opens the browser for user authorization, and
// exchanges the authorization code for tokens.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	creds := r.config.Credentials
	if creds.ClientID == "" {
		return fmt.Errorf("client_id must be set in the config file")
	}

	authCfg := spotify.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURI:  r.config.RedirectURI(),
		Scopes:       creds.Scopes,
		AutoRefresh:  true,
		Logger:       r.logger,
	}

	var (
		authn   *spotify.Authenticator
		authURL string
		err     error
	)
	if creds.UsePKCE {
		authn, authURL, err = spotify.NewPKCEFlow(authCfg)
	} else {
		authn, authURL, err = spotify.NewAuthCodeFlow(authCfg)
	}
	if err != nil {
		return fmt.Errorf("failed to start authorization: %w", err)
	}

	client, err := r.doOAuth(ctx, authn, authURL, cmd.Bool("no-browser"))
	if err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.SaveToken(client.Token()); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	user, err := client.CurrentUserProfile(ctx)
	if err != nil {
		r.logger.Warnf("logged in but failed to fetch profile: %v", err)
		r.writePlain("%s Authorization successful\n", format.Success("✓"))
		return nil
	}

	r.writePlain("%s Logged in as %s\n", format.Success("✓"), user.DisplayName)
	return nil
}

// doOAuth drives the browser round trip: serve the loopback callback, open
// the authorization URL, and exchange the captured code.
func (r *Runner) doOAuth(ctx context.Context, authn *spotify.Authenticator, authURL string, noBrowser bool) (*spotify.Client, error) {
	srv, err := callback.New(r.config.Callback.Host, r.config.Callback.Port)
	if err != nil {
		return nil, err
	}

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	if noBrowser {
		r.writePlain("Open this URL in your browser:\n%s\n\n", authURL)
	} else {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
		if err := openBrowser(authURL); err != nil {
			r.logger.Warnf("failed to open browser automatically: %v", err)
			r.writePlain("%s Could not open browser automatically.\n", format.Warning("⚠"))
			r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
		}
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result callback.Result
	select {
	case result = <-srv.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("callback server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("authorization timed out after 2 minutes")
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		r.logger.Warnf("error shutting down callback server: %v", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	client, err := authn.Authenticate(ctx, result.Code, result.State)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}

	return client, nil
}

// AuthStatus shows the saved token and the logged-in user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	return r.withClient(cmd, func(client *spotify.Client) error {
		token := client.Token()

		user, err := client.CurrentUserProfile(ctx)
		if err != nil {
			return fmt.Errorf("saved token is not usable: %w", err)
		}

		r.writePlain("%s Logged in as %s (%s)\n", format.Success("✓"), user.DisplayName, user.ID)
		if token.Expired() {
			r.writePlain("Token: expired, will refresh on use\n")
		} else {
			r.writePlain("Token: valid until %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
		}
		if len(token.Scopes) > 0 {
			r.writePlain("Scopes: %v\n", token.Scopes)
		}
		return nil
	})
}

// AuthLogout deletes the saved token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd); err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteToken(); err != nil {
		return err
	}

	r.writePlain("%s Logged out\n", format.Success("✓"))
	return nil
}

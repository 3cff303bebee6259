package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotx/internal/repositories"
	"github.com/desertthunder/spotx/internal/shared"
	"github.com/urfave/cli/v3"
)

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrTokenNotFound)
}

// tokenStatus is the JSON shape of `token show`.
type tokenStatus struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	Valid     bool      `json:"valid"`
	AutoFetch bool      `json:"auto_fetch"`
}

// TokenShow prints the current credential, masked. It never triggers a refresh.
func (r *Runner) TokenShow(ctx context.Context, cmd *cli.Command) error {
	client, err := r.ensureClient()
	if err != nil {
		return err
	}

	cred := client.Credential()
	status := tokenStatus{
		Token:     shared.MaskToken(cred.AccessToken),
		ExpiresAt: cred.Expiry,
		Valid:     client.Tokens().Valid(),
		AutoFetch: r.config.Client.AutoFetch(),
	}
	if cred.AccessToken == "" {
		status.Token = ""
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	if status.Token == "" {
		r.writePlain("No token yet. One is fetched on the first lookup.\n")
		return nil
	}

	r.writePlain("Token:   %s\n", status.Token)
	if !cred.Expiry.IsZero() {
		r.writePlain("Expires: %s (%s)\n", cred.Expiry.Local().Format(time.RFC1123), expiresIn(cred.Expiry, r.now()))
	}
	r.writePlain("Valid:   %t\n", status.Valid)
	return nil
}

// TokenRefresh fetches a new token regardless of the current expiry.
func (r *Runner) TokenRefresh(ctx context.Context, cmd *cli.Command) error {
	client, err := r.ensureClient()
	if err != nil {
		return err
	}

	if err := client.Tokens().Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	cred := client.Credential()
	r.writePlain("✓ Token refreshed: %s\n", shared.MaskToken(cred.AccessToken))
	r.writePlain("Expires in %s\n", expiresIn(cred.Expiry, r.now()))
	if !r.config.Store.PersistToken {
		r.writePlainln("Set [store] persist_token = true to reuse it across runs.")
	}
	return nil
}

// TokenClear soft-deletes every stored token.
func (r *Runner) TokenClear(ctx context.Context, cmd *cli.Command) error {
	if !r.config.Store.PersistToken {
		return fmt.Errorf("%w: enable [store] persist_token first", shared.ErrStoreDisabled)
	}

	store, err := r.tokenStore()
	if err != nil {
		return err
	}

	n, err := store.DeleteAll()
	if err != nil {
		return err
	}

	r.writePlain("✓ Cleared %d stored token(s)\n", n)
	return nil
}

func expiresIn(expiry, now time.Time) string {
	d := expiry.Sub(now)
	if d <= 0 {
		return "expired"
	}
	return d.Truncate(time.Second).String()
}

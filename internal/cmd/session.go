package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvcrn/wework-cli/internal/api"
	"github.com/dvcrn/wework-cli/internal/auth/wework"
	"github.com/dvcrn/wework-cli/internal/tui"
	log "github.com/sirupsen/logrus"
)

var errMissingCredentials = errors.New("username and password are required. Set WEWORK_USERNAME and WEWORK_PASSWORD environment variables or use --username and --password flags")

// credentials resolves the login from flags, then the environment, then an
// interactive prompt when stdin is a terminal.
func (a *app) credentials() (wework.Credentials, error) {
	creds := wework.Credentials{
		Username: strings.TrimSpace(a.username),
		Password: a.password,
	}
	if creds.Username == "" {
		if v, ok := a.lookupEnv("WEWORK_USERNAME"); ok {
			creds.Username = strings.TrimSpace(v)
		}
	}
	if creds.Password == "" {
		if v, ok := a.lookupEnv("WEWORK_PASSWORD"); ok {
			creds.Password = v
		}
	}
	if creds.Username != "" && creds.Password != "" {
		return creds, nil
	}

	if !tui.IsTerminal(a.in) {
		return wework.Credentials{}, errMissingCredentials
	}
	if creds.Username == "" {
		username, err := tui.PromptLine(a.in, a.errOut, "WeWork username: ")
		if err != nil {
			return wework.Credentials{}, err
		}
		creds.Username = username
	}
	if creds.Password == "" {
		password, err := tui.PromptPassword(a.in, a.errOut, "WeWork password: ")
		if err != nil {
			if errors.Is(err, tui.ErrNotTerminal) {
				return wework.Credentials{}, errMissingCredentials
			}
			return wework.Credentials{}, err
		}
		creds.Password = password
	}
	if creds.Username == "" || creds.Password == "" {
		return wework.Credentials{}, errMissingCredentials
	}
	return creds, nil
}

// login runs the browser login flow and returns a client bound to the
// resulting session token.
func (a *app) login(ctx context.Context) (*api.Client, error) {
	creds, err := a.credentials()
	if err != nil {
		return nil, err
	}

	authenticator := wework.NewAuthenticator(a.cfg)
	var result *wework.LoginResult
	err = a.spin(ctx, "Signing in to WeWork", func(ctx context.Context) error {
		var errLogin error
		result, errLogin = authenticator.AuthenticateWithRetry(ctx, creds, a.cfg.MaxRetries)
		return errLogin
	})
	if err != nil {
		return nil, err
	}
	log.WithField("user", creds.Username).Debug("signed in")

	primary, secondary := result.TokenPair()
	if primary == "" {
		return nil, fmt.Errorf("login succeeded but no session token was returned")
	}
	return api.NewClient(a.cfg, api.Tokens{
		Primary:   primary,
		Secondary: secondary,
		IDToken:   result.IDToken,
	}), nil
}

// Package wework implements the WeWork members login: a literal replay of the
// Auth0 Authorization Code + PKCE flow the members web app performs in a
// browser, followed by the members backend login that yields the bearer tokens
// used by the API client.
package wework

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dvcrn/wework-cli/internal/config"
	"github.com/dvcrn/wework-cli/internal/logging"
	"github.com/dvcrn/wework-cli/internal/misc"
	log "github.com/sirupsen/logrus"
)

// Credentials are the member's username and password. They are never persisted or logged.
type Credentials struct {
	Username string
	Password string
}

// String masks the password so Credentials can be printed safely.
func (c Credentials) String() string {
	return fmt.Sprintf("{Username:%s Password:[REDACTED]}", c.Username)
}

// GoString masks the password for %#v.
func (c Credentials) GoString() string { return c.String() }

// TokenBundle is the identity provider token response. It only lives for the
// duration of one Authenticate call.
type TokenBundle struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	TokenType    string `json:"token_type"`
}

// LoginResult is the members backend login response. Raw holds the response
// verbatim and is what MarshalJSON emits.
type LoginResult struct {
	Token            string          `json:"token"`
	IDToken          string          `json:"idToken"`
	UseRefreshTokens bool            `json:"useRefreshTokens,omitempty"`
	RefreshToken     string          `json:"refreshToken,omitempty"`
	A0Token          string          `json:"a0token,omitempty"`
	SessionID        string          `json:"sessionId,omitempty"`
	Username         string          `json:"username,omitempty"`
	A0RToken         string          `json:"a0rtoken,omitempty"`
	A0Tokens         json.RawMessage `json:"a0Tokens,omitempty"`
	AccessToken      string          `json:"accessToken,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// MarshalJSON returns the backend response unchanged.
func (r *LoginResult) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	type plain LoginResult
	return json.Marshal((*plain)(r))
}

// TokenPair returns the primary bearer token and the secondary token sent in
// the WeWorkAuth header. The members web app sends the session token in both.
func (r *LoginResult) TokenPair() (primary, secondary string) {
	return r.Token, r.Token
}

// Endpoints locates the members backend and the identity provider.
type Endpoints struct {
	// MembersBaseURL is the members web application origin.
	MembersBaseURL string
	// IdentityScheme is the scheme used for https://{domain} identity URLs.
	IdentityScheme string
}

func (e Endpoints) withDefaults() Endpoints {
	if strings.TrimSpace(e.MembersBaseURL) == "" {
		e.MembersBaseURL = defaultMembersBaseURL
	}
	e.MembersBaseURL = strings.TrimRight(strings.TrimSpace(e.MembersBaseURL), "/")
	if e.IdentityScheme == "" {
		e.IdentityScheme = "https"
	}
	return e
}

// Authenticator runs login attempts. It holds no per-attempt state and can be
// shared; each attempt builds its own Session.
type Authenticator struct {
	cfg          *config.Config
	endpoints    Endpoints
	random       io.Reader
	transport    http.RoundTripper
	maxRedirects int
	retryBackoff time.Duration
}

// Option customizes an Authenticator.
type Option func(*Authenticator)

// WithRandom sets the randomness source for PKCE and nonce generation.
func WithRandom(r io.Reader) Option {
	return func(a *Authenticator) { a.random = r }
}

// WithTransport replaces the HTTP transport of every attempt's Session.
func WithTransport(rt http.RoundTripper) Option {
	return func(a *Authenticator) { a.transport = rt }
}

// WithEndpoints overrides the members and identity locations.
func WithEndpoints(e Endpoints) Option {
	return func(a *Authenticator) { a.endpoints = e.withDefaults() }
}

// WithMaxRedirects bounds the redirect chase after the form relay.
func WithMaxRedirects(n int) Option {
	return func(a *Authenticator) {
		if n > 0 {
			a.maxRedirects = n
		}
	}
}

// WithRetryBackoff sets the base delay between retried attempts.
func WithRetryBackoff(d time.Duration) Option {
	return func(a *Authenticator) { a.retryBackoff = d }
}

// NewAuthenticator constructs an Authenticator from cfg.
func NewAuthenticator(cfg *config.Config, opts ...Option) *Authenticator {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.ApplyDefaults()
	}
	a := &Authenticator{
		cfg:          cfg,
		endpoints:    Endpoints{MembersBaseURL: cfg.MembersBaseURL}.withDefaults(),
		maxRedirects: cfg.MaxRedirects,
		retryBackoff: time.Second,
	}
	if a.maxRedirects <= 0 {
		a.maxRedirects = config.DefaultMaxRedirects
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AuthenticateWithRetry runs Authenticate, starting a completely fresh attempt
// after transient network failures, up to maxRetries extra attempts with
// linear backoff.
func (a *Authenticator) AuthenticateWithRetry(ctx context.Context, creds Credentials, maxRetries int) (*LoginResult, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * a.retryBackoff):
			}
		}

		result, err := a.Authenticate(ctx, creds)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return nil, err
		}
		log.Warnf("login attempt %d failed with a network error: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("login failed after %d attempts: %w", maxRetries+1, lastErr)
}

// Authenticate converts creds into the members backend login result by
// replaying the browser login flow.
func (a *Authenticator) Authenticate(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	logger := log.WithField(logging.FieldAttempt, logging.NewAttemptID())
	session, err := NewSession(a.cfg, a.transport, logger)
	if err != nil {
		return nil, err
	}

	pkce, err := GeneratePKCECodes(a.random)
	if err != nil {
		return nil, err
	}
	nonce, err := generateNonce(a.random)
	if err != nil {
		return nil, err
	}

	logger.WithField("step", "config").Debug("fetching identity provider configuration")
	providerCfg, err := FetchProviderConfig(ctx, session, providerConfigURL(a.endpoints.MembersBaseURL))
	if err != nil {
		return nil, err
	}

	flow := &loginFlow{
		session:      session,
		logger:       logger,
		provider:     providerCfg,
		pkce:         pkce,
		nonce:        nonce,
		identityBase: &url.URL{Scheme: a.endpoints.IdentityScheme, Host: providerCfg.Domain},
		membersBase:  a.endpoints.MembersBaseURL,
		maxRedirects: a.maxRedirects,
	}
	return flow.run(ctx, creds)
}

// loginFlow is the state of one attempt after the provider configuration is known.
type loginFlow struct {
	session      *Session
	logger       *log.Entry
	provider     *ProviderConfig
	pkce         *PKCECodes
	nonce        string
	identityBase *url.URL
	membersBase  string
	maxRedirects int

	state    string
	loginURL *url.URL
}

func (f *loginFlow) run(ctx context.Context, creds Credentials) (*LoginResult, error) {
	f.markMembersAuthenticated()

	loginURL, err := f.authorize(ctx)
	if err != nil {
		return nil, err
	}
	if f.loginURL, err = f.followIdentityHop(ctx, loginURL); err != nil {
		return nil, err
	}

	form, err := f.submitCredentials(ctx, creds)
	if err != nil {
		return nil, err
	}

	code, err := f.chaseRedirects(ctx, form)
	if err != nil {
		return nil, err
	}

	bundle, err := f.exchangeCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return f.backendLogin(ctx, bundle)
}

func (f *loginFlow) identityURL(path string) *url.URL {
	u := *f.identityBase
	u.Path = path
	return &u
}

func (f *loginFlow) stepLogger(step string) *log.Entry {
	return f.logger.WithField("step", step)
}

// markMembersAuthenticated sets the cookies the members web app writes once
// the provider configuration has loaded.
func (f *loginFlow) markMembersAuthenticated() {
	members, err := url.Parse(f.membersBase)
	if err != nil {
		return
	}
	f.session.setCookies(members, []*http.Cookie{
		{Name: fmt.Sprintf(authenticatedCookieFormat, f.provider.ClientID), Value: "true", Path: "/"},
		{Name: fmt.Sprintf(legacyAuthenticatedCookieFormat, f.provider.ClientID), Value: "true", Path: "/"},
	})
}

func browserHeaders(referer string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", browserUserAgent)
	h.Set("Accept", browserAccept)
	h.Set("Accept-Language", acceptLanguage)
	if referer != "" {
		h.Set("Referer", referer)
	}
	return h
}

// authorize issues the authorization request and retains the state parameter
// from the login page redirect.
func (f *loginFlow) authorize(ctx context.Context) (*url.URL, error) {
	q := url.Values{}
	q.Set("redirect_uri", f.provider.RedirectURI)
	q.Set("client_id", f.provider.ClientID)
	q.Set("audience", f.provider.Audience)
	q.Set("scope", oauthScope)
	q.Set("response_type", responseTypeCode)
	q.Set("response_mode", responseModeQuery)
	q.Set("nonce", f.nonce)
	q.Set("code_challenge", f.pkce.CodeChallenge)
	q.Set("code_challenge_method", codeChallengeMethod)
	q.Set("auth0Client", auth0Client)

	authorizeURL := f.identityURL(authorizePath)
	authorizeURL.RawQuery = q.Encode()

	resp, err := f.session.get(ctx, "authorize", authorizeURL.String(), browserHeaders(f.membersBase+"/"))
	if err != nil {
		return nil, err
	}
	if !isRedirect(resp.StatusCode) {
		return nil, newStepError(ErrProtocolMismatch, "authorize request did not redirect to the login page", resp.StatusCode, resp.Body)
	}

	location := resp.Header.Get("Location")
	if strings.TrimSpace(location) == "" {
		return nil, newStepError(ErrProtocolMismatch, "authorize redirect has no Location", resp.StatusCode, nil)
	}
	loginURL, err := resolveLocation(resp.URL, location)
	if err != nil {
		e := newStepError(ErrProtocolMismatch, "authorize redirect Location is not a URL", resp.StatusCode, nil)
		e.Cause = err
		return nil, e
	}

	f.state = loginURL.Query().Get("state")
	if f.state == "" {
		return nil, newStepError(ErrProtocolMismatch, "authorize redirect carries no state parameter", resp.StatusCode, nil)
	}
	f.stepLogger("authorize").WithField("status", resp.StatusCode).Debug("login page redirect received")
	return loginURL, nil
}

// followIdentityHop loads the login page once. Some connections answer with a
// further redirect to the real login page; its target becomes the working
// login URL. A plain page is the common case and leaves the URL unchanged.
func (f *loginFlow) followIdentityHop(ctx context.Context, loginURL *url.URL) (*url.URL, error) {
	resp, err := f.session.get(ctx, "login-page", loginURL.String(), browserHeaders(""))
	if err != nil {
		return nil, err
	}
	if !isRedirect(resp.StatusCode) {
		return loginURL, nil
	}
	location := resp.Header.Get("Location")
	if strings.TrimSpace(location) == "" {
		return loginURL, nil
	}
	next, err := resolveLocation(loginURL, location)
	if err != nil {
		f.stepLogger("login-page").WithError(err).Debug("ignoring unparsable identity redirect")
		return loginURL, nil
	}
	f.stepLogger("login-page").WithField("status", resp.StatusCode).Debug("identity provider pre-redirect followed")
	return next, nil
}

// credentialLoginRequest is the JSON body of the credential login endpoint.
type credentialLoginRequest struct {
	ClientID            string         `json:"client_id"`
	RedirectURI         string         `json:"redirect_uri"`
	Tenant              string         `json:"tenant"`
	ResponseType        string         `json:"response_type"`
	Scope               string         `json:"scope"`
	Audience            string         `json:"audience"`
	State               string         `json:"state"`
	Nonce               string         `json:"nonce"`
	Connection          string         `json:"connection"`
	Username            string         `json:"username"`
	Password            string         `json:"password"`
	CodeChallenge       string         `json:"code_challenge"`
	CodeChallengeMethod string         `json:"code_challenge_method"`
	CSRF                string         `json:"_csrf,omitempty"`
	IntState            string         `json:"_intstate"`
	Protocol            string         `json:"protocol"`
	PopupOptions        map[string]any `json:"popup_options"`
	SSO                 bool           `json:"sso"`
	Prompt              string         `json:"prompt,omitempty"`
	UILocales           string         `json:"ui_locales,omitempty"`
}

// submitCredentials posts the credentials and parses the form relay page it returns.
func (f *loginFlow) submitCredentials(ctx context.Context, creds Credentials) (*RelayForm, error) {
	payload := credentialLoginRequest{
		ClientID:            f.provider.ClientID,
		RedirectURI:         f.provider.RedirectURI,
		Tenant:              loginTenant,
		ResponseType:        responseTypeCode,
		Scope:               oauthScope,
		Audience:            f.provider.Audience,
		State:               f.state,
		Nonce:               f.nonce,
		Connection:          loginConnection,
		Username:            strings.TrimSpace(creds.Username),
		Password:            creds.Password,
		CodeChallenge:       f.pkce.CodeChallenge,
		CodeChallengeMethod: codeChallengeMethod,
		CSRF:                f.session.cookie(f.loginURL, csrfCookieName),
		IntState:            loginIntState,
		Protocol:            loginProtocol,
		PopupOptions:        map[string]any{},
		SSO:                 true,
		Prompt:              loginPrompt,
		UILocales:           loginUILocales,
	}

	header := http.Header{}
	header.Set("User-Agent", browserUserAgent)
	header.Set("Accept", "*/*")
	header.Set("Accept-Language", acceptLanguage)
	header.Set("Origin", f.identityBase.Scheme+"://"+f.identityBase.Host)
	header.Set("Referer", f.loginURL.String())
	header.Set("Auth0-Client", auth0Client)

	resp, err := f.session.postJSON(ctx, "login", f.identityURL(credentialLoginPath).String(), payload, header)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		message := ErrAuthenticationFailed.Message
		if pe := parseProviderError(resp.Body); pe != nil && pe.Summary() != "" {
			message = pe.Summary()
		}
		return nil, newStepError(ErrAuthenticationFailed, message, resp.StatusCode, resp.Body)
	}

	form, err := ParseRelayForm(bytes.NewReader(resp.Body))
	if err != nil {
		e := newStepError(ErrProtocolMismatch, "login response is not a form relay page", resp.StatusCode, resp.Body)
		e.Cause = err
		return nil, e
	}
	f.stepLogger("login").WithField("count", len(form.Fields)).Debug("form relay page received")
	return form, nil
}

// chaseRedirects submits the relay form and walks the redirect chain without
// auto-following until a Location carries the authorization code.
func (f *loginFlow) chaseRedirects(ctx context.Context, form *RelayForm) (string, error) {
	action, err := resolveLocation(f.identityBase, form.Action)
	if err != nil {
		e := newStepError(ErrProtocolMismatch, "form relay action is not a URL", 0, nil)
		e.Cause = err
		return "", e
	}

	resp, err := f.session.postForm(ctx, "relay", action.String(), form.Fields, browserHeaders(f.loginURL.String()))
	if err != nil {
		return "", err
	}

	for followed := 0; ; followed++ {
		if !isRedirect(resp.StatusCode) {
			return "", newStepError(ErrProtocolMismatch, "no authorization code in redirect chain", resp.StatusCode, resp.Body)
		}

		location := resp.Header.Get("Location")
		if strings.TrimSpace(location) == "" {
			return "", newStepError(ErrProtocolMismatch, "redirect without Location in redirect chain", resp.StatusCode, nil)
		}
		next, errResolve := resolveLocation(f.identityBase, location)
		if errResolve != nil {
			e := newStepError(ErrProtocolMismatch, "redirect Location is not a URL", resp.StatusCode, nil)
			e.Cause = errResolve
			return "", e
		}

		params := misc.ParseRedirectParams(next)
		if params.HasCode() {
			f.stepLogger("redirect").WithField("hop", followed).Debug("authorization code received")
			return params.Code, nil
		}
		if params.HasError() {
			message := params.Error
			if params.ErrorDescription != "" {
				message = params.Error + ": " + params.ErrorDescription
			}
			return "", newStepError(ErrAuthenticationFailed, message, resp.StatusCode, nil)
		}

		if followed >= f.maxRedirects {
			return "", newStepError(ErrProtocolMismatch, fmt.Sprintf("redirect chain exceeded %d hops without an authorization code", f.maxRedirects), resp.StatusCode, nil)
		}
		if errCtx := ctx.Err(); errCtx != nil {
			return "", errCtx
		}

		f.stepLogger("redirect").WithFields(log.Fields{"hop": followed + 1, "host": next.Host, "path": next.Path}).Debug("following redirect")
		resp, err = f.session.get(ctx, "redirect", next.String(), browserHeaders(""))
		if err != nil {
			return "", err
		}
	}
}

type tokenExchangeRequest struct {
	ClientID     string `json:"client_id"`
	CodeVerifier string `json:"code_verifier"`
	GrantType    string `json:"grant_type"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
}

// exchangeCode trades the authorization code and PKCE verifier for the token bundle.
func (f *loginFlow) exchangeCode(ctx context.Context, code string) (*TokenBundle, error) {
	payload := tokenExchangeRequest{
		ClientID:     f.provider.ClientID,
		CodeVerifier: f.pkce.CodeVerifier,
		GrantType:    grantTypeAuthorizationCode,
		Code:         code,
		RedirectURI:  f.provider.RedirectURI,
	}
	header := http.Header{}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", browserUserAgent)
	header.Set("Auth0-Client", auth0Client)

	resp, err := f.session.postJSON(ctx, "token", f.identityURL(tokenPath).String(), payload, header)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		message := ErrTokenExchangeFailed.Message
		if pe := parseProviderError(resp.Body); pe != nil && pe.Summary() != "" {
			message = "token endpoint rejected the code: " + pe.Summary()
		}
		return nil, newStepError(ErrTokenExchangeFailed, message, resp.StatusCode, resp.Body)
	}

	var bundle TokenBundle
	if err = json.Unmarshal(resp.Body, &bundle); err != nil {
		e := newStepError(ErrTokenExchangeFailed, "token response is not valid JSON", resp.StatusCode, nil)
		e.Cause = err
		return nil, e
	}
	if bundle.AccessToken == "" || bundle.IDToken == "" {
		return nil, newStepError(ErrTokenExchangeFailed, "token response is missing access_token or id_token", resp.StatusCode, nil)
	}
	f.stepLogger("token").WithField("status", resp.StatusCode).Debug("authorization code exchanged")
	return &bundle, nil
}

type backendLoginRequest struct {
	TokenBundle
	ClientID string `json:"client_id"`
	Audience string `json:"audience"`
}

// backendLogin hands the token bundle to the members backend, whose response
// is the final result of the attempt.
func (f *loginFlow) backendLogin(ctx context.Context, bundle *TokenBundle) (*LoginResult, error) {
	payload := backendLoginRequest{
		TokenBundle: *bundle,
		ClientID:    f.provider.ClientID,
		Audience:    f.provider.Audience,
	}
	header := http.Header{}
	header.Set("Accept", "application/json, text/plain, */*")
	header.Set("Request-Source", backendRequestSource)
	header.Set("User-Agent", backendUserAgent)
	header.Set("Origin", f.membersBase)
	header.Set("Referer", membersReferer)

	resp, err := f.session.postJSON(ctx, "backend-login", f.membersBase+backendLoginPath, payload, header)
	if err != nil {
		return nil, err
	}
	if !isSuccess(resp.StatusCode) {
		return nil, newStepError(ErrTokenExchangeFailed, "members backend rejected the token bundle", resp.StatusCode, resp.Body)
	}

	var result LoginResult
	if err = json.Unmarshal(resp.Body, &result); err != nil {
		e := newStepError(ErrTokenExchangeFailed, "backend login response is not valid JSON", resp.StatusCode, nil)
		e.Cause = err
		return nil, e
	}
	if result.Token == "" {
		return nil, newStepError(ErrTokenExchangeFailed, "backend login response has no token", resp.StatusCode, nil)
	}
	result.Raw = append(json.RawMessage(nil), bytes.TrimSpace(resp.Body)...)
	f.stepLogger("backend-login").WithField("status", resp.StatusCode).Debug("members session established")
	return &result, nil
}

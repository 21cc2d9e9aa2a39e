package wework

// Provider protocol constants. The identity provider and the members backend
// reject requests whose fixed fields drift from what the official clients send,
// so every literal of the login replay lives here.
const (
	// Members backend.
	defaultMembersBaseURL = "https://members.wework.com"
	membersDomain         = "members.wework.com"
	providerConfigPath    = "/workplaceone/api/auth0/config"
	backendLoginPath      = "/workplaceone/api/auth0/login-by-auth0-token"
	membersReferer        = "https://members.wework.com/workplaceone/content2/dashboard"
	configCompanyID       = "00000000-0000-0000-0000-000000000000"

	// Identity provider paths, relative to https://{domain}.
	authorizePath       = "/authorize"
	credentialLoginPath = "/usernamepassword/login"
	tokenPath           = "/oauth/token"

	// Authorize request.
	oauthScope          = "openid profile email offline_access"
	responseTypeCode    = "code"
	responseModeQuery   = "query"
	codeChallengeMethod = "S256"
	// auth0Client is the base64 client identification token of the members web app
	// ({"name":"@auth0/auth0-angular","version":"1.11.1.custom","env":{"angular/core":"13.1.1"}}).
	auth0Client = "eyJuYW1lIjoiQGF1dGgwL2F1dGgwLWFuZ3VsYXIiLCJ2ZXJzaW9uIjoiMS4xMS4xLmN1c3RvbSIsImVudiI6eyJhbmd1bGFyL2NvcmUiOiIxMy4xLjEifX0="

	// Credential login.
	loginTenant     = "wework-prod"
	loginConnection = "id-wework"
	loginProtocol   = "oauth2"
	loginIntState   = "deprecated"
	loginPrompt     = "login"
	loginUILocales  = "en"
	csrfCookieName  = "_csrf"

	// Token exchange.
	grantTypeAuthorizationCode = "authorization_code"

	// Backend login client attribution.
	backendRequestSource = "com.wework.ondemand/WorkplaceOne/Prod/iOS/2.68.0(18.2)"
	backendUserAgent     = "Mobile Safari 16.1"

	// Browser identity for the identity provider steps.
	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3.1 Safari/605.1.15"
	browserAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage   = "en-US,en;q=0.9"

	// Cookies the members web app sets after loading the provider config.
	authenticatedCookieFormat       = "auth0.%s.is.authenticated"
	legacyAuthenticatedCookieFormat = "_legacy_auth0.%s.is.authenticated"

	// Limits.
	maxResponseBodyBytes = 4 << 20
	maxErrorBodyRunes    = 4 << 10
	randomBytesLength    = 32
)

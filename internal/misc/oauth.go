package misc

import (
	"net/url"
	"strings"
)

// RedirectParams captures the OAuth parameters carried by a redirect target.
type RedirectParams struct {
	Code             string
	State            string
	Error            string
	ErrorDescription string
}

// HasCode reports whether the redirect delivered an authorization code.
func (p RedirectParams) HasCode() bool { return p.Code != "" }

// HasError reports whether the redirect carried an OAuth error.
func (p RedirectParams) HasError() bool { return p.Error != "" }

// ParseRedirectParams extracts code, state and error parameters from a redirect
// URL. Query parameters win; the fragment is consulted for values the query lacks.
func ParseRedirectParams(u *url.URL) RedirectParams {
	if u == nil {
		return RedirectParams{}
	}
	query := u.Query()
	params := RedirectParams{
		Code:             strings.TrimSpace(query.Get("code")),
		State:            strings.TrimSpace(query.Get("state")),
		Error:            strings.TrimSpace(query.Get("error")),
		ErrorDescription: strings.TrimSpace(query.Get("error_description")),
	}

	if u.Fragment != "" {
		if frag, err := url.ParseQuery(u.Fragment); err == nil {
			if params.Code == "" {
				params.Code = strings.TrimSpace(frag.Get("code"))
			}
			if params.State == "" {
				params.State = strings.TrimSpace(frag.Get("state"))
			}
			if params.Error == "" {
				params.Error = strings.TrimSpace(frag.Get("error"))
			}
			if params.ErrorDescription == "" {
				params.ErrorDescription = strings.TrimSpace(frag.Get("error_description"))
			}
		}
	}

	if params.Error == "" && params.ErrorDescription != "" {
		params.Error = params.ErrorDescription
		params.ErrorDescription = ""
	}
	return params
}

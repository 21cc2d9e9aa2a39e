package wework

import (
	"strings"
	"testing"
)

func TestParseRelayForm(t *testing.T) {
	const page = `<!DOCTYPE html><html><head><title>Working...</title></head><body>
<form method="post" name="hiddenform" action="https://sso.example.com/login/callback">
  <input type="hidden" name="SAMLResponse" value="xyz" />
  <input type="hidden" name="RelayState" value="abc" />
  <noscript><p>Script is disabled. Click Submit to continue.</p><input type="submit" value="Submit" /></noscript>
</form>
<script>window.setTimeout(function() {document.forms[0].submit();}, 0);</script>
</body></html>`

	form, err := ParseRelayForm(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseRelayForm() error = %v", err)
	}
	if form.Action != "https://sso.example.com/login/callback" {
		t.Fatalf("action = %q", form.Action)
	}
	if form.Method != "POST" {
		t.Fatalf("method = %q", form.Method)
	}
	if len(form.Fields) != 2 {
		t.Fatalf("fields = %v, want exactly SAMLResponse and RelayState", form.Fields)
	}
	if form.Fields.Get("SAMLResponse") != "xyz" || form.Fields.Get("RelayState") != "abc" {
		t.Fatalf("fields = %v", form.Fields)
	}
}

func TestParseRelayForm_Edges(t *testing.T) {
	tests := []struct {
		name    string
		page    string
		wantErr bool
		check   func(t *testing.T, form *RelayForm)
	}{
		{
			name:    "no form",
			page:    `<html><body><p>Wrong email or password.</p></body></html>`,
			wantErr: true,
		},
		{
			name:    "form without action",
			page:    `<form method="post"><input name="a" value="1"></form>`,
			wantErr: true,
		},
		{
			name: "relative action and empty value",
			page: `<form action="/login/callback"><input name="wctx" value=""><input name="wresult" value="r"></form>`,
			check: func(t *testing.T, form *RelayForm) {
				if form.Action != "/login/callback" {
					t.Fatalf("action = %q", form.Action)
				}
				if _, ok := form.Fields["wctx"]; !ok {
					t.Fatalf("empty input dropped: %v", form.Fields)
				}
			},
		},
		{
			name: "first form wins",
			page: `<form action="https://a.example/one"><input name="x" value="1"></form><form action="https://b.example/two"></form>`,
			check: func(t *testing.T, form *RelayForm) {
				if form.Action != "https://a.example/one" {
					t.Fatalf("action = %q", form.Action)
				}
			},
		},
		{
			name: "html entities decoded",
			page: `<form action="https://a.example/cb"><input name="wctx" value="{&#34;strategy&#34;:&#34;auth0&#34;}"></form>`,
			check: func(t *testing.T, form *RelayForm) {
				if got := form.Fields.Get("wctx"); got != `{"strategy":"auth0"}` {
					t.Fatalf("wctx = %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, err := ParseRelayForm(strings.NewReader(tt.page))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRelayForm() = %+v, want error", form)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRelayForm() error = %v", err)
			}
			tt.check(t, form)
		})
	}
}

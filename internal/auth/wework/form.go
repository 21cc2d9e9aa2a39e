package wework

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RelayForm is the auto-submitting form the credential login endpoint returns.
// Its fields are signed artifacts and are forwarded unmodified.
type RelayForm struct {
	Action string
	Method string
	Fields url.Values
}

// ParseRelayForm locates the first <form> in an HTML document and returns its
// action, method and every named input's value.
func ParseRelayForm(r io.Reader) (*RelayForm, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse login response: %w", err)
	}

	form := doc.Find("form").First()
	if form.Length() == 0 {
		return nil, fmt.Errorf("no form found in login response")
	}

	action, _ := form.Attr("action")
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, fmt.Errorf("login form has no action")
	}

	method, _ := form.Attr("method")
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = "POST"
	}

	fields := url.Values{}
	form.Find("input").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok || name == "" {
			return
		}
		value, _ := s.Attr("value")
		fields.Add(name, value)
	})

	return &RelayForm{Action: action, Method: method, Fields: fields}, nil
}

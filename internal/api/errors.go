package api

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// EnvelopeError is an application level failure reported inside a response
// envelope with the isErrorred flag set. The members API uses it even on HTTP 200.
type EnvelopeError struct {
	Messages   []string
	StatusCode string
}

func (e *EnvelopeError) Error() string {
	msg := strings.Join(e.Messages, "; ")
	if msg == "" {
		msg = "request reported an error"
	}
	if e.StatusCode != "" {
		return fmt.Sprintf("members api error %s: %s", e.StatusCode, msg)
	}
	return "members api error: " + msg
}

// HTTPError is a non-2xx response. Callers treat it as "no data".
type HTTPError struct {
	StatusCode int
	Body       string
	// Message is the responseStatus message when the body carried one.
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("members api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("members api returned status %d", e.StatusCode)
}

// checkEnvelope returns an *EnvelopeError when body is a JSON object whose
// isErrorred flag is true.
func checkEnvelope(body []byte) error {
	if !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() || !root.Get("isErrorred").Bool() {
		return nil
	}

	e := &EnvelopeError{StatusCode: root.Get("errorStatusCode").String()}
	errs := root.Get("errors")
	switch {
	case errs.IsArray():
		for _, item := range errs.Array() {
			if text := envelopeMessage(item); text != "" {
				e.Messages = append(e.Messages, text)
			}
		}
	case errs.Exists():
		if text := envelopeMessage(errs); text != "" {
			e.Messages = append(e.Messages, text)
		}
	}
	if len(e.Messages) == 0 {
		if text := root.Get("errorMessage").String(); text != "" {
			e.Messages = append(e.Messages, text)
		}
	}
	return e
}

func envelopeMessage(item gjson.Result) string {
	if item.IsObject() {
		for _, key := range []string{"message", "errorMessage", "description"} {
			if v := item.Get(key).String(); v != "" {
				return v
			}
		}
		return item.Raw
	}
	return strings.TrimSpace(item.String())
}

// newHTTPError builds an *HTTPError, lifting the message out of a
// {"responseStatus":{"type":"error",...}} body.
func newHTTPError(status int, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: status, Body: strings.TrimSpace(string(body))}
	if gjson.ValidBytes(body) {
		rs := gjson.GetBytes(body, "responseStatus")
		if rs.Get("type").String() == "error" {
			e.Message = rs.Get("message").String()
			if title := rs.Get("title").String(); title != "" {
				e.Message = fmt.Sprintf("%s (%s)", e.Message, title)
			}
		}
	}
	return e
}

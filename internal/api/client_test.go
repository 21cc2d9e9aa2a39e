package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const (
	munichUUID  = "5a8c3c3c-6f1b-4b0e-9a35-7f5b2c3e1a01"
	bangkokUUID = "9d2f0a2e-1c4b-4f6e-8a77-2b1e4c5d6f02"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

type apiServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []capturedRequest
}

func newAPIServer(t *testing.T, handler http.HandlerFunc) *apiServer {
	t.Helper()
	s := &apiServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.requests = append(s.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *apiServer) last(t *testing.T) capturedRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

func (s *apiServer) client(tokens Tokens, opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(s.URL), WithHTTPClient(s.Server.Client())}, opts...)
	return NewClient(nil, tokens, opts...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// fakeJWT builds a compact token with the given claims. The signature is not
// valid; the client never verifies it.
func fakeJWT(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	sig := base64.RawURLEncoding.EncodeToString([]byte("not-a-real-signature"))
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + "." + sig
}

func TestClientSendsAuthHeaders(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"locationsByGeo":[]}`)
	})
	token := fakeJWT(t, map[string]any{userUUIDClaim: "user-1234", "sub": "auth0|x"})
	c := srv.client(Tokens{Primary: token, Secondary: token})

	_, err := c.GetLocationsByGeo(context.Background(), "Tokyo")
	require.NoError(t, err)

	req := srv.last(t)
	require.Equal(t, http.MethodGet, req.Method)
	require.Equal(t, locationsByGeoPath, req.Path)
	require.Equal(t, "Tokyo", req.Query.Get("city"))
	require.Equal(t, "true", req.Query.Get("isAuthenticated"))
	require.Equal(t, "Bearer "+token, req.Header.Get("Authorization"))
	require.Equal(t, "Bearer "+token, req.Header.Get("WeWorkAuth"))
	require.Equal(t, "true", req.Header.Get("IsKube"))
	require.Equal(t, "user-1234", req.Header.Get("WeWorkUUID"))
	require.Equal(t, requestSource, req.Header.Get("Request-Source"))
	require.Equal(t, dashboardPage, req.Header.Get("fe-pg"))
}

func TestClientUserUUIDFallsBackToIDToken(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"locationsByGeo":[]}`)
	})
	idToken := fakeJWT(t, map[string]any{userUUIDClaim: "from-id-token"})
	c := srv.client(Tokens{Primary: "opaque", Secondary: "opaque", IDToken: idToken})

	_, err := c.GetLocationsByGeo(context.Background(), "Berlin")
	require.NoError(t, err)

	req := srv.last(t)
	require.Equal(t, "Bearer opaque", req.Header.Get("Authorization"))
	require.Equal(t, "from-id-token", req.Header.Get("WeWorkUUID"))
}

func TestClientOmitsUserUUIDForOpaqueTokens(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"locationsByGeo":[]}`)
	})
	c := srv.client(Tokens{Primary: "opaque"})

	_, err := c.GetLocationsByGeo(context.Background(), "Berlin")
	require.NoError(t, err)

	req := srv.last(t)
	require.Equal(t, "Bearer opaque", req.Header.Get("WeWorkAuth"))
	require.Empty(t, req.Header.Values("WeWorkUUID"))
}

func TestClientEnvelopeError(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"isErrorred":true,"errors":["Desk unavailable"],"errorStatusCode":"409"}`)
	})
	c := srv.client(Tokens{Primary: "t"})

	_, err := c.GetUpcomingBookings(context.Background())
	require.Error(t, err)

	var envErr *EnvelopeError
	require.ErrorAs(t, err, &envErr)
	require.Equal(t, []string{"Desk unavailable"}, envErr.Messages)
	require.Equal(t, "409", envErr.StatusCode)
	require.Contains(t, err.Error(), "Desk unavailable")

	var httpErr *HTTPError
	require.False(t, errors.As(err, &httpErr))
}

func TestClientHTTPError(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"responseStatus":{"type":"error","message":"Token expired","title":"Unauthorized"}}`)
	})
	c := srv.client(Tokens{Primary: "t"})

	_, err := c.GetUserProfile(context.Background())
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.StatusCode)
	require.Equal(t, "Token expired (Unauthorized)", httpErr.Message)
	require.Contains(t, httpErr.Body, "Token expired")

	var envErr *EnvelopeError
	require.False(t, errors.As(err, &envErr))
}

func TestClientDecodesCompressedBodies(t *testing.T) {
	const body = `{"locationsByGeo":[{"uuid":"` + munichUUID + `","name":"Munich HQ"}]}`

	compress := map[string]func(t *testing.T) []byte{
		"gzip": func(t *testing.T) []byte {
			var buf bytes.Buffer
			zw := gzip.NewWriter(&buf)
			_, err := zw.Write([]byte(body))
			require.NoError(t, err)
			require.NoError(t, zw.Close())
			return buf.Bytes()
		},
		"br": func(t *testing.T) []byte {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			_, err := bw.Write([]byte(body))
			require.NoError(t, err)
			require.NoError(t, bw.Close())
			return buf.Bytes()
		},
	}

	for encoding, fn := range compress {
		t.Run(encoding, func(t *testing.T) {
			payload := fn(t)
			srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Content-Encoding", encoding)
				_, _ = w.Write(payload)
			})
			c := srv.client(Tokens{Primary: "t"})

			res, err := c.GetLocationsByGeo(context.Background(), "Munich")
			require.NoError(t, err)
			require.Len(t, res.LocationsByGeo, 1)
			require.Equal(t, "Munich HQ", res.LocationsByGeo[0].Name)
		})
	}
}

func TestFindLocation(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"locationsByGeo":[
			{"uuid":"`+munichUUID+`","name":"Atelier"},
			{"uuid":"`+bangkokUUID+`","name":"Station Tower"}]}`)
	})
	c := srv.client(Tokens{Primary: "t"})

	loc, names, err := c.FindLocation(context.Background(), "Munich", "station tower")
	require.NoError(t, err)
	require.NotNil(t, loc)
	require.Equal(t, bangkokUUID, loc.UUID)
	require.Equal(t, []string{"Atelier", "Station Tower"}, names)

	loc, _, err = c.FindLocation(context.Background(), "Munich", "Nowhere")
	require.NoError(t, err)
	require.Nil(t, loc)
}

func TestGetAvailableSpacesQuery(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"getSharedWorkspaces":{"workspaces":[{"uuid":"ws-1","seatsAvailable":3}]}}`)
	})
	c := srv.client(Tokens{Primary: "t"})

	tokyo := time.FixedZone("JST", 9*60*60)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, tokyo)
	res, err := c.GetAvailableSpaces(context.Background(), date, []string{munichUUID, bangkokUUID})
	require.NoError(t, err)
	require.Len(t, res.Response.Workspaces, 1)
	require.Equal(t, 3, res.Response.Workspaces[0].SeatsAvailable)

	q := srv.last(t).Query
	require.Equal(t, munichUUID+","+bangkokUUID, q.Get("locationUUIDs"))
	require.Equal(t, "2025-03-10", q.Get("date"))
	require.Equal(t, "+09:00", q.Get("locationOffset"))
	require.Equal(t, "30", q.Get("duration"))
}

func TestGetSpacesByUUIDsUsesClock(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"getSharedWorkspaces":{"workspaces":[]}}`)
	})
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	c := srv.client(Tokens{Primary: "t"}, WithClock(func() time.Time { return now }))

	_, err := c.GetSpacesByUUIDs(context.Background(), []string{munichUUID})
	require.NoError(t, err)

	q := srv.last(t).Query
	require.Equal(t, "07/04/2025", q.Get("date"))
	require.Equal(t, "500", q.Get("limit"))
	require.Equal(t, "false", q.Get("isWeb"))
}

func TestLocationUUIDValidation(t *testing.T) {
	c := NewClient(nil, Tokens{Primary: "t"}, WithBaseURL("http://127.0.0.1:1"))

	_, err := c.GetAvailableSpaces(context.Background(), time.Now(), nil)
	require.Error(t, err)

	_, err = c.GetAvailableSpaces(context.Background(), time.Now(), []string{"not-a-uuid"})
	require.ErrorContains(t, err, "invalid location uuid")

	_, err = c.GetLocationFeatures(context.Background(), "", false)
	require.Error(t, err)

	_, err = c.GetLocationsByGeo(context.Background(), "  ")
	require.ErrorContains(t, err, "city is required")
}

func TestGetPastBookingsLocalizesTimes(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{
			"uuid":"b-1",
			"startsAt":"2025-03-10T00:00:00Z",
			"endsAt":"2025-03-10T11:00:00Z",
			"reservable":{"location":{"name":"Shibuya","timeZone":"Asia/Tokyo"}}
		}, null]`)
	})
	c := srv.client(Tokens{Primary: "t"})

	bookings, err := c.GetPastBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	require.Equal(t, "Asia/Tokyo", bookings[0].StartsAt.Location().String())
	require.Equal(t, 9, bookings[0].StartsAt.Hour())
	require.Equal(t, "Shibuya", bookings[0].LocationName())
}

func TestGetBootstrapPayload(t *testing.T) {
	srv := newAPIServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"workplaceExperienceStatus":true}`)
	})
	c := srv.client(Tokens{Primary: "t"})

	res, err := c.GetBootstrap(context.Background())
	require.NoError(t, err)
	require.True(t, res.WorkplaceExperienceStatus)

	req := srv.last(t)
	require.Equal(t, http.MethodPost, req.Method)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(req.Body, &payload))
	require.EqualValues(t, 1, payload["platform"])
	require.Contains(t, payload, "AppVersion")
	require.Nil(t, payload["AppVersion"])
}

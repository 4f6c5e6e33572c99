package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsync/internal/api"
	"docsync/internal/document"
)

func TestHTTPResolver_Fetch(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, petstore)
	}))
	defer srv.Close()

	r := NewHTTPResolver()
	doc, err := r.Fetch(context.Background(), api.RouteDescriptor{
		Name:   "pets",
		Kind:   api.ResolverKindHTTP,
		URL:    srv.URL + "/v3/api-docs",
		Labels: map[string]string{"team": "zoo"},
		Headers: map[string]string{
			"X-Service": "{{ .Name | upper }}",
			"X-Team":    "{{ .Labels.team }}",
			"X-Static":  "plain",
		},
	})
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.Equal(t, "/pets", doc.ContextPath)
	assert.Equal(t, document.Fingerprint([]byte(petstore)), doc.ContextID)
	assert.Equal(t, srv.URL+"/v3/api-docs", doc.Source)
	assert.Equal(t, "zoo", doc.Labels["team"])

	assert.Equal(t, "PETS", gotHeaders.Get("X-Service"))
	assert.Equal(t, "zoo", gotHeaders.Get("X-Team"))
	assert.Equal(t, "plain", gotHeaders.Get("X-Static"))
	assert.Contains(t, gotHeaders.Get("Accept"), "application/json")
}

func TestHTTPResolver_NoContent(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name:    "204",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
		},
		{
			name:    "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, "  \n") },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			doc, err := NewHTTPResolver().Fetch(context.Background(), api.RouteDescriptor{Name: "x", URL: srv.URL})
			require.NoError(t, err)
			assert.Nil(t, doc)
		})
	}
}

func TestHTTPResolver_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/garbage":
			fmt.Fprint(w, "{not json")
		case "/big":
			fmt.Fprint(w, strings.Repeat(" ", 64)+petstore)
		}
	}))
	defer srv.Close()

	r := NewHTTPResolver(WithMaxDocumentSize(32))

	tests := []struct {
		name    string
		route   api.RouteDescriptor
		wantErr string
	}{
		{name: "no url", route: api.RouteDescriptor{Name: "x"}, wantErr: "no url"},
		{name: "not found", route: api.RouteDescriptor{Name: "x", URL: srv.URL + "/missing"}, wantErr: "unexpected status 404"},
		{name: "garbage", route: api.RouteDescriptor{Name: "x", URL: srv.URL + "/garbage"}, wantErr: "invalid document"},
		{name: "too large", route: api.RouteDescriptor{Name: "x", URL: srv.URL + "/big"}, wantErr: "exceeds"},
		{
			name:    "bad header template",
			route:   api.RouteDescriptor{Name: "x", URL: srv.URL, Headers: map[string]string{"X": "{{ .Nope }}"}},
			wantErr: "failed to render headers",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := r.Fetch(context.Background(), tt.route)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Nil(t, doc)
		})
	}
}

func TestHTTPResolver_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewHTTPResolver().Fetch(context.Background(), api.RouteDescriptor{
		Name:    "slow",
		URL:     srv.URL,
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHTTPResolver_OAuth2ClientCredentials(t *testing.T) {
	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"secret-token","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/doc", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, petstore)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	r := NewHTTPResolver()
	defer r.Close()

	route := api.RouteDescriptor{
		Name: "secured",
		URL:  srv.URL + "/doc",
		OAuth2: &api.OAuth2Credentials{
			TokenURL:     srv.URL + "/token",
			ClientID:     "docsync",
			ClientSecret: "s3cret",
		},
	}

	for i := 0; i < 3; i++ {
		doc, err := r.Fetch(context.Background(), route)
		require.NoError(t, err)
		require.NotNil(t, doc)
	}
	// The token is cached across fetches.
	assert.Equal(t, int32(1), tokenRequests.Load())

	// Without credentials the endpoint refuses the request.
	_, err := r.Fetch(context.Background(), api.RouteDescriptor{Name: "plain", URL: srv.URL + "/doc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

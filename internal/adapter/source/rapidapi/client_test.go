package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetJSONSendsKeyHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, "example.p.rapidapi.com", r.Header.Get("x-rapidapi-host"))
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "YSRCP", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient("test-key", "example.p.rapidapi.com", time.Second, WithBaseURL(server.URL))

	var out struct {
		OK bool `json:"ok"`
	}
	err := c.GetJSON(context.Background(), "/search", url.Values{"query": {"YSRCP"}}, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
}

func TestPostJSONEncodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "jai_tdp", body["username"])
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient("k", "h", time.Second, WithBaseURL(server.URL))
	var out map[string]interface{}
	require.NoError(t, c.PostJSON(context.Background(), "/api/instagram/profile", map[string]string{"username": "jai_tdp"}, &out))
}

func TestMissingKeySkipsUpstream(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient("", "h", time.Second, WithBaseURL(server.URL))
	var out map[string]interface{}
	err := c.GetJSON(context.Background(), "/x", nil, &out)

	assert.ErrorIs(t, err, ErrMissingKey)
	assert.False(t, called)
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(t *testing.T, err error)
	}{
		{http.StatusForbidden, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnauthorized) }},
		{http.StatusTooManyRequests, func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrRateLimited) }},
		{http.StatusBadGateway, func(t *testing.T, err error) {
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		}},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		c := NewClient("k", "h", time.Second, WithBaseURL(server.URL))
		var out map[string]interface{}
		tt.check(t, c.GetJSON(context.Background(), "/x", nil, &out))
		server.Close()
	}
}

func TestMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := NewClient("k", "h", time.Second, WithBaseURL(server.URL))
	var out map[string]interface{}
	assert.Error(t, c.GetJSON(context.Background(), "/x", nil, &out))
}

func TestFlexStringAcceptsNumbers(t *testing.T) {
	var v struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x1","b":31415926535,"c":null}`), &v))
	assert.Equal(t, FlexString("x1"), v.A)
	assert.Equal(t, FlexString("31415926535"), v.B)
	assert.Equal(t, FlexString(""), v.C)
}

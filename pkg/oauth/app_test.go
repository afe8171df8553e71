package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestWWWBaseDerivation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wwwBase string
		want    string
	}{
		{"com host substitutes api for www", ComBaseURL, "", "https://www.coze.com"},
		{"cn host substitutes api for www", CNBaseURL, "", "https://www.coze.cn"},
		{"unknown host falls back unchanged", "https://api.example.com", "", "https://api.example.com"},
		{"explicit override wins", ComBaseURL, "https://custom.example.com", "https://custom.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{WithBaseURL(tt.baseURL)}
			if tt.wwwBase != "" {
				opts = append(opts, WithWWWBaseURL(tt.wwwBase))
			}
			app, err := newOAuthApp("c1", opts...)
			if err != nil {
				t.Fatalf("newOAuthApp() error = %v", err)
			}
			if got := app.wwwBase(); got != tt.want {
				t.Errorf("wwwBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewOAuthAppValidation(t *testing.T) {
	if _, err := newOAuthApp(""); err == nil {
		t.Error("expected error for empty client id")
	}
	if _, err := newOAuthApp("c1", WithBaseURL("://bad")); err == nil {
		t.Error("expected error for invalid base URL")
	}
}

func TestOAuthURLEncoding(t *testing.T) {
	app, err := newOAuthApp("client id&", WithBaseURL(ComBaseURL))
	if err != nil {
		t.Fatalf("newOAuthApp() error = %v", err)
	}

	rawURL := app.oauthURL("https://cb.example.com/done?x=1", "st&ate", urlOptions{})

	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("produced URL does not parse: %v", err)
	}
	if parsed.Path != "/api/permission/oauth2/authorize" {
		t.Errorf("path = %q, want %q", parsed.Path, "/api/permission/oauth2/authorize")
	}
	if parsed.Host != "www.coze.com" {
		t.Errorf("host = %q, want %q", parsed.Host, "www.coze.com")
	}

	query := parsed.Query()
	if got := query.Get("redirect_uri"); got != "https://cb.example.com/done?x=1" {
		t.Errorf("redirect_uri = %q, survived encoding incorrectly", got)
	}
	if got := query.Get("state"); got != "st&ate" {
		t.Errorf("state = %q, survived encoding incorrectly", got)
	}
	if got := query.Get("client_id"); got != "client id&" {
		t.Errorf("client_id = %q, survived encoding incorrectly", got)
	}
	if got := query.Get("response_type"); got != "code" {
		t.Errorf("response_type = %q, want %q", got, "code")
	}
	if query.Has("code_challenge") {
		t.Error("code_challenge present without a challenge")
	}
	if query.Has("workspace_id") {
		t.Error("workspace_id must never appear as a query parameter")
	}
}

func TestOAuthURLWorkspaceVariant(t *testing.T) {
	app, err := newOAuthApp("c1", WithBaseURL(ComBaseURL))
	if err != nil {
		t.Fatalf("newOAuthApp() error = %v", err)
	}

	rawURL := app.oauthURL("https://cb.example.com", "s", urlOptions{workspaceID: "ws/1"})

	parsed, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("produced URL does not parse: %v", err)
	}
	want := "/api/permission/oauth2/workspace_id/ws%2F1/authorize"
	if parsed.EscapedPath() != want {
		t.Errorf("path = %q, want %q", parsed.EscapedPath(), want)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/permission/oauth2/token" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&OAuthToken{
			AccessToken:  "fresh",
			ExpiresIn:    1700000000,
			RefreshToken: "next-refresh",
			TokenType:    "Bearer",
		})
	}))
	defer server.Close()

	app, err := newOAuthApp("c1", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("newOAuthApp() error = %v", err)
	}

	token, err := app.refreshAccessToken(context.Background(), "old-refresh", "")
	if err != nil {
		t.Fatalf("refreshAccessToken() error = %v", err)
	}

	if token.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "fresh")
	}
	if gotBody["grant_type"] != "refresh_token" {
		t.Errorf("grant_type = %v, want refresh_token", gotBody["grant_type"])
	}
	if gotBody["client_id"] != "c1" {
		t.Errorf("client_id = %v, want c1", gotBody["client_id"])
	}
	if gotBody["refresh_token"] != "old-refresh" {
		t.Errorf("refresh_token = %v, want old-refresh", gotBody["refresh_token"])
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty for public refresh", gotAuth)
	}
}

func TestRefreshAccessTokenPropagatesErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(logIDHeader, "log-1")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code": 4100, "msg": "invalid refresh token"}`))
	}))
	defer server.Close()

	app, err := newOAuthApp("c1", WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("newOAuthApp() error = %v", err)
	}

	_, err = app.refreshAccessToken(context.Background(), "bad", "")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Code != 4100 || apiErr.LogID != "log-1" {
		t.Errorf("APIError = %+v, want code 4100 and logid log-1", apiErr)
	}
	if !strings.Contains(apiErr.Error(), "invalid refresh token") {
		t.Errorf("Error() = %q, missing message", apiErr.Error())
	}
}

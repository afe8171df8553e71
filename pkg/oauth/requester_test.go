package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckResponse(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantErr  bool
		wantAPI  bool
		wantAuth bool
	}{
		{"success", http.StatusOK, `{"access_token": "t"}`, false, false, false},
		{"api error envelope", http.StatusBadRequest, `{"code": 4000, "msg": "bad request"}`, true, true, false},
		{"api error with 200 status", http.StatusOK, `{"code": 4000, "msg": "bad request"}`, true, true, false},
		{"oauth error envelope", http.StatusBadRequest, `{"error_code": "authorization_pending"}`, true, false, true},
		{"non-json error page", http.StatusBadGateway, `<html>bad gateway</html>`, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkResponse(tt.status, []byte(tt.body), "log-1")
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}

			var apiErr *APIError
			if got := errors.As(err, &apiErr); got != tt.wantAPI {
				t.Errorf("errors.As APIError = %v, want %v", got, tt.wantAPI)
			}
			var authErr *AuthError
			if got := errors.As(err, &authErr); got != tt.wantAuth {
				t.Errorf("errors.As AuthError = %v, want %v", got, tt.wantAuth)
			}
		})
	}
}

func TestRequesterCapturesLogID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(logIDHeader, "req-123")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"code": 500, "msg": "boom"}`))
	}))
	defer server.Close()

	r := newRequester(server.Client(), nil)
	err := r.postJSON(context.Background(), server.URL, "", map[string]any{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.LogID != "req-123" {
		t.Errorf("LogID = %q, want req-123", apiErr.LogID)
	}
	if apiErr.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d, want 500", apiErr.HTTPStatus)
	}
}

func TestRequesterSendsJSONAndRequestID(t *testing.T) {
	var gotContentType, gotRequestID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	r := newRequester(server.Client(), nil)
	if err := r.postJSON(context.Background(), server.URL, "", map[string]any{"a": 1}, nil); err != nil {
		t.Fatalf("postJSON() error = %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", gotContentType)
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID is empty, want a generated request id")
	}
}

func TestRequesterContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newRequester(server.Client(), nil)
	if err := r.postJSON(ctx, server.URL, "", map[string]any{}, nil); err == nil {
		t.Error("expected error for cancelled context")
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestErrorHandlingMiddlewareRecoversPanics(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Status = %d, want 500", w.Code)
	}

	var env Envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("Failed to decode envelope: %v", err)
	}
	if env.Success {
		t.Error("Envelope success = true after panic")
	}
	if env.Message != "Internal Server Error" {
		t.Errorf("Message = %q", env.Message)
	}
}

func TestErrorHandlingMiddlewarePassesThrough(t *testing.T) {
	handler := ErrorHandlingMiddleware(zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			RespondWithData(w, http.StatusOK, map[string]string{"ok": "yes"})
		}))

	req := httptest.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want 200", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
}

func TestMethodOverrideMiddleware(t *testing.T) {
	var seenMethod string
	handler := MethodOverrideMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenMethod = r.Method
			w.WriteHeader(http.StatusOK)
		}))

	tests := []struct {
		name   string
		method string
		target string
		header string
		want   string
	}{
		{"query override to DELETE", "POST", "/products/1?_method=DELETE", "", "DELETE"},
		{"query override to PUT", "POST", "/products/1?_method=PUT", "", "PUT"},
		{"header override", "POST", "/products/1", "PUT", "PUT"},
		{"only POST may be overridden", "GET", "/products/1?_method=DELETE", "", "GET"},
		{"unknown override ignored", "POST", "/products/1?_method=PATCH", "", "POST"},
		{"no override", "POST", "/products/1", "", "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-HTTP-Method-Override", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if seenMethod != tt.want {
				t.Errorf("Method = %q, want %q", seenMethod, tt.want)
			}
		})
	}
}

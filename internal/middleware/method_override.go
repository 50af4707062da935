package middleware

import "net/http"

// MethodOverrideMiddleware lets browser forms express PUT and DELETE.
// Only a POST may be overridden, and only via the _method query parameter
// or the X-HTTP-Method-Override header; the body is left untouched so
// multipart payloads can still be parsed downstream.
func MethodOverrideMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				override := r.URL.Query().Get("_method")
				if override == "" {
					override = r.Header.Get("X-HTTP-Method-Override")
				}

				switch override {
				case http.MethodPut, http.MethodDelete:
					r.Method = override
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"log"
	"net"
	"net/http"
	"os"
	"strings"
)

// SecurityMiddleware enforces the mobile app API key when one is configured
// and logs every API request with the caller's identity.
func SecurityMiddleware(next http.Handler) http.Handler {
	expectedKey := os.Getenv("API_KEY")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if expectedKey != "" {
			apiKey := r.Header.Get("x-api-key")
			if apiKey != expectedKey {
				http.Error(w, "Invalid or missing API key", http.StatusUnauthorized)
				log.Printf("[SECURITY] Blocked - Invalid API key. IP=%s Path=%s", getClientIP(r), r.URL.Path)
				return
			}
		}

		userID := "-"
		if claims := GetClaims(r); claims != nil {
			userID = claims.UserID
		}
		log.Printf("[API] %s %s IP=%s User=%s", r.Method, r.URL.Path, getClientIP(r), userID)

		next.ServeHTTP(w, r)
	})
}

// getClientIP resolves the caller address behind proxies.
func getClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

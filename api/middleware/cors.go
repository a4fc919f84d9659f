package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8080",
}

// CORS returns middleware that applies the allowed origin policy. An empty
// origin list falls back to the local development origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Sirene-Token", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Sirene-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}

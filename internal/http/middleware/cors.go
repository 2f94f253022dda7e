package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows browser clients to call the API with the caller headers.
// An empty origins list allows any origin.
func CORS(origins []string, next http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", GolferHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler(next)
}

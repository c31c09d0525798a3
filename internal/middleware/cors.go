package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

var corsMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
	http.MethodDelete, http.MethodHead, http.MethodOptions,
}

func corsOptions(methods []string) cors.Options {
	return cors.Options{
		AllowOriginFunc:  func(r *http.Request, origin string) bool { return true },
		AllowedMethods:   methods,
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}
}

// * CORS allows any origin (echoed back so credentials work), any method and any header.
// * Methods outside the common set get a handler built for that method alone.
func CORS() func(http.Handler) http.Handler {
	common := cors.New(corsOptions(corsMethods))

	return func(next http.Handler) http.Handler {
		handler := common.Handler(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method := r.Method
			if requested := r.Header.Get("Access-Control-Request-Method"); r.Method == http.MethodOptions && requested != "" {
				method = strings.ToUpper(requested)
			}

			if slices.Contains(corsMethods, method) {
				handler.ServeHTTP(w, r)
				return
			}
			cors.New(corsOptions([]string{method})).Handler(next).ServeHTTP(w, r)
		})
	}
}

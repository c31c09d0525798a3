package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/internal/metrics"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/errors"
	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const RequestIDHeader = "X-Request-ID"

type ctxKey int

const (
	requestIDKey ctxKey = iota
	sessionKey
)

type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

// * LoggingMiddleware tags each request with an ID, logs it once it finishes
// * and turns handler panics into a 500 failure envelope
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))

		rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			rec := recover()
			if rec == http.ErrAbortHandler {
				logger.Warn("%s %s aborted [%s]", r.Method, r.RequestURI, id)
				panic(rec)
			}
			if rec != nil {
				logger.Error("panic serving %s %s [%s]: %v", r.Method, r.RequestURI, id, rec)
				if !rr.wroteHeader {
					errors.WriteHTTPError(rr, errors.New(
						"INTERNAL_ERROR",
						"Internal server error",
						fmt.Sprintf("request %s failed", id),
						fmt.Errorf("%v", rec),
						errors.LevelError,
					))
				}
			}

			duration := time.Since(start)
			logger.Info("%s %s %d %s [%s]", r.Method, r.RequestURI, rr.statusCode, duration, id)
		}()

		next.ServeHTTP(rr, r)
	})
}

// * Instrument records request metrics by route template; it runs as a mux
// * middleware so the matched route is known
func Instrument(recorder metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rr := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rr, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			recorder.ObserveRequest(route, rr.statusCode, time.Since(start))
		})
	}
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (rr *responseRecorder) WriteHeader(code int) {
	if rr.wroteHeader {
		return
	}
	rr.statusCode = code
	rr.wroteHeader = true
	rr.ResponseWriter.WriteHeader(code)
}

func (rr *responseRecorder) Write(b []byte) (int, error) {
	if !rr.wroteHeader {
		rr.WriteHeader(http.StatusOK)
	}
	return rr.ResponseWriter.Write(b)
}

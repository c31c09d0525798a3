package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/insight-gateway/pkg/logger"
)

type ErrorLevel int

const (
	LevelFatal ErrorLevel = iota + 1
	LevelError
	LevelWarning
	LevelInfo
)

func (l ErrorLevel) String() string {
	return [...]string{"", "Fatal", "Error", "Warning", "Info"}[l]
}

// * Kind tells callers what sort of failure happened, independent of the message
type Kind string

const (
	KindInternal            Kind = "internal"
	KindInvalidInput        Kind = "invalid_input"
	KindNotFound            Kind = "not_found"
	KindUpstreamUnavailable Kind = "upstream_unavailable"
)

type ApplicationError struct {
	Reference   string
	Kind        Kind
	Title       string
	Detail      string
	RootCause   error
	Level       ErrorLevel
	OccurredAt  time.Time
	CallerTrace []string
}

func (e *ApplicationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Reference, e.Title)

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}

	if e.RootCause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.RootCause)
	}

	return b.String()
}

func (e *ApplicationError) Unwrap() error {
	return e.RootCause
}

func New(ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	return &ApplicationError{
		Reference:   ref,
		Kind:        KindInternal,
		Title:       title,
		Detail:      detail,
		RootCause:   cause,
		Level:       level,
		OccurredAt:  time.Now().UTC(),
		CallerTrace: captureCallerInfo(3),
	}
}

// * NewKind is New with an explicit failure kind
func NewKind(kind Kind, ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	e := New(ref, title, detail, cause, level)
	e.Kind = kind
	e.CallerTrace = captureCallerInfo(3)
	return e
}

func Wrap(ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	return New(ref, title, detail, cause, level)
}

// * KindOf returns the kind of the first ApplicationError in the chain,
// * KindInternal for anything else
func KindOf(err error) Kind {
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindInternal
}

// * ReferenceOf returns the error reference or "" for foreign errors
func ReferenceOf(err error) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Reference
	}
	return ""
}

func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func captureCallerInfo(skip int) []string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	pc = pc[:n]
	frames := runtime.CallersFrames(pc)

	var trace []string
	for {
		frame, more := frames.Next()
		trace = append(trace, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return trace
}

type ErrorDetail struct {
	Kind      Kind   `json:"kind"`
	Reference string `json:"reference,omitempty"`
}

// * FailureResponse is the failure side of the response envelope
type FailureResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   ErrorDetail `json:"error"`
}

func NewFailureResponse(err error) FailureResponse {
	return FailureResponse{
		Success: false,
		Message: err.Error(),
		Error: ErrorDetail{
			Kind:      KindOf(err),
			Reference: ReferenceOf(err),
		},
	}
}

// * LevelOf returns the level of the first ApplicationError in the chain,
// * LevelError for anything else
func LevelOf(err error) ErrorLevel {
	var appErr *ApplicationError
	if errors.As(err, &appErr) && appErr.Level != 0 {
		return appErr.Level
	}
	return LevelError
}

// * Log writes err at the severity its level asks for
func Log(err error) {
	switch LevelOf(err) {
	case LevelFatal, LevelError:
		logger.Error("%v", err)
	case LevelWarning:
		logger.Warn("%v", err)
	default:
		logger.Info("%v", err)
	}
}

func WriteHTTPError(w http.ResponseWriter, err error) {
	resp := NewFailureResponse(err)
	status := StatusFor(resp.Error.Kind)

	Log(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

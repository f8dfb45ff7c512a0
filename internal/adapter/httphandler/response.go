package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
	"github.com/niksmo/smartmart/pkg/resource"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v Envelope) {
	const op = "httphandler.writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Status: statusSuccess, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	writeJSON(w, statusFor(kind), Envelope{
		Status: statusError,
		Error:  &ErrorBody{Kind: string(kind), Message: err.Error()},
	})
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthenticated:
		return http.StatusUnauthorized
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	case domain.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fromResource converts an envelope emission, mapping the payload with fn.
func fromResource[T, D any](r resource.Resource[T], fn func(T) D) Envelope {
	env := Envelope{Status: statusLoading}
	r.Match(
		func() {},
		func(v T) {
			env = Envelope{Status: statusSuccess, Data: fn(v)}
		},
		func(e resource.Error) {
			env = Envelope{
				Status: statusError,
				Error:  &ErrorBody{Kind: e.Kind, Message: e.Message},
			}
		},
	)
	return env
}

// settle waits for the first non-loading emission of src.
func settle[T any](
	ctx context.Context, src <-chan resource.Resource[T],
) (resource.Resource[T], error) {
	for {
		select {
		case <-ctx.Done():
			return resource.Resource[T]{}, fmt.Errorf(
				"%w: %w", domain.ErrTimeout, ctx.Err(),
			)
		case r, ok := <-src:
			if !ok {
				return resource.Resource[T]{}, errors.New("stream closed")
			}
			if !r.IsLoading() {
				return r, nil
			}
		}
	}
}

func writeResource[T, D any](
	w http.ResponseWriter, r resource.Resource[T], fn func(T) D,
) {
	status := http.StatusOK
	if e, ok := r.Err(); ok {
		status = statusFor(domain.ErrorKind(e.Kind))
	}
	writeJSON(w, status, fromResource(r, fn))
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON data: %w: %w", domain.ErrValidation, err)
	}
	return nil
}

func extractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	if len(bearer) > 7 && strings.ToUpper(bearer[0:7]) == "BEARER " {
		return strings.TrimSpace(bearer[7:])
	}
	return ""
}

// userResolver maps the bearer session of a request to its owner. A
// request without credentials acts as the guest user.
type userResolver struct {
	auth port.Authenticator
}

func (u userResolver) user(r *http.Request) (domain.UserID, error) {
	token := extractToken(r)
	if token == "" {
		if r.Header.Get("Authorization") != "" {
			return "", fmt.Errorf("malformed authorization header: %w", domain.ErrUnauthenticated)
		}
		return domain.GuestUserID, nil
	}
	s, err := u.auth.Session(r.Context(), token)
	if err != nil {
		return "", err
	}
	return s.UserID, nil
}

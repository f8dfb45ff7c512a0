package httphandler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/niksmo/smartmart/internal/core/domain"
	"github.com/niksmo/smartmart/internal/core/port"
)

// POST   v1/auth/signin    {email, password}
// POST   v1/auth/signup    {name, email, password, confirmPassword}
// POST   v1/auth/federated {idToken}
// POST   v1/auth/signout   Authorization: Bearer
// POST   v1/auth/reset     {email}
// GET    v1/auth/me        Authorization: Bearer

type AuthHandler struct {
	auth port.Authenticator
}

func RegisterAuth(mux *http.ServeMux, auth port.Authenticator) {
	h := AuthHandler{auth}
	mux.Handle("POST /v1/auth/signin", withTimeout(h.SignIn))
	mux.Handle("POST /v1/auth/signup", withTimeout(h.SignUp))
	mux.Handle("POST /v1/auth/federated", withTimeout(h.SignInFederated))
	mux.Handle("POST /v1/auth/signout", withTimeout(h.SignOut))
	mux.Handle("POST /v1/auth/reset", withTimeout(h.ResetPassword))
	mux.Handle("GET /v1/auth/me", withTimeout(h.Me))
}

func (h AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignIn"

	var req SignInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	s, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, toSession(s))
}

func (h AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignUp"

	var req SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	res, err := h.auth.SignUp(
		r.Context(), req.Email, req.Password, req.ConfirmPassword, req.Name,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSignInResult(w, http.StatusCreated, res)
}

func (h AuthHandler) SignInFederated(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.SignInFederated"

	var req FederatedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	res, err := h.auth.SignInFederated(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSignInResult(w, http.StatusOK, res)
}

func (h AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), extractToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil)
}

func (h AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.ResetPassword"

	var req ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, fmt.Errorf("%s: %w", op, err))
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusAccepted, nil)
}

// Me returns the session and, when stored, the profile of the caller.
func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "AuthHandler.Me"
	log := slog.With("op", op)

	s, err := h.auth.Session(r.Context(), extractToken(r))
	if err != nil {
		writeError(w, err)
		return
	}

	me := Me{Session: toSession(s)}
	me.Session.Token = ""

	u, err := h.auth.Profile(r.Context(), s.UserID)
	switch {
	case err == nil:
		profile := toUser(u)
		me.Profile = &profile
	case errors.Is(err, domain.ErrNotFound):
	default:
		log.Warn("profile lookup failed", "user", s.UserID, "err", err)
	}
	writeSuccess(w, http.StatusOK, me)
}

// writeSignInResult reports a failed profile write as a warning next to
// the issued session.
func writeSignInResult(w http.ResponseWriter, status int, res domain.SignInResult) {
	env := Envelope{Status: statusSuccess, Data: toSession(res.Session)}
	if res.ProfileErr != nil {
		env.Warning = &ErrorBody{
			Kind:    string(domain.KindOf(res.ProfileErr)),
			Message: res.ProfileErr.Error(),
		}
	}
	writeJSON(w, status, env)
}

package httpapi

import (
	"errors"
	"net/http"
	"time"

	"authgate.org/internal/auth"
	"authgate.org/internal/obs"
	"authgate.org/internal/validate"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token    string    `json:"token"`
	Expires  time.Time `json:"expires"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	_, err := a.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			obs.ObserveRegistration("invalid")
			writeValidationErrors(w, r, verr.Messages)
		case errors.Is(err, auth.ErrAlreadyExists):
			obs.ObserveRegistration("taken")
			writeError(w, r, http.StatusBadRequest, "Username already exists")
		default:
			obs.ObserveRegistration("error")
			writeError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	obs.ObserveRegistration("ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "User registered successfully",
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		var verr *validate.Error
		switch {
		case errors.As(err, &verr):
			obs.ObserveLogin("invalid")
			writeValidationErrors(w, r, verr.Messages)
		case errors.Is(err, auth.ErrUnauthorized):
			// Deliberately the same answer for unknown users and wrong
			// passwords.
			obs.ObserveLogin("unauthorized")
			unauthorized(w, r, "invalid username or password")
		default:
			obs.ObserveLogin("error")
			writeError(w, r, http.StatusInternalServerError, err.Error())
		}
		return
	}

	obs.ObserveLogin("ok")
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:    session.Token,
		Expires:  session.ExpiresAt,
		Username: session.Username,
		Role:     session.Role,
	})
}

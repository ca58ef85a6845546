package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"authgate.org/internal/auth"
	"authgate.org/internal/users"
	"authgate.org/internal/validate"
)

type profileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *API) handleUsersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listProfiles(w, r)
	case http.MethodPost:
		a.requireAdmin(w, r, a.createProfile)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleUserResource(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getProfile(w, r, id)
	case http.MethodPut:
		a.requireAdmin(w, r, func(w http.ResponseWriter, r *http.Request) {
			a.updateProfile(w, r, id)
		})
	case http.MethodDelete:
		a.requireAdmin(w, r, func(w http.ResponseWriter, r *http.Request) {
			a.deleteProfile(w, r, id)
		})
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

// requireAdmin gates mutating directory operations behind the Admin role.
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	RequireRole(auth.RoleAdmin)(next).ServeHTTP(w, r)
}

func (a *API) listProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := a.directory.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	if list == nil {
		list = []users.Profile{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request, id string) {
	p, err := a.directory.Get(r.Context(), id)
	if err != nil {
		handleProfileError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := a.directory.Create(r.Context(), req.Name, req.Email)
	if err != nil {
		handleProfileError(w, r, "", err)
		return
	}
	w.Header().Set("Location", "/api/users/"+p.ID)
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request, id string) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	p, err := a.directory.Update(r.Context(), id, req.Name, req.Email)
	if err != nil {
		handleProfileError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (a *API) deleteProfile(w http.ResponseWriter, r *http.Request, id string) {
	if err := a.directory.Delete(r.Context(), id); err != nil {
		handleProfileError(w, r, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func handleProfileError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		writeValidationErrors(w, r, verr.Messages)
	case errors.Is(err, users.ErrNotFound):
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("User with ID %s not found", id))
	default:
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

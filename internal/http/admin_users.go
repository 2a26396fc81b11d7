package http

import (
	"net/http"

	"github.com/goliatone/go-sitecms/internal/identity"
)

type userRolePayload struct {
	Role string `json:"role"`
}

func (api *AdminAPI) registerUserRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "users")
	api.handle(mux, "GET "+root, api.handleUserList)
	api.handle(mux, "PUT "+joinPath(root, "{id}/role"), api.handleUserRole)
	api.handle(mux, "DELETE "+joinPath(root, "{id}"), api.handleUserDelete)
}

func (api *AdminAPI) handleUserList(w http.ResponseWriter, r *http.Request) {
	users, err := api.users.List(r.Context(), callerID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (api *AdminAPI) handleUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	var payload userRolePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, "invalid JSON payload")
		return
	}
	role, err := identity.ParseRole(payload.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := api.users.UpdateRole(r.Context(), callerID(r), id, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (api *AdminAPI) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid id")
		return
	}
	if err := api.users.Delete(r.Context(), callerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

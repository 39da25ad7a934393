package roles

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/directoryapi/apiresponse"
	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/paging"
	"adminconsole/infrastructure/sqlite"
)

// ListRolesQueryHandler serves GET /roles?search=&page=.
func ListRolesQueryHandler(db *sqlite.DB, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := ListRoles(r.Context(), db, paging.ParsePage(q.Get("page")), pageSize, q.Get("search"))
		if err != nil {
			slog.Error("directory api: list roles failed", slog.Any("err", err))
			apiresponse.WriteError(w, http.StatusInternalServerError, "failed to load roles")
			return
		}
		apiresponse.WriteJSON(w, http.StatusOK, page)
	}
}

// UpdateRoleCommandHandler serves PATCH /roles/{id}.
func UpdateRoleCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var patch Patch
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			apiresponse.WriteError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		role, err := UpdateRole(r.Context(), db, auditSvc, apiresponse.Actor(r), id, patch)
		switch {
		case err == nil:
			apiresponse.WriteJSON(w, http.StatusOK, role)
		case errors.Is(err, ErrRoleNotFound):
			apiresponse.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrNameRequired):
			apiresponse.WriteError(w, http.StatusBadRequest, "Name is required")
		case errors.Is(err, ErrInvalidRole):
			apiresponse.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("directory api: update role failed", slog.String("role_id", id), slog.Any("err", err))
			apiresponse.WriteError(w, http.StatusInternalServerError, "failed to update role")
		}
	}
}

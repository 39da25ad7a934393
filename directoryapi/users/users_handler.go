package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adminconsole/directoryapi/apiresponse"
	"adminconsole/infrastructure/audit"
	"adminconsole/infrastructure/paging"
	"adminconsole/infrastructure/sqlite"
)

// ListUsersQueryHandler serves GET /users?search=&page=.
func ListUsersQueryHandler(db *sqlite.DB, pageSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := ListUsers(r.Context(), db, paging.ParsePage(q.Get("page")), pageSize, q.Get("search"))
		if err != nil {
			slog.Error("directory api: list users failed", slog.Any("err", err))
			apiresponse.WriteError(w, http.StatusInternalServerError, "failed to load users")
			return
		}
		apiresponse.WriteJSON(w, http.StatusOK, page)
	}
}

// DeleteUserCommandHandler serves DELETE /users/{id}.
func DeleteUserCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := DeleteUser(r.Context(), db, auditSvc, apiresponse.Actor(r), id); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				apiresponse.WriteError(w, http.StatusNotFound, err.Error())
				return
			}
			slog.Error("directory api: delete user failed", slog.String("user_id", id), slog.Any("err", err))
			apiresponse.WriteError(w, http.StatusInternalServerError, "failed to delete user")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

package http

import (
	"adminconsole/directoryapi/roles"
	"adminconsole/directoryapi/users"
	"adminconsole/frontend/console"

	"github.com/go-chi/chi/v5"
)

// RegisterConsoleRoutes registers the console page and its commands.
func (s *Server) RegisterConsoleRoutes(r chi.Router) chi.Router {
	r.Route(console.Path, func(r chi.Router) {
		r.Get("/", console.ConsolePageQueryHandler(s.Sessions))
		r.Post("/tab", console.SetTabCommandHandler(s.Sessions))
		r.Post("/page", console.SetPageCommandHandler(s.Sessions))
		r.Post("/search", console.SearchCommandHandler(s.Sessions))
		r.Post("/retry", console.RetryCommandHandler(s.Sessions))

		r.Post("/users/{id}/delete", console.OpenDeleteCommandHandler(s.Sessions))
		r.Post("/delete/confirm", console.ConfirmDeleteCommandHandler(s.Sessions))
		r.Post("/delete/cancel", console.CancelDeleteCommandHandler(s.Sessions))

		r.Post("/roles/{id}/edit", console.OpenRoleEditCommandHandler(s.Sessions))
		r.Post("/roles/save", console.SaveRoleCommandHandler(s.Sessions))
		r.Post("/roles/cancel", console.CancelRoleEditCommandHandler(s.Sessions))
	})
	return r
}

// RegisterDirectoryRoutes registers the directory API.
func (s *Server) RegisterDirectoryRoutes(r chi.Router) chi.Router {
	r.Get("/users", users.ListUsersQueryHandler(s.DB, s.PageSize))
	r.Delete("/users/{id}", users.DeleteUserCommandHandler(s.DB, s.Audit))
	r.Get("/roles", roles.ListRolesQueryHandler(s.DB, s.PageSize))
	r.Patch("/roles/{id}", roles.UpdateRoleCommandHandler(s.DB, s.Audit))
	return r
}

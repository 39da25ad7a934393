package roles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"adminconsole/infrastructure/audit"
	"adminconsole/models"
)

func newRolesRouter(t *testing.T) http.Handler {
	t.Helper()
	db := openRolesTestDB(t)
	seedRoles(t, db)

	r := chi.NewRouter()
	r.Get("/roles", ListRolesQueryHandler(db, 10))
	r.Patch("/roles/{id}", UpdateRoleCommandHandler(db, audit.NewService()))
	return r
}

func patch(h http.Handler, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Message
}

func TestUpdateRoleCommandHandler(t *testing.T) {
	h := newRolesRouter(t)

	rec := patch(h, "/roles/r2", `{"name":"Writer","description":"Writes","isDefault":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body %s", rec.Code, rec.Body.String())
	}
	var role models.Role
	if err := json.NewDecoder(rec.Body).Decode(&role); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if role.ID != "r2" || role.Name != "Writer" || role.Description != "Writes" || !role.IsDefault {
		t.Fatalf("unexpected role: %+v", role)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/roles?search=admin", nil))
	var page models.Paged[models.Role]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].IsDefault {
		t.Fatalf("admin should no longer be default: %+v", page.Data)
	}
}

func TestUpdateRoleCommandHandlerErrors(t *testing.T) {
	h := newRolesRouter(t)

	tests := []struct {
		name    string
		path    string
		body    string
		code    int
		message string
	}{
		{name: "empty name", path: "/roles/r1", body: `{"name":"  "}`, code: http.StatusBadRequest, message: "Name is required"},
		{name: "bad json", path: "/roles/r1", body: `{"name":`, code: http.StatusBadRequest, message: "invalid JSON body"},
		{name: "unknown field", path: "/roles/r1", body: `{"title":"x"}`, code: http.StatusBadRequest, message: "invalid JSON body"},
		{name: "missing role", path: "/roles/nope", body: `{"name":"x"}`, code: http.StatusNotFound, message: "role not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := patch(h, tt.path, tt.body)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if msg := errorMessage(t, rec); msg != tt.message {
				t.Fatalf("message = %q, want %q", msg, tt.message)
			}
		})
	}
}

package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"adminconsole/infrastructure/audit"
	"adminconsole/models"
)

func newUsersRouter(t *testing.T) http.Handler {
	t.Helper()
	db := openUsersTestDB(t)
	seedUsers(t, db, [2]string{"Ada", "Lovelace"}, [2]string{"Alan", "Turing"}, [2]string{"Grace", "Hopper"})

	r := chi.NewRouter()
	r.Get("/users", ListUsersQueryHandler(db, 2))
	r.Delete("/users/{id}", DeleteUserCommandHandler(db, audit.NewService()))
	return r
}

func TestListUsersQueryHandler(t *testing.T) {
	h := newUsersRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?page=abc", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page models.Paged[models.User]
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Data) != 2 || page.Pages != 2 || page.Prev != nil || page.Next == nil || *page.Next != 2 {
		t.Fatalf("malformed page should serve page 1: %+v", page)
	}
	if page.Data[0].RoleID != "r1" {
		t.Fatalf("roleId not served: %+v", page.Data[0])
	}
}

func TestDeleteUserCommandHandler(t *testing.T) {
	h := newUsersRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/u02", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/users/u02", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.Message != "user not found" {
		t.Fatalf("unexpected body: %v %+v", err, body)
	}
}

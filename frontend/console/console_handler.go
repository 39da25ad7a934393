package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	sessioncontext "adminconsole/frontend/shared/context"
	"adminconsole/infrastructure/cache"
	"adminconsole/infrastructure/mutation"
	"adminconsole/infrastructure/paging"
	"adminconsole/infrastructure/urlstate"

	"github.com/go-chi/chi/v5"
)

// FetchHeader marks requests sent by the console script. They get JSON
// back instead of a redirect.
const FetchHeader = "X-Console-Fetch"

// Sessions is where handlers find the console session of a request.
type Sessions = cache.SessionCache[*Session]

// Response is the JSON answer to a scripted console action.
type Response struct {
	URL         string `json:"url"`
	HTML        string `json:"html"`
	Tab         string `json:"tab"`
	Search      string `json:"search"`
	Placeholder string `json:"placeholder"`
	ButtonText  string `json:"buttonText"`
}

func sessionFor(w http.ResponseWriter, r *http.Request, sessions *Sessions) (*Session, bool) {
	token, ok := sessioncontext.GetSessionTokenFromContext(r.Context())
	if !ok {
		http.Error(w, "console session missing", http.StatusBadRequest)
		return nil, false
	}
	s, ok := sessions.Find(token)
	if !ok {
		http.Error(w, "console session expired", http.StatusConflict)
		return nil, false
	}
	return s, true
}

func formTab(r *http.Request) (urlstate.Tab, bool) {
	return urlstate.ParseTab(strings.TrimSpace(r.FormValue("tab")))
}

// ConsolePageQueryHandler renders the console for the URL it was opened with.
func ConsolePageQueryHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}

		s.Load(r.URL.Query())
		view := s.Refresh(r.Context())
		if r.Context().Err() != nil {
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := s.PageData(view, sessioncontext.GetCSRFTokenFromContext(r.Context()))
		if err := ConsolePage(data).Render(r.Context(), w); err != nil {
			slog.Error("console: render page failed", slog.Any("err", err))
			http.Error(w, "failed to render console", http.StatusInternalServerError)
			return
		}
	}
}

func SetTabCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		tab, ok := formTab(r)
		if !ok {
			http.Error(w, "unknown tab", http.StatusBadRequest)
			return
		}
		s.SetActiveTab(tab)
		respond(w, r, s)
	}
}

func SetPageCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		tab, ok := formTab(r)
		if !ok {
			http.Error(w, "unknown tab", http.StatusBadRequest)
			return
		}
		s.SetPage(tab, paging.ParsePage(r.FormValue("page")))
		respond(w, r, s)
	}
}

// SearchCommandHandler feeds one keystroke into the search debouncer. A
// request abandoned before the input settles writes nothing.
func SearchCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		tab, ok := formTab(r)
		if !ok {
			http.Error(w, "unknown tab", http.StatusBadRequest)
			return
		}
		if err := s.Search(r.Context(), tab, r.FormValue("search")); err != nil {
			slog.Debug("console: search superseded", slog.String("tab", string(tab)), slog.Any("err", err))
			return
		}
		respond(w, r, s)
	}
}

// RetryCommandHandler reloads the active tab. Failed queries are never
// fresh, so the reload refetches them.
func RetryCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		respond(w, r, s)
	}
}

func OpenDeleteCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := s.OpenDelete(chi.URLParam(r, "id")); err != nil {
			dialogError(w, err)
			return
		}
		respond(w, r, s)
	}
}

func ConfirmDeleteCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := s.ConfirmDelete(r.Context()); err != nil {
			if errors.Is(err, ErrDialogClosed) || errors.Is(err, ErrDialogBusy) {
				dialogError(w, err)
				return
			}
			// Shown in the dialog.
			slog.Info("console: delete user failed", slog.Any("err", err))
		}
		respond(w, r, s)
	}
}

func CancelDeleteCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := s.CancelDelete(); err != nil {
			dialogError(w, err)
			return
		}
		respond(w, r, s)
	}
}

func OpenRoleEditCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := s.OpenRoleEdit(chi.URLParam(r, "id")); err != nil {
			dialogError(w, err)
			return
		}
		respond(w, r, s)
	}
}

func SaveRoleCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form data", http.StatusBadRequest)
			return
		}
		in := mutation.RoleInput{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			IsDefault:   r.FormValue("isDefault") == "true" || r.FormValue("isDefault") == "on",
		}
		if err := s.SaveRole(r.Context(), in); err != nil {
			if errors.Is(err, ErrDialogClosed) || errors.Is(err, ErrDialogBusy) {
				dialogError(w, err)
				return
			}
			slog.Info("console: update role failed", slog.Any("err", err))
		}
		respond(w, r, s)
	}
}

func CancelRoleEditCommandHandler(sessions *Sessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := sessionFor(w, r, sessions)
		if !ok {
			return
		}
		if err := s.CancelRoleEdit(); err != nil {
			dialogError(w, err)
			return
		}
		respond(w, r, s)
	}
}

func dialogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRowNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrDialogBusy), errors.Is(err, ErrDialogClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// respond refreshes the session and answers a console action: JSON for the
// console script, otherwise a redirect to the canonical URL.
func respond(w http.ResponseWriter, r *http.Request, s *Session) {
	view := s.Refresh(r.Context())
	if r.Context().Err() != nil {
		return
	}

	if r.Header.Get(FetchHeader) == "" {
		http.Redirect(w, r, view.Href, http.StatusSeeOther)
		return
	}

	var body bytes.Buffer
	data := s.PageData(view, sessioncontext.GetCSRFTokenFromContext(r.Context()))
	if err := ConsoleBody(data).Render(r.Context(), &body); err != nil {
		slog.Error("console: render body failed", slog.Any("err", err))
		http.Error(w, "failed to render console", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(Response{
		URL:         view.Href,
		HTML:        body.String(),
		Tab:         string(view.Tab),
		Search:      view.SearchInput,
		Placeholder: view.Placeholder,
		ButtonText:  view.ButtonText,
	}); err != nil {
		slog.Error("console: encode response failed", slog.Any("err", err))
	}
}

package console

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"adminconsole/infrastructure/cache"
	"adminconsole/infrastructure/debounce"
	"adminconsole/infrastructure/mutation"
	"adminconsole/infrastructure/urlstate"
	"adminconsole/models"
)

// maxRepairs bounds how many pages one refresh may step back.
const maxRepairs = 10

var ErrRowNotFound = errors.New("row is not on the current page")

// Directory is the read side of the directory API.
type Directory interface {
	ListUsers(ctx context.Context, page int, search string) (models.Paged[models.User], error)
	ListRoles(ctx context.Context, page int, search string) (models.Paged[models.Role], error)
	AllRoles(ctx context.Context) (map[string]models.Role, error)
}

// Deps are shared by every session of one console server.
type Deps struct {
	Directory Directory
	Cache     *cache.QueryCache
	Mutations *mutation.Executor
	Debounce  time.Duration
}

// Session is one browser's console: its URL state, search debouncers,
// query observers and open dialogs.
type Session struct {
	deps   Deps
	store  *urlstate.Store
	search map[urlstate.Tab]*debounce.Debouncer[string]
	users  *cache.Observer[models.Paged[models.User]]
	roles  *cache.Observer[models.Paged[models.Role]]
	lookup *cache.Observer[map[string]models.Role]

	Delete   DeleteDialog
	RoleForm RoleForm
}

func NewSession(deps Deps) *Session {
	dir := deps.Directory
	s := &Session{
		deps:  deps,
		store: urlstate.NewStore(Path, nil),
		search: map[urlstate.Tab]*debounce.Debouncer[string]{
			urlstate.TabUsers: debounce.New("", deps.Debounce),
			urlstate.TabRoles: debounce.New("", deps.Debounce),
		},
		users: cache.NewObserver(deps.Cache, func(ctx context.Context, k cache.Key) (models.Paged[models.User], error) {
			return dir.ListUsers(ctx, k.Page, k.Search)
		}),
		roles: cache.NewObserver(deps.Cache, func(ctx context.Context, k cache.Key) (models.Paged[models.Role], error) {
			return dir.ListRoles(ctx, k.Page, k.Search)
		}),
		lookup: cache.NewObserver(deps.Cache, func(ctx context.Context, _ cache.Key) (map[string]models.Role, error) {
			return dir.AllRoles(ctx)
		}),
	}
	return s
}

// Load re-initialises the session from the URL the console was opened with.
func (s *Session) Load(q url.Values) urlstate.ViewState {
	state := s.store.Load(q)
	s.search[urlstate.TabUsers].Reset(state.Users.Search)
	s.search[urlstate.TabRoles].Reset(state.Roles.Search)
	return state
}

func (s *Session) State() urlstate.ViewState {
	return s.store.State()
}

func (s *Session) Href() string {
	return s.store.Href()
}

// SetActiveTab switches tab. Both tabs lose their filters, pending search
// input included.
func (s *Session) SetActiveTab(tab urlstate.Tab) {
	s.store.SetActiveTab(tab)
	for _, d := range s.search {
		d.Reset("")
	}
}

func (s *Session) SetPage(tab urlstate.Tab, page int) {
	s.store.SetPage(tab, page)
}

// Search feeds one keystroke's worth of search text for tab and waits for
// the debouncer to settle. The settled text is applied to the URL state only
// when it differs from the current filter. A ctx error means a newer
// keystroke (or the browser) abandoned this request.
func (s *Session) Search(ctx context.Context, tab urlstate.Tab, text string) error {
	d := s.search[tab]
	d.Set(text)
	settled, err := d.Wait(ctx)
	if err != nil {
		return err
	}
	if settled != s.store.State().Tab(tab).Search {
		s.store.SetSearchText(tab, settled)
	}
	return nil
}

// SearchInput is the raw text currently in tab's search box.
func (s *Session) SearchInput(tab urlstate.Tab) string {
	return s.search[tab].Input()
}

// Refresh loads the active tab and composes its view. An empty page past
// page 1 steps the URL state back a page and loads again.
func (s *Session) Refresh(ctx context.Context) TabView {
	for i := 0; ; i++ {
		state := s.store.State()
		in := TabInput{State: state, SearchInput: s.SearchInput(state.ActiveTab)}
		switch state.ActiveTab {
		case urlstate.TabRoles:
			in.Roles = s.roles.Load(ctx, cache.PageKey(cache.Roles, state.Roles.Page, state.Roles.Search))
		default:
			in.Users = s.users.Load(ctx, cache.PageKey(cache.Users, state.Users.Page, state.Users.Search))
			in.RoleLookup = s.lookup.Load(ctx, cache.LookupKey(cache.Roles)).Data
		}

		view := ComposeTab(in)
		if view.RepairPage == 0 || i >= maxRepairs || ctx.Err() != nil {
			return view
		}
		slog.Debug("console: stepping back from empty page",
			slog.String("tab", string(state.ActiveTab)),
			slog.Int("page", view.Page),
		)
		s.store.SetPage(state.ActiveTab, view.RepairPage)
	}
}

// OpenDelete opens the delete dialog for a user on the current page.
func (s *Session) OpenDelete(id string) error {
	for _, u := range s.users.State().Data.Data {
		if u.ID == id {
			return s.Delete.Open(u)
		}
	}
	return ErrRowNotFound
}

// ConfirmDelete deletes the dialog's target. The dialog carries the outcome.
// The request outlives a caller that goes away so the dialog always settles.
func (s *Session) ConfirmDelete(ctx context.Context) error {
	u, err := s.Delete.Begin()
	if err != nil {
		return err
	}
	err = s.deps.Mutations.DeleteUser(context.WithoutCancel(ctx), u.ID)
	s.Delete.Finish(err)
	return err
}

func (s *Session) CancelDelete() error {
	return s.Delete.Cancel()
}

// OpenRoleEdit opens the role form for a role on the current page.
func (s *Session) OpenRoleEdit(id string) error {
	for _, r := range s.roles.State().Data.Data {
		if r.ID == id {
			return s.RoleForm.Open(r)
		}
	}
	return ErrRowNotFound
}

// SaveRole submits the role form. The form carries the outcome.
func (s *Session) SaveRole(ctx context.Context, in mutation.RoleInput) error {
	id, in, err := s.RoleForm.Begin(in)
	if err != nil {
		return err
	}
	_, err = s.deps.Mutations.UpdateRole(context.WithoutCancel(ctx), id, in)
	s.RoleForm.Finish(err)
	return err
}

func (s *Session) CancelRoleEdit() error {
	return s.RoleForm.Cancel()
}

// Close stops the session's timers and detaches its observers.
func (s *Session) Close() {
	for _, d := range s.search {
		d.Stop()
	}
	s.users.Close()
	s.roles.Close()
	s.lookup.Close()
}

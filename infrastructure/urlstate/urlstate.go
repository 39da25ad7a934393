// Package urlstate keeps the console's tab, page and search text in one
// ViewState and mirrors it into the console URL.
package urlstate

import (
	"net/url"
	"strconv"
	"sync"

	"adminconsole/infrastructure/paging"
)

type Tab string

const (
	TabUsers Tab = "users"
	TabRoles Tab = "roles"
)

// ParseTab maps raw input to a known tab.
func ParseTab(raw string) (Tab, bool) {
	switch Tab(raw) {
	case TabUsers, TabRoles:
		return Tab(raw), true
	default:
		return TabUsers, false
	}
}

const (
	ParamTab         = "tab"
	ParamPage        = "page"
	ParamSearch      = "search"
	ParamRolesPage   = "rolesPage"
	ParamRolesSearch = "rolesSearch"
)

// TabState is one tab's position and filter.
type TabState struct {
	Page   int
	Search string
}

// ViewState is the whole console view position. Each tab keeps its own
// page and search text.
type ViewState struct {
	ActiveTab Tab
	Users     TabState
	Roles     TabState
}

func Default() ViewState {
	return ViewState{
		ActiveTab: TabUsers,
		Users:     TabState{Page: 1},
		Roles:     TabState{Page: 1},
	}
}

// Parse reads a ViewState from query parameters, defaulting anything
// missing or malformed.
func Parse(q url.Values) ViewState {
	tab, _ := ParseTab(q.Get(ParamTab))
	return ViewState{
		ActiveTab: tab,
		Users:     TabState{Page: paging.ParsePage(q.Get(ParamPage)), Search: q.Get(ParamSearch)},
		Roles:     TabState{Page: paging.ParsePage(q.Get(ParamRolesPage)), Search: q.Get(ParamRolesSearch)},
	}
}

// Encode writes the ViewState as query parameters. Page 1 and empty search
// are omitted; tab is always present.
func (v ViewState) Encode() url.Values {
	q := url.Values{}
	q.Set(ParamTab, string(v.ActiveTab))
	put := func(pageKey, searchKey string, ts TabState) {
		if ts.Page > 1 {
			q.Set(pageKey, strconv.Itoa(ts.Page))
		}
		if ts.Search != "" {
			q.Set(searchKey, ts.Search)
		}
	}
	put(ParamPage, ParamSearch, v.Users)
	put(ParamRolesPage, ParamRolesSearch, v.Roles)
	return q
}

// Href is the URL for path carrying this state.
func (v ViewState) Href(path string) string {
	return path + "?" + v.Encode().Encode()
}

// Tab returns the state of tab t.
func (v ViewState) Tab(t Tab) TabState {
	if t == TabRoles {
		return v.Roles
	}
	return v.Users
}

// Active returns the state of the active tab.
func (v ViewState) Active() TabState {
	return v.Tab(v.ActiveTab)
}

// WithPage returns a copy with tab t on page, search untouched.
func (v ViewState) WithPage(t Tab, page int) ViewState {
	ts := v.Tab(t)
	ts.Page = max(page, 1)
	return v.with(t, ts)
}

// WithTab returns a copy switched to tab t with both tabs' filters cleared.
func (v ViewState) WithTab(t Tab) ViewState {
	return ViewState{ActiveTab: t, Users: TabState{Page: 1}, Roles: TabState{Page: 1}}
}

// WithSearch returns a copy with tab t filtered by text, back on page 1.
func (v ViewState) WithSearch(t Tab, text string) ViewState {
	return v.with(t, TabState{Page: 1, Search: text})
}

func (v ViewState) with(t Tab, ts TabState) ViewState {
	if t == TabRoles {
		v.Roles = ts
	} else {
		v.Users = ts
	}
	return v
}

// Store is the single writer of the console URL. Every operation updates the
// state and rewrites the href in place; there is no history.
type Store struct {
	mu        sync.Mutex
	path      string
	state     ViewState
	href      string
	onReplace func(href string)
}

// NewStore initialises a store from the URL the console was loaded with.
func NewStore(path string, q url.Values) *Store {
	s := &Store{path: path}
	s.state = Parse(q)
	s.href = s.state.Href(path)
	return s
}

// OnReplace registers fn to observe every href rewrite.
func (s *Store) OnReplace(fn func(href string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReplace = fn
}

// Load re-initialises the store from a freshly loaded URL.
func (s *Store) Load(q url.Values) ViewState {
	return s.update(func(ViewState) ViewState { return Parse(q) })
}

func (s *Store) State() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Href() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.href
}

// SetActiveTab switches tab and clears both tabs' page and search.
func (s *Store) SetActiveTab(t Tab) ViewState {
	return s.update(func(v ViewState) ViewState { return v.WithTab(t) })
}

// SetPage moves tab t to page, keeping its search text and the other tab.
func (s *Store) SetPage(t Tab, page int) ViewState {
	return s.update(func(v ViewState) ViewState { return v.WithPage(t, page) })
}

// SetSearchText filters tab t by text and resets its page to 1.
func (s *Store) SetSearchText(t Tab, text string) ViewState {
	return s.update(func(v ViewState) ViewState { return v.WithSearch(t, text) })
}

func (s *Store) update(fn func(ViewState) ViewState) ViewState {
	s.mu.Lock()
	s.state = fn(s.state)
	s.href = s.state.Href(s.path)
	state, href, hook := s.state, s.href, s.onReplace
	s.mu.Unlock()

	if hook != nil {
		hook(href)
	}
	return state
}

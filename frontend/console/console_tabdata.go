package console

import (
	"adminconsole/infrastructure/cache"
	"adminconsole/infrastructure/paging"
	"adminconsole/infrastructure/urlstate"
	"adminconsole/models"
)

// Path is where the console is mounted.
const Path = "/console"

// TabInput is the raw state of both collections plus the URL state.
type TabInput struct {
	State       urlstate.ViewState
	Users       cache.Result[models.Paged[models.User]]
	Roles       cache.Result[models.Paged[models.Role]]
	RoleLookup  map[string]models.Role
	SearchInput string
}

type tabCopy struct {
	label       string
	placeholder string
	button      string
	empty       string
	loading     string
	failed      string
}

var tabCopies = map[urlstate.Tab]tabCopy{
	urlstate.TabUsers: {
		label:       "Users",
		placeholder: "Search by name...",
		button:      "Add user",
		empty:       "No users found",
		loading:     "Loading users...",
		failed:      "Unable to load users. Please try again.",
	},
	urlstate.TabRoles: {
		label:       "Roles",
		placeholder: "Search roles...",
		button:      "Add role",
		empty:       "No roles found",
		loading:     "Loading roles...",
		failed:      "Unable to load roles. Please try again.",
	},
}

var tabOrder = []urlstate.Tab{urlstate.TabUsers, urlstate.TabRoles}

// ComposeTab projects the active tab's collection into a TabView.
func ComposeTab(in TabInput) TabView {
	tab := in.State.ActiveTab
	ts := in.State.Active()
	text := tabCopies[tab]

	v := TabView{
		Tab:            tab,
		Tabs:           tabLinks(in.State),
		Href:           in.State.Href(Path),
		Roles:          in.RoleLookup,
		Page:           ts.Page,
		Search:         ts.Search,
		SearchInput:    in.SearchInput,
		Placeholder:    text.placeholder,
		ButtonText:     text.button,
		EmptyMessage:   text.empty,
		LoadingMessage: text.loading,
		ErrorMessage:   text.failed,
	}

	var (
		status  cache.Status
		hasData bool
		err     error
		meta    models.Paged[struct{}]
	)
	switch tab {
	case urlstate.TabRoles:
		v.Columns, v.Actions = roleColumns, roleActions
		v.Rows = make([]Row, 0, len(in.Roles.Data.Data))
		for _, r := range in.Roles.Data.Data {
			v.Rows = append(v.Rows, RoleRow(r))
		}
		status, hasData, err = in.Roles.Status, in.Roles.HasData, in.Roles.Err
		meta.Pages, meta.Prev, meta.Next = in.Roles.Data.Pages, in.Roles.Data.Prev, in.Roles.Data.Next
	default:
		v.Columns, v.Actions = userColumns, userActions
		v.Rows = make([]Row, 0, len(in.Users.Data.Data))
		for _, u := range in.Users.Data.Data {
			v.Rows = append(v.Rows, UserRow(u))
		}
		status, hasData, err = in.Users.Status, in.Users.HasData, in.Users.Err
		meta.Pages, meta.Prev, meta.Next = in.Users.Data.Pages, in.Users.Data.Prev, in.Users.Data.Next
	}

	v.Loading = status == cache.StatusLoading && !hasData
	v.Failed = status == cache.StatusError
	if v.Failed && err != nil {
		v.Err = err.Error()
	}
	v.Pagination = paginate(in.State, meta.Pages, meta.Prev, meta.Next, v.Failed)

	if status == cache.StatusSuccess && len(v.Rows) == 0 && ts.Page > 1 {
		v.RepairPage = repairTarget(ts.Page, meta.Pages)
	}
	return v
}

// repairTarget is where an empty page steps back to: straight to the last
// page when the server reports one, otherwise one page back.
func repairTarget(page, pages int) int {
	switch {
	case pages > 0 && pages < page:
		return pages
	case pages == 0:
		return 1
	default:
		return page - 1
	}
}

func tabLinks(state urlstate.ViewState) []TabLink {
	links := make([]TabLink, 0, len(tabOrder))
	for _, t := range tabOrder {
		links = append(links, TabLink{
			Tab:    t,
			Label:  tabCopies[t].label,
			Href:   state.WithTab(t).Href(Path),
			Active: t == state.ActiveTab,
		})
	}
	return links
}

func paginate(state urlstate.ViewState, pages int, prev, next *int, disabled bool) Pagination {
	tab := state.ActiveTab
	current := state.Active().Page
	p := Pagination{
		Page:     current,
		Pages:    pages,
		Prev:     prev,
		Next:     next,
		Disabled: disabled,
	}
	if prev != nil {
		p.PrevHref = state.WithPage(tab, *prev).Href(Path)
	}
	if next != nil {
		p.NextHref = state.WithPage(tab, *next).Href(Path)
	}
	for _, n := range paging.Window(current, pages) {
		p.Links = append(p.Links, PageLink{
			Page:    n,
			Href:    state.WithPage(tab, n).Href(Path),
			Current: n == current,
		})
	}
	return p
}

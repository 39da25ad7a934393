package console

import (
	"adminconsole/infrastructure/urlstate"
	"adminconsole/models"
)

// RowKind discriminates the variant held by a Row.
type RowKind int

const (
	RowUser RowKind = iota + 1
	RowRole
)

// Row is one table row: a user or a role, never both.
type Row struct {
	Kind RowKind
	User models.User
	Role models.Role
}

func UserRow(u models.User) Row { return Row{Kind: RowUser, User: u} }

func RoleRow(r models.Role) Row { return Row{Kind: RowRole, Role: r} }

func (r Row) ID() string {
	if r.Kind == RowRole {
		return r.Role.ID
	}
	return r.User.ID
}

// Cell is the render-ready content of one column for one row.
type Cell struct {
	Text   string
	Title  string
	Avatar string
	Badge  string
}

type Column struct {
	Key    string
	Header string
	Width  string
	Render func(row Row, roles map[string]models.Role) Cell
}

type ActionKind string

const (
	ActionEditUser   ActionKind = "edit-user"
	ActionDeleteUser ActionKind = "delete-user"
	ActionEditRole   ActionKind = "edit-role"
	ActionDeleteRole ActionKind = "delete-role"
)

// Action is one entry of a row's action menu. Path is empty for actions
// without a server endpoint.
type Action struct {
	Label    string
	Kind     ActionKind
	Disabled bool
	Path     func(row Row) string
}

type PageLink struct {
	Page    int
	Href    string
	Current bool
}

type Pagination struct {
	Page     int
	Pages    int
	Prev     *int
	Next     *int
	PrevHref string
	NextHref string
	Links    []PageLink
	Disabled bool
}

type TabLink struct {
	Tab    urlstate.Tab
	Label  string
	Href   string
	Active bool
}

// TabView is everything the presentational layer needs for the active tab,
// under names that do not depend on which tab it is.
type TabView struct {
	Tab     urlstate.Tab
	Tabs    []TabLink
	Href    string
	Rows    []Row
	Columns []Column
	Actions []Action
	Roles   map[string]models.Role

	Page        int
	Search      string
	SearchInput string

	Loading bool
	Failed  bool
	Err     string

	Placeholder    string
	ButtonText     string
	EmptyMessage   string
	LoadingMessage string
	ErrorMessage   string

	Pagination Pagination

	// RepairPage is the page to step back to when the current page came
	// back empty past page 1, or 0.
	RepairPage int
}

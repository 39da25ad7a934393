package console

import (
	"net/url"
	"time"

	"adminconsole/models"
)

const dateLayout = "Jan 2, 2006"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

var userColumns = []Column{
	{
		Key:    "user",
		Header: "User",
		Width:  "w-user",
		Render: func(row Row, _ map[string]models.Role) Cell {
			return Cell{Text: row.User.FullName(), Avatar: row.User.Photo}
		},
	},
	{
		Key:    "role",
		Header: "Role",
		Width:  "w-role",
		Render: func(row Row, roles map[string]models.Role) Cell {
			// Unknown or not yet loaded roles render empty.
			return Cell{Text: roles[row.User.RoleID].Name}
		},
	},
	{
		Key:    "joined",
		Header: "Joined",
		Width:  "w-joined",
		Render: func(row Row, _ map[string]models.Role) Cell {
			return Cell{Text: formatDate(row.User.CreatedAt)}
		},
	},
}

var roleColumns = []Column{
	{
		Key:    "name",
		Header: "Name",
		Width:  "w-name",
		Render: func(row Row, _ map[string]models.Role) Cell {
			c := Cell{Text: row.Role.Name}
			if row.Role.IsDefault {
				c.Badge = "Default"
			}
			return c
		},
	},
	{
		Key:    "description",
		Header: "Description",
		Width:  "w-description",
		Render: func(row Row, _ map[string]models.Role) Cell {
			return Cell{Text: row.Role.Description, Title: row.Role.Description}
		},
	},
	{
		Key:    "created",
		Header: "Created",
		Width:  "w-created",
		Render: func(row Row, _ map[string]models.Role) Cell {
			return Cell{Text: formatDate(row.Role.CreatedAt)}
		},
	},
}

var userActions = []Action{
	{Label: "Edit user", Kind: ActionEditUser, Disabled: true},
	{
		Label: "Delete user",
		Kind:  ActionDeleteUser,
		Path:  func(row Row) string { return "/console/users/" + url.PathEscape(row.User.ID) + "/delete" },
	},
}

var roleActions = []Action{
	{
		Label: "Edit role",
		Kind:  ActionEditRole,
		Path:  func(row Row) string { return "/console/roles/" + url.PathEscape(row.Role.ID) + "/edit" },
	},
	{Label: "Delete role", Kind: ActionDeleteRole, Disabled: true},
}

package console

import (
	"context"
	"io"
	"strconv"
	"strings"

	"adminconsole/frontend/shared/html"
	"adminconsole/frontend/shared/nav"

	"github.com/a-h/templ"
)

// PageData is everything one render of the console needs.
type PageData struct {
	View      TabView
	Delete    DeleteDialogView
	RoleForm  RoleFormView
	CSRFToken string
}

func (s *Session) PageData(view TabView, csrfToken string) PageData {
	return PageData{
		View:      view,
		Delete:    s.Delete.View(),
		RoleForm:  s.RoleForm.View(),
		CSRFToken: csrfToken,
	}
}

// ConsolePage is the full document served by GET /console.
func ConsolePage(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(nav.RenderTopNav(nav.BuildTopNavData(Path)))
		b.WriteString(`<main class="console">`)
		b.WriteString(`<div class="console-toolbar">`)
		renderSearch(&b, data)
		b.WriteString(`<button type="button" class="btn btn-primary" disabled>`)
		b.WriteString(`<span id="console-add-label">` + esc(data.View.ButtonText) + `</span></button>`)
		b.WriteString(`</div>`)
		b.WriteString(`<div id="console-body" data-href="` + esc(data.View.Href) + `">`)
		renderBody(&b, data)
		b.WriteString(`</div></main>`)
		_, err := io.WriteString(w, html.RenderLayout("Admin console", b.String(), ConsoleScript()))
		return err
	})
}

// ConsoleBody is the part of the page swapped in after every console action.
func ConsoleBody(data PageData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		renderBody(&b, data)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func renderSearch(b *strings.Builder, data PageData) {
	v := data.View
	b.WriteString(`<form id="console-search" class="search" method="post" action="/console/search" data-console="search" role="search">`)
	b.WriteString(html.CSRFField(data.CSRFToken))
	b.WriteString(`<input type="hidden" name="tab" value="` + esc(string(v.Tab)) + `">`)
	b.WriteString(`<input type="search" name="search" autocomplete="off" aria-label="Search" value="` + esc(v.SearchInput) + `" placeholder="` + esc(v.Placeholder) + `">`)
	b.WriteString(`</form>`)
}

func renderBody(b *strings.Builder, data PageData) {
	renderTabs(b, data)
	renderTable(b, data)
	renderPagination(b, data)
	renderDeleteDialog(b, data)
	renderRoleForm(b, data)
}

func renderTabs(b *strings.Builder, data PageData) {
	b.WriteString(`<form class="tabs" method="post" action="/console/tab" data-console="tab" role="tablist">`)
	b.WriteString(html.CSRFField(data.CSRFToken))
	for _, t := range data.View.Tabs {
		b.WriteString(`<button type="submit" name="tab" role="tab" value="` + esc(string(t.Tab)) + `"`)
		if t.Active {
			b.WriteString(` class="tab active" aria-selected="true"`)
		} else {
			b.WriteString(` class="tab" aria-selected="false"`)
		}
		b.WriteString(`>` + esc(t.Label) + `</button>`)
	}
	b.WriteString(`</form>`)
}

func renderTable(b *strings.Builder, data PageData) {
	v := data.View
	switch {
	case v.Failed:
		b.WriteString(`<div class="state state-error" role="alert"><p>` + esc(v.ErrorMessage) + `</p>`)
		if v.Err != "" {
			b.WriteString(`<p class="state-detail">` + esc(v.Err) + `</p>`)
		}
		b.WriteString(`<form method="post" action="/console/retry" data-console="retry">`)
		b.WriteString(html.CSRFField(data.CSRFToken))
		b.WriteString(`<button type="submit" class="btn">Try again</button></form></div>`)
		return
	case v.Loading:
		b.WriteString(`<div class="state state-loading" aria-busy="true">` + esc(v.LoadingMessage) + `</div>`)
		return
	case len(v.Rows) == 0:
		b.WriteString(`<div class="state state-empty">` + esc(v.EmptyMessage) + `</div>`)
		return
	}

	b.WriteString(`<table class="table"><thead><tr>`)
	for _, c := range v.Columns {
		b.WriteString(`<th class="` + esc(c.Width) + `">` + esc(c.Header) + `</th>`)
	}
	b.WriteString(`<th class="w-actions"><span class="sr-only">Actions</span></th></tr></thead><tbody>`)
	for _, row := range v.Rows {
		b.WriteString(`<tr data-id="` + esc(row.ID()) + `">`)
		for _, c := range v.Columns {
			renderCell(b, c.Render(row, v.Roles))
		}
		b.WriteString(`<td>`)
		renderActions(b, data, row)
		b.WriteString(`</td></tr>`)
	}
	b.WriteString(`</tbody></table>`)
}

func renderCell(b *strings.Builder, c Cell) {
	b.WriteString(`<td`)
	if c.Title != "" {
		b.WriteString(` title="` + esc(c.Title) + `" class="truncate"`)
	}
	b.WriteString(`>`)
	if c.Avatar != "" {
		b.WriteString(`<img class="avatar" src="` + esc(c.Avatar) + `" alt="avatar" referrerpolicy="no-referrer">`)
	}
	b.WriteString(esc(c.Text))
	if c.Badge != "" {
		b.WriteString(` <span class="badge">` + esc(c.Badge) + `</span>`)
	}
	b.WriteString(`</td>`)
}

func renderActions(b *strings.Builder, data PageData, row Row) {
	b.WriteString(`<details class="menu"><summary aria-label="Actions">&hellip;</summary><div class="menu-items">`)
	for _, a := range data.View.Actions {
		if a.Disabled || a.Path == nil {
			b.WriteString(`<button type="button" class="menu-item" disabled>` + esc(a.Label) + `</button>`)
			continue
		}
		b.WriteString(`<form method="post" action="` + esc(a.Path(row)) + `" data-console="` + esc(string(a.Kind)) + `">`)
		b.WriteString(html.CSRFField(data.CSRFToken))
		b.WriteString(`<button type="submit" class="menu-item">` + esc(a.Label) + `</button></form>`)
	}
	b.WriteString(`</div></details>`)
}

func renderPagination(b *strings.Builder, data PageData) {
	p := data.View.Pagination
	if p.Pages <= 1 && p.Prev == nil && p.Next == nil {
		return
	}
	b.WriteString(`<form class="pagination" method="post" action="/console/page" data-console="page" aria-label="Pagination">`)
	b.WriteString(html.CSRFField(data.CSRFToken))
	b.WriteString(`<input type="hidden" name="tab" value="` + esc(string(data.View.Tab)) + `">`)
	pageButton(b, p.Prev, "Previous", p.Disabled, false)
	for _, l := range p.Links {
		n := l.Page
		pageButton(b, &n, strconv.Itoa(n), p.Disabled, l.Current)
	}
	pageButton(b, p.Next, "Next", p.Disabled, false)
	b.WriteString(`</form>`)
}

func pageButton(b *strings.Builder, page *int, label string, disabled, current bool) {
	b.WriteString(`<button type="submit" name="page" class="page`)
	if current {
		b.WriteString(` current`)
	}
	b.WriteString(`"`)
	if page != nil {
		b.WriteString(` value="` + strconv.Itoa(*page) + `"`)
	}
	if current {
		b.WriteString(` aria-current="page"`)
	}
	if page == nil || disabled {
		b.WriteString(` disabled`)
	}
	b.WriteString(`>` + esc(label) + `</button>`)
}

func renderDeleteDialog(b *strings.Builder, data PageData) {
	d := data.Delete
	if !d.Open {
		return
	}
	b.WriteString(`<div class="dialog-backdrop"><div class="dialog" role="dialog" aria-modal="true" aria-labelledby="delete-user-title">`)
	b.WriteString(`<h2 id="delete-user-title">Delete user</h2>`)
	b.WriteString(`<p>Are you sure? The user <span class="dialog-user-name">` + esc(d.Target.FullName()) + `</span> will be permanently deleted.</p>`)
	if d.Error != "" {
		b.WriteString(`<div class="dialog-error" role="alert">Error deleting user: ` + esc(d.Error) + `</div>`)
	}
	b.WriteString(`<form class="dialog-footer" method="post" action="/console/delete/confirm" data-console="delete-confirm">`)
	b.WriteString(html.CSRFField(data.CSRFToken))
	b.WriteString(`<button type="submit" class="btn btn-outline" formaction="/console/delete/cancel"`)
	if d.Deleting {
		b.WriteString(` disabled`)
	}
	b.WriteString(`>Cancel</button>`)
	if d.Deleting {
		b.WriteString(`<button type="submit" class="btn btn-destructive" disabled aria-busy="true">Deleting...</button>`)
	} else {
		b.WriteString(`<button type="submit" class="btn btn-destructive">Delete user</button>`)
	}
	b.WriteString(`</form></div></div>`)
}

func renderRoleForm(b *strings.Builder, data PageData) {
	f := data.RoleForm
	if !f.Open {
		return
	}
	b.WriteString(`<div class="dialog-backdrop"><div class="dialog" role="dialog" aria-modal="true" aria-labelledby="edit-role-title">`)
	b.WriteString(`<h2 id="edit-role-title">Edit role</h2>`)
	b.WriteString(`<form method="post" action="/console/roles/save" data-console="role-save">`)
	b.WriteString(html.CSRFField(data.CSRFToken))
	b.WriteString(`<label for="role-name">Name</label>`)
	b.WriteString(`<input id="role-name" name="name" required placeholder="Enter role name" value="` + esc(f.Name) + `">`)
	b.WriteString(`<label for="role-description">Description</label>`)
	b.WriteString(`<textarea id="role-description" name="description" rows="4" placeholder="Enter role description">` + esc(f.Description) + `</textarea>`)
	b.WriteString(`<label class="checkbox"><input type="checkbox" name="isDefault" value="true"`)
	if f.IsDefault {
		b.WriteString(` checked`)
	}
	b.WriteString(`> Default role</label>`)
	if f.Error != "" {
		b.WriteString(`<div class="dialog-error" role="alert">` + esc(f.Error) + `</div>`)
	}
	b.WriteString(`<div class="dialog-footer">`)
	b.WriteString(`<button type="submit" class="btn btn-outline" formaction="/console/roles/cancel" formnovalidate`)
	if f.Saving {
		b.WriteString(` disabled`)
	}
	b.WriteString(`>Cancel</button>`)
	b.WriteString(`<button type="submit" class="btn btn-primary" data-role-save`)
	if f.Saving || !f.CanSubmit {
		b.WriteString(` disabled`)
	}
	if f.Saving {
		b.WriteString(` aria-busy="true">Saving...</button>`)
	} else {
		b.WriteString(`>Save changes</button>`)
	}
	b.WriteString(`</div></form></div></div>`)
}

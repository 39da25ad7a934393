package nav

import (
	"strings"

	"github.com/a-h/templ"
)

type Link struct {
	Label  string
	Href   string
	Active bool
}

// TopNavData is shared with page renderers.
type TopNavData struct {
	Title string
	Links []Link
}

func BuildTopNavData(activePath string) TopNavData {
	return TopNavData{
		Title: "Admin console",
		Links: []Link{
			{Label: "Directory", Href: "/console", Active: strings.HasPrefix(activePath, "/console")},
		},
	}
}

func RenderTopNav(data TopNavData) string {
	var b strings.Builder
	b.WriteString(`<header class="topnav"><span class="topnav-title">`)
	b.WriteString(templ.EscapeString(data.Title))
	b.WriteString(`</span><nav>`)
	for _, l := range data.Links {
		b.WriteString(`<a href="`)
		b.WriteString(templ.EscapeString(l.Href))
		b.WriteString(`"`)
		if l.Active {
			b.WriteString(` class="active" aria-current="page"`)
		}
		b.WriteString(`>`)
		b.WriteString(templ.EscapeString(l.Label))
		b.WriteString(`</a>`)
	}
	b.WriteString(`</nav></header>`)
	return b.String()
}

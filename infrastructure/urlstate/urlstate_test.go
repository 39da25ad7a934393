package urlstate

import (
	"net/url"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	got := Parse(url.Values{})
	if got != Default() {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestParseToleratesMalformedInput(t *testing.T) {
	q, _ := url.ParseQuery("tab=groups&page=abc&rolesPage=-4&search=ann")
	got := Parse(q)
	want := ViewState{
		ActiveTab: TabUsers,
		Users:     TabState{Page: 1, Search: "ann"},
		Roles:     TabState{Page: 1},
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []ViewState{
		Default(),
		{ActiveTab: TabRoles, Users: TabState{Page: 1}, Roles: TabState{Page: 3, Search: "eng"}},
		{ActiveTab: TabUsers, Users: TabState{Page: 12, Search: "o'neil & co"}, Roles: TabState{Page: 2}},
		{ActiveTab: TabRoles, Users: TabState{Page: 4, Search: "x"}, Roles: TabState{Page: 1, Search: "admin"}},
	}
	for _, v := range cases {
		u, err := url.Parse(v.Href("/console"))
		if err != nil {
			t.Fatalf("parse href: %v", err)
		}
		if got := Parse(u.Query()); got != v {
			t.Fatalf("round trip mismatch: want %+v, got %+v (href %s)", v, got, v.Href("/console"))
		}
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	if got := Default().Encode().Encode(); got != "tab=users" {
		t.Fatalf("expected only tab, got %q", got)
	}
}

func TestSetSearchTextResetsPage(t *testing.T) {
	q, _ := url.ParseQuery("tab=roles&rolesPage=2&rolesSearch=admin&page=5&search=bob")
	s := NewStore("/console", q)

	got := s.SetSearchText(TabRoles, "admins")
	if got.Roles != (TabState{Page: 1, Search: "admins"}) {
		t.Fatalf("expected roles reset to page 1, got %+v", got.Roles)
	}
	if got.Users != (TabState{Page: 5, Search: "bob"}) {
		t.Fatalf("expected users untouched, got %+v", got.Users)
	}
}

func TestSetPageKeepsSearch(t *testing.T) {
	q, _ := url.ParseQuery("search=bob")
	s := NewStore("/console", q)

	got := s.SetPage(TabUsers, 4)
	if got.Users != (TabState{Page: 4, Search: "bob"}) {
		t.Fatalf("expected page 4 with search kept, got %+v", got.Users)
	}
	if got.Roles != (TabState{Page: 1}) {
		t.Fatalf("expected roles untouched, got %+v", got.Roles)
	}
	if got := s.SetPage(TabUsers, 0); got.Users.Page != 1 {
		t.Fatalf("expected non-positive page clamped to 1, got %d", got.Users.Page)
	}
}

func TestSetActiveTabClearsBothTabs(t *testing.T) {
	q, _ := url.ParseQuery("tab=users&page=3&search=bob&rolesPage=2&rolesSearch=eng")
	s := NewStore("/console", q)

	got := s.SetActiveTab(TabRoles)
	want := ViewState{ActiveTab: TabRoles, Users: TabState{Page: 1}, Roles: TabState{Page: 1}}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if href := s.Href(); href != "/console?tab=roles" {
		t.Fatalf("expected href with only the new tab, got %q", href)
	}
}

func TestEveryOperationRewritesHref(t *testing.T) {
	s := NewStore("/console", url.Values{})
	var seen []string
	s.OnReplace(func(href string) { seen = append(seen, href) })

	s.SetSearchText(TabUsers, "ann")
	s.SetPage(TabUsers, 2)
	s.SetActiveTab(TabRoles)

	want := []string{
		"/console?search=ann&tab=users",
		"/console?page=2&search=ann&tab=users",
		"/console?tab=roles",
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d rewrites, got %v", len(want), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("rewrite %d: want %q, got %q", i, want[i], seen[i])
		}
	}
	if s.Href() != want[len(want)-1] {
		t.Fatalf("expected store href to match last rewrite, got %q", s.Href())
	}
}

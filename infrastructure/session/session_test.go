package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenFromRequest(t *testing.T) {
	valid := NewToken()
	tests := []struct {
		name   string
		cookie *http.Cookie
		want   string
	}{
		{name: "missing cookie", want: ""},
		{name: "valid token", cookie: SessionCookie(valid, 0), want: valid},
		{name: "not a uuid", cookie: SessionCookie("../../etc", 0), want: ""},
		{name: "empty value", cookie: SessionCookie("", 0), want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/console", nil)
			if tc.cookie != nil {
				req.AddCookie(tc.cookie)
			}
			if got := TokenFromRequest(req); got != tc.want {
				t.Fatalf("TokenFromRequest = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSessionCookieAttributes(t *testing.T) {
	c := SessionCookie("abc", -1)
	if c.Name != CookieName || c.Path != "/" || !c.HttpOnly || c.SameSite != http.SameSiteLaxMode || c.MaxAge != -1 {
		t.Fatalf("unexpected cookie %+v", c)
	}
}

func TestNewTokenIsUnique(t *testing.T) {
	if NewToken() == NewToken() {
		t.Fatalf("expected distinct tokens")
	}
}

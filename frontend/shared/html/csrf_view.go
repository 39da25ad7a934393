package html

import "github.com/a-h/templ"

// CSRFField is the hidden input every POST form carries so the console keeps
// working without JavaScript.
func CSRFField(token string) string {
	if token == "" {
		return ""
	}
	return `<input type="hidden" name="_csrf" value="` + templ.EscapeString(token) + `">`
}

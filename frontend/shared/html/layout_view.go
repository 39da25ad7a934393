package html

import (
	"fmt"
	"strings"

	"github.com/a-h/templ"
)

func RenderLayout(title, body string, scripts ...string) string {
	return fmt.Sprintf("<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\"><meta name=\"viewport\" content=\"width=device-width, initial-scale=1\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s%s</body></html>",
		templ.EscapeString(title), body, strings.Join(scripts, ""))
}

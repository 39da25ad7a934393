package apiresponse

import "strings"

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// LikePattern turns search text into a substring LIKE pattern for use with
// ESCAPE '!'.
func LikePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}

package repository

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching q literally anywhere in the column.
// Postgres uses backslash as the default LIKE escape.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

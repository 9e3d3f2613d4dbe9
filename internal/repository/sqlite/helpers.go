package sqlite

import (
	"bytes"
	"encoding/json"
	"strings"

	"viewsync/internal/repository"
)

// isNullJSON reports whether value means "delete" to Set.
func isNullJSON(value json.RawMessage) bool {
	return value == nil || bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

// escapes LIKE wildcards so user input matches literally
func likePattern(prefix, s, suffix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return prefix + r.Replace(s) + suffix
}

func buildWhere(filter repository.PreferenceFilter) (string, []interface{}) {
	var whereClauses []string
	var args []interface{}

	if filter.Prefix != "" {
		whereClauses = append(whereClauses, `name LIKE ? ESCAPE '\'`)
		args = append(args, likePattern("", filter.Prefix, "%"))
	}

	if filter.SearchQuery != "" {
		whereClauses = append(whereClauses, `(name LIKE ? ESCAPE '\' OR value LIKE ? ESCAPE '\')`)
		pattern := likePattern("%", filter.SearchQuery, "%")
		args = append(args, pattern, pattern)
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

package db

import (
	"strings"

	"github.com/jackc/pgx/v5"
)

// SanitizeTable quotes a possibly schema-qualified table name like
// "road_data.incident_info".
func SanitizeTable(table string) string {
	parts := strings.SplitN(table, ".", 2)
	if len(parts) == 2 {
		return pgx.Identifier{parts[0], parts[1]}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

// QuoteAndJoin quotes each column name and joins with commas.
func QuoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}

// QuoteColumn quotes a single column name.
func QuoteColumn(col string) string {
	return pgx.Identifier{col}.Sanitize()
}

package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5"
)

// queries holds the statements for one blob table. The table name is
// validated by sqlblob.ValidateTable and additionally quoted here.
type queries struct {
	createTable string
	listObjects string
	listSubdirs string
	read        string
	upsert      string
}

func buildQueries(table string) queries {
	t := pgx.Identifier{table}.Sanitize()
	return queries{
		createTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	dir  TEXT  NOT NULL,
	name TEXT  NOT NULL,
	data BYTEA NOT NULL,
	PRIMARY KEY (dir, name)
)`, t),
		listObjects: fmt.Sprintf(`SELECT name FROM %s WHERE dir = $1 ORDER BY name`, t),
		// $1 is the child prefix: every row whose dir starts with it lives in
		// a sub-collection, named by the first component after the prefix.
		listSubdirs: fmt.Sprintf(`SELECT DISTINCT split_part(substr(dir, length($1) + 1), '/', 1) AS child
FROM %s
WHERE dir <> '' AND left(dir, length($1)) = $1
ORDER BY child`, t),
		read:   fmt.Sprintf(`SELECT data FROM %s WHERE dir = $1 AND name = $2`, t),
		upsert: fmt.Sprintf(`INSERT INTO %s (dir, name, data) VALUES ($1, $2, $3)
ON CONFLICT (dir, name) DO UPDATE SET data = EXCLUDED.data`, t),
	}
}

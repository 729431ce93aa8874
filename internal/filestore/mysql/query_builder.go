package mysql

import "fmt"

// Column widths in characters. InnoDB caps an index at 3072 bytes and
// counts utf8mb4 at 4 bytes per character, so the primary key
// (dir, name) must stay within 768 characters in total.
const (
	maxDirChars  = 512
	maxNameChars = 255

	maxKeyBytes      = 3072
	utf8mb4CharBytes = 4
)

// queries holds the statements for one blob table. The table name has
// passed sqlblob.ValidateTable, so backtick quoting is sufficient.
type queries struct {
	createTable string
	listObjects string
	listSubdirs string
	read        string
	upsert      string
}

func buildQueries(table string) queries {
	t := "`" + table + "`"
	return queries{
		createTable: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	dir  VARCHAR(%d) NOT NULL,
	name VARCHAR(%d) NOT NULL,
	data LONGBLOB     NOT NULL,
	PRIMARY KEY (dir, name)
) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin`, t, maxDirChars, maxNameChars),
		listObjects: fmt.Sprintf(`SELECT name FROM %s WHERE dir = ? ORDER BY name`, t),
		// The child prefix is bound twice: once to measure, once to compare.
		listSubdirs: fmt.Sprintf(`SELECT DISTINCT SUBSTRING_INDEX(SUBSTRING(dir, CHAR_LENGTH(?) + 1), '/', 1) AS child
FROM %s
WHERE dir <> '' AND LEFT(dir, CHAR_LENGTH(?)) = ?
ORDER BY child`, t),
		read:   fmt.Sprintf(`SELECT data FROM %s WHERE dir = ? AND name = ?`, t),
		upsert: fmt.Sprintf(`INSERT INTO %s (dir, name, data) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE data = VALUES(data)`, t),
	}
}

package database

// TableSchema describes one table of a datasource. It is fed to the SQL
// translator so generated queries use real table and column names.
type TableSchema struct {
	Name        string         `json:"name"`
	Columns     []ColumnSchema `json:"columns"`
	Description string         `json:"description,omitempty"`
}

type ColumnSchema struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Nullable    bool   `json:"nullable"`
	Description string `json:"description,omitempty"`
}

const postgresSchemaQuery = `SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`

const sqliteSchemaQuery = `SELECT m.name, p.name, p.type, p."notnull"
FROM sqlite_master m
JOIN pragma_table_info(m.name) p
WHERE m.type = 'table' AND m.name NOT LIKE 'sqlite_%'
ORDER BY m.name, p.cid`

type schemaColumn struct {
	ColumnSchema
	table string
}

// groupColumns folds ordered (table, column) rows into tables, keeping the
// order in which tables first appear.
func groupColumns(cols []schemaColumn) []TableSchema {
	tables := []TableSchema{}
	for _, c := range cols {
		if n := len(tables); n == 0 || tables[n-1].Name != c.table {
			tables = append(tables, TableSchema{Name: c.table})
		}
		t := &tables[len(tables)-1]
		t.Columns = append(t.Columns, c.ColumnSchema)
	}
	return tables
}

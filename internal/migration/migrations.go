package migration

// migrations é a lista ordenada de migrações do schema
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_zen_kv",
		SQL: `
			CREATE TABLE IF NOT EXISTS zen_kv (
				key        TEXT PRIMARY KEY,
				value      JSONB NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)
		`,
	},
}

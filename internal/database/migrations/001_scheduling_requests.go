package migrations

func init() {
	Register(Migration{
		Version: 1,
		Name:    "scheduling_requests",
		Statements: []string{
			// One row per pipeline run. Busy periods are never stored.
			`CREATE TABLE IF NOT EXISTS scheduling_requests (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				raw_text TEXT NOT NULL,
				resolved_time DATETIME,
				duration_minutes INTEGER NOT NULL DEFAULT 30,
				meeting_kind TEXT NOT NULL,
				attendee_name TEXT NOT NULL DEFAULT '',
				attendee_email TEXT NOT NULL,
				state TEXT NOT NULL,
				event_id TEXT,
				alternatives_offered INTEGER NOT NULL DEFAULT 0,
				error TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	})
}

package migrations

func init() {
	Register(Migration{
		Version: 2,
		Name:    "scheduling_requests_state_index",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_scheduling_requests_state ON scheduling_requests(state, created_at)`,
		},
	})
}

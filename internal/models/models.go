package model

// All lists every model managed by the schema migration.
func All() []any {
	return []any{&Project{}, &User{}, &Task{}, &Subtask{}, &WorkAssignment{}}
}

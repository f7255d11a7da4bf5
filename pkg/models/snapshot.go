package models

// SchemaVersion is the current persisted-state schema. The store runs
// migrations up to this version when it opens an older database.
const SchemaVersion = 2

// Snapshot is the full application state at a point in time. It is what an
// export produces and what a restore consumes.
type Snapshot struct {
	SchemaVersion int       `json:"schemaVersion" yaml:"schemaVersion"`
	Accounts      []Account `json:"accounts" yaml:"accounts"`
	Goals         []Goal    `json:"goals" yaml:"goals"`
	Bills         []Bill    `json:"bills" yaml:"bills"`
}

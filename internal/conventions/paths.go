package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default migrator data directory name (relative to home).
	DefaultDataDir = ".migrator"
	// DBFile is the SQLite database filename inside the data directory.
	DBFile = "migrator.db"
	// EnvDBPath overrides the database path.
	EnvDBPath = "MIGRATOR_DB_PATH"
	// EnvAppVersion sets the application version of a run.
	EnvAppVersion = "MIGRATOR_APP_VERSION"
)

// DBPath returns the default database path for a home directory.
func DBPath(home string) string {
	return filepath.Join(home, DefaultDataDir, DBFile)
}

package model

import (
	"github.com/slok/migrator/internal/semver"
)

// Plan is a set of migration tasks loaded from a file.
type Plan struct {
	Tasks []PlanTask
}

// PlanTask is a migration task that runs a shell script.
type PlanTask struct {
	ID           string
	From         semver.Version
	To           semver.Version
	Dependencies []string
	MaxAttempts  int
	Script       string
	Env          map[string]string
	Dir          string
}

package printer

import (
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// Printer knows how to print migration information in different formats.
type Printer interface {
	PrintStatuses(statuses []model.TaskStatus) error
	PrintComparison(a, b semver.Version) error
	PrintMessage(msg string) error
}

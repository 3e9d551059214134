package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// JSONPrinter prints migration information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// statusItem represents a task status output.
type statusItem struct {
	TaskID         string        `json:"task_id"`
	State          string        `json:"state"`
	FailedAttempts int           `json:"failed_attempts"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	FailedAt       *time.Time    `json:"failed_at,omitempty"`
	Reason         *reasonOutput `json:"reason,omitempty"`
}

// reasonOutput represents a task failure reason output.
type reasonOutput struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
}

// comparisonOutput represents a version comparison output.
type comparisonOutput struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Result int    `json:"result"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintStatuses prints task statuses in JSON format.
func (j *JSONPrinter) PrintStatuses(statuses []model.TaskStatus) error {
	items := make([]statusItem, len(statuses))
	for i, s := range statuses {
		item := statusItem{
			TaskID:         s.TaskID,
			State:          s.State(),
			FailedAttempts: s.FailedAttempts,
		}

		if s.Outcome.Success != nil {
			utcTime := s.Outcome.Success.CompletionDate.UTC()
			item.CompletedAt = &utcTime
		}

		if s.Outcome.Failure != nil {
			utcTime := s.Outcome.Failure.LastFailDate.UTC()
			item.FailedAt = &utcTime
			item.Reason = &reasonOutput{
				Kind:    string(s.Outcome.Failure.Reason.Kind),
				Message: s.Outcome.Failure.Reason.Message,
			}
		}

		items[i] = item
	}

	return j.encode(items)
}

// PrintComparison prints the precedence of two versions in JSON format.
func (j *JSONPrinter) PrintComparison(a, b semver.Version) error {
	return j.encode(comparisonOutput{A: a.String(), B: b.String(), Result: semver.Compare(a, b)})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

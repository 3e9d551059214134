// Package statusstore persists the migration task statuses as a single JSON
// document stored under one key of a storage.Repository.
package statusstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/storage"
)

// DefaultKey is the key used to store the statuses when none is configured.
const DefaultKey = "migrator.task.statuses"

// StoreConfig is the configuration for the status store.
type StoreConfig struct {
	Repository storage.Repository
	Key        string
	Logger     log.Logger
}

func (c *StoreConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "statusstore.Store"})
	return nil
}

// Store loads and saves task statuses.
//
// Every Save reads the whole document, merges the status and writes it back,
// so the key must not be written by anything else at the same time.
type Store struct {
	repo   storage.Repository
	key    string
	logger log.Logger
}

// NewStore returns a new status store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Store{
		repo:   cfg.Repository,
		key:    cfg.Key,
		logger: cfg.Logger,
	}, nil
}

// Load returns all the persisted statuses indexed by task ID. A missing
// document is an empty set of statuses.
func (s *Store) Load(ctx context.Context) (map[string]model.TaskStatus, error) {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return map[string]model.TaskStatus{}, nil
		}
		return nil, fmt.Errorf("could not get statuses: %w", err)
	}

	statuses, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode statuses: %w", err)
	}

	return statuses, nil
}

// Save merges a status into the persisted document.
func (s *Store) Save(ctx context.Context, status model.TaskStatus) error {
	statuses, err := s.Load(ctx)
	if err != nil {
		// An undecodable document can't be recovered, start a new one.
		if !errors.Is(err, model.ErrNotValid) {
			return err
		}
		s.logger.Warningf("Replacing invalid statuses document: %s", err)
		statuses = map[string]model.TaskStatus{}
	}

	statuses[status.TaskID] = status

	data, err := Encode(statuses)
	if err != nil {
		return fmt.Errorf("could not encode statuses: %w", err)
	}

	if err := s.repo.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("could not set statuses: %w", err)
	}

	s.logger.Debugf("Saved status of task %s", status.TaskID)
	return nil
}

type statusJSON struct {
	TaskID         string       `json:"taskId"`
	FailedAttempts int          `json:"failedAttempts"`
	Outcome        *outcomeJSON `json:"outcome,omitempty"`
	IsInProgress   bool         `json:"isInProgress"`
}

type outcomeJSON struct {
	Success *successJSON `json:"success,omitempty"`
	Failure *failureJSON `json:"failure,omitempty"`
}

type successJSON struct {
	CompletionDate time.Time `json:"completionDate"`
}

type failureJSON struct {
	LastFailDate time.Time  `json:"lastFailDate"`
	Reason       reasonJSON `json:"reason"`
}

type reasonJSON struct {
	DependencyFailed *struct{}       `json:"dependencyFailed,omitempty"`
	ExceededAttempts *struct{}       `json:"exceededAttempts,omitempty"`
	TaskFailed       *taskFailedJSON `json:"taskFailed,omitempty"`
}

type taskFailedJSON struct {
	ErrorMessage string `json:"errorMessage"`
}

// Encode returns the JSON document for a set of statuses.
func Encode(statuses map[string]model.TaskStatus) ([]byte, error) {
	doc := make(map[string]statusJSON, len(statuses))
	for id, st := range statuses {
		j := statusJSON{
			TaskID:         st.TaskID,
			FailedAttempts: st.FailedAttempts,
			IsInProgress:   st.InProgress,
		}

		switch {
		case st.Outcome.Success != nil:
			j.Outcome = &outcomeJSON{Success: &successJSON{CompletionDate: st.Outcome.Success.CompletionDate}}
		case st.Outcome.Failure != nil:
			reason, err := encodeReason(st.Outcome.Failure.Reason)
			if err != nil {
				return nil, fmt.Errorf("task %s: %w", id, err)
			}
			j.Outcome = &outcomeJSON{Failure: &failureJSON{
				LastFailDate: st.Outcome.Failure.LastFailDate,
				Reason:       reason,
			}}
		}

		doc[id] = j
	}

	return json.Marshal(doc)
}

func encodeReason(e model.ExecutionError) (reasonJSON, error) {
	switch e.Kind {
	case model.ExecutionErrorDependencyFailed:
		return reasonJSON{DependencyFailed: &struct{}{}}, nil
	case model.ExecutionErrorExceededAttempts:
		return reasonJSON{ExceededAttempts: &struct{}{}}, nil
	case model.ExecutionErrorTaskFailed:
		return reasonJSON{TaskFailed: &taskFailedJSON{ErrorMessage: e.Message}}, nil
	}
	return reasonJSON{}, fmt.Errorf("unknown execution error %q: %w", e.Kind, model.ErrNotValid)
}

// Decode parses a JSON statuses document.
func Decode(data []byte) (map[string]model.TaskStatus, error) {
	var doc map[string]statusJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w: %w", model.ErrNotValid, err)
	}

	statuses := make(map[string]model.TaskStatus, len(doc))
	for id, j := range doc {
		st := model.TaskStatus{
			TaskID:         j.TaskID,
			FailedAttempts: j.FailedAttempts,
			InProgress:     j.IsInProgress,
		}
		if st.TaskID == "" {
			st.TaskID = id
		}

		if j.Outcome != nil {
			switch {
			case j.Outcome.Success != nil && j.Outcome.Failure != nil:
				return nil, fmt.Errorf("task %s: outcome can't be a success and a failure: %w", id, model.ErrNotValid)
			case j.Outcome.Success != nil:
				st.Outcome.Success = &model.Success{CompletionDate: j.Outcome.Success.CompletionDate}
			case j.Outcome.Failure != nil:
				reason, err := decodeReason(j.Outcome.Failure.Reason)
				if err != nil {
					return nil, fmt.Errorf("task %s: %w", id, err)
				}
				st.Outcome.Failure = &model.Failure{LastFailDate: j.Outcome.Failure.LastFailDate, Reason: reason}
			}
		}

		statuses[id] = st
	}

	return statuses, nil
}

func decodeReason(r reasonJSON) (model.ExecutionError, error) {
	switch {
	case r.TaskFailed != nil:
		return model.ExecutionError{Kind: model.ExecutionErrorTaskFailed, Message: r.TaskFailed.ErrorMessage}, nil
	case r.ExceededAttempts != nil:
		return model.ExecutionError{Kind: model.ExecutionErrorExceededAttempts}, nil
	case r.DependencyFailed != nil:
		return model.ExecutionError{Kind: model.ExecutionErrorDependencyFailed}, nil
	}
	return model.ExecutionError{}, fmt.Errorf("missing failure reason: %w", model.ErrNotValid)
}

package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/slok/migrator/internal/model"
	"github.com/slok/migrator/internal/semver"
)

// PlanYAMLRepository loads migration plans from YAML files.
type PlanYAMLRepository struct {
	fs fs.FS
}

// NewPlanYAMLRepository creates a new YAML plan repository.
func NewPlanYAMLRepository(filesystem fs.FS) *PlanYAMLRepository {
	return &PlanYAMLRepository{fs: filesystem}
}

// GetPlan loads a migration plan from a YAML file and returns a validated domain model.
//
// Only the file structure is validated here, version windows, attempts and
// dependencies are validated by the migrator when the plan runs.
func (r *PlanYAMLRepository) GetPlan(ctx context.Context, path string) (model.Plan, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return model.Plan{}, fmt.Errorf("reading plan file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Plan{}, ctx.Err()
	}

	var plan PlanConfig
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return model.Plan{}, fmt.Errorf("parsing YAML: %w", err)
	}

	m, err := plan.toModel()
	if err != nil {
		return model.Plan{}, fmt.Errorf("invalid plan: %w: %w", model.ErrNotValid, err)
	}

	return m, nil
}

// PlanConfig represents the YAML structure of a migration plan.
type PlanConfig struct {
	Tasks []TaskConfig `yaml:"tasks"`
}

// TaskConfig represents the YAML structure of a plan task.
type TaskConfig struct {
	ID          string            `yaml:"id"`
	From        string            `yaml:"from"`
	To          string            `yaml:"to"`
	DependsOn   []string          `yaml:"depends_on"`
	MaxAttempts *int              `yaml:"max_attempts"`
	Run         string            `yaml:"run"`
	Env         map[string]string `yaml:"env"`
	Dir         string            `yaml:"dir"`
}

func (c PlanConfig) toModel() (model.Plan, error) {
	if len(c.Tasks) == 0 {
		return model.Plan{}, fmt.Errorf("at least one task is required")
	}

	plan := model.Plan{Tasks: make([]model.PlanTask, 0, len(c.Tasks))}
	for i, t := range c.Tasks {
		task, err := t.toModel()
		if err != nil {
			return model.Plan{}, fmt.Errorf("task %d: %w", i, err)
		}
		plan.Tasks = append(plan.Tasks, task)
	}

	return plan, nil
}

func (c TaskConfig) toModel() (model.PlanTask, error) {
	if c.ID == "" {
		return model.PlanTask{}, fmt.Errorf("id is required")
	}

	if c.Run == "" {
		return model.PlanTask{}, fmt.Errorf("%s: run is required", c.ID)
	}

	task := model.PlanTask{
		ID:           c.ID,
		From:         semver.Oldest,
		To:           semver.Newest,
		Dependencies: c.DependsOn,
		MaxAttempts:  1,
		Script:       c.Run,
		Env:          c.Env,
		Dir:          c.Dir,
	}

	if c.From != "" {
		v, err := semver.Parse(c.From)
		if err != nil {
			return model.PlanTask{}, fmt.Errorf("%s: from: %w", c.ID, err)
		}
		task.From = v
	}

	if c.To != "" {
		v, err := semver.Parse(c.To)
		if err != nil {
			return model.PlanTask{}, fmt.Errorf("%s: to: %w", c.ID, err)
		}
		task.To = v
	}

	if c.MaxAttempts != nil {
		task.MaxAttempts = *c.MaxAttempts
	}

	return task, nil
}

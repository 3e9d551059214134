package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/slok/migrator/internal/semver"
)

// NewSemverCommand returns the semver parent command.
func NewSemverCommand(app *kingpin.Application) *kingpin.CmdClause {
	return app.Command("semver", "Semantic version utilities.")
}

type SemverCompareCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	a      string
	b      string
	format string
}

// NewSemverCompareCommand returns the semver compare command.
func NewSemverCompareCommand(rootCmd *RootCommand, semverCmd *kingpin.CmdClause) *SemverCompareCommand {
	c := &SemverCompareCommand{rootCmd: rootCmd}

	c.Cmd = semverCmd.Command("compare", "Compare the precedence of two semantic versions.")
	c.Cmd.Arg("a", "First version.").Required().StringVar(&c.a)
	c.Cmd.Arg("b", "Second version.").Required().StringVar(&c.b)
	c.Cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(&c.format, formatTable, formatJSON)

	return c
}

func (c SemverCompareCommand) Name() string { return c.Cmd.FullCommand() }

func (c SemverCompareCommand) Run(ctx context.Context) error {
	a, err := semver.Parse(c.a)
	if err != nil {
		return fmt.Errorf("invalid first version: %w", err)
	}

	b, err := semver.Parse(c.b)
	if err != nil {
		return fmt.Errorf("invalid second version: %w", err)
	}

	if err := newPrinter(c.format, c.rootCmd).PrintComparison(a, b); err != nil {
		return fmt.Errorf("could not print comparison: %w", err)
	}

	return nil
}

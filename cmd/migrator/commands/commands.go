package commands

import (
	"context"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/slok/migrator/internal/conventions"
	"github.com/slok/migrator/internal/log"
	"github.com/slok/migrator/internal/printer"
	"github.com/slok/migrator/internal/statusstore"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	DBPath     string
	StatusKey  string

	// Global instances.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger log.Logger
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDBPath := conventions.DBPath(homedir.HomeDir())
	app.Flag("db-path", "Path to the SQLite database file where task statuses are stored.").Envar(conventions.EnvDBPath).Default(defaultDBPath).StringVar(&c.DBPath)
	app.Flag("status-key", "Storage key of the task statuses.").Default(statusstore.DefaultKey).StringVar(&c.StatusKey)

	return c
}

func newPrinter(format string, rootCmd *RootCommand) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(rootCmd.Stdout)
	}
	return printer.NewTablePrinter(rootCmd.Stdout)
}

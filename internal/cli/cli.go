// Package cli implements Component L: a flag.FlagSet-based command line
// parser producing an isolated app.Config, with exit-code discipline on
// failure.
//
// Grounded on burstgridgo's internal/cli/cli.go: a ContinueOnError FlagSet
// with custom usage text, an ExitError carrying a process exit code, and
// validation of enum-like flags (log format/level) before building the
// config the app layer consumes.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mdsebald/LinkBlocks/internal/app"
)

// ExitError is an error that also carries the process exit code main should
// use after printing its message.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Parse processes command-line arguments into an app.Config. The second
// return value reports whether the program should exit cleanly (help was
// requested, or no definitions path was given) without treating that as an
// error.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("linkblocksd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
linkblocksd - a function-block execution daemon.

Usage:
  linkblocksd [options] [DEFINITIONS_PATH]

Arguments:
  DEFINITIONS_PATH
    Path to a single .hcl file or a directory of block definition files.

Options:
`)
		flagSet.PrintDefaults()
	}

	defsFlag := flagSet.String("definitions", "", "Path to the block definitions file or directory.")
	dFlag := flagSet.String("d", "", "Path to the block definitions file or directory (shorthand).")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check + metrics server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	stateDBFlag := flagSet.String("state-db", "", "Path to a bbolt database file for exec_count/last_exec persistence. Empty disables persistence.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	switch {
	case *defsFlag != "":
		path = *defsFlag
	case *dFlag != "":
		path = *dFlag
	case flagSet.NArg() > 0:
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg, err := app.NewConfig(app.Config{
		DefinitionsPath: path,
		HealthcheckPort: *healthPortFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
		StateDBPath:     *stateDBFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	return cfg, false, nil
}

// Package cli parses the command-line interface of the fempost tool.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/fempost/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("fempost", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
fempost - inspect a result file through a remote post-processing server.

Usage:
  fempost -server URL [options] RESULT_FILE

Arguments:
  RESULT_FILE
    Path of the result file, as seen by the server.

Options:
`)
		flagSet.PrintDefaults()
	}

	serverFlag := flagSet.String("server", "", "Base URL of the post-processing server.")
	rstFlag := flagSet.String("rst", "", "Path of the result file (alternative to the positional argument).")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	resultFile := *rstFlag
	if resultFile == "" && flagSet.NArg() > 0 {
		resultFile = flagSet.Arg(0)
	}

	if *serverFlag == "" || resultFile == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid log format %q", *logFormatFlag)}
	}

	return &app.Config{
		ServerURL:  *serverFlag,
		ResultFile: resultFile,
		LogFormat:  logFormat,
		LogLevel:   strings.ToLower(*logLevelFlag),
	}, false, nil
}

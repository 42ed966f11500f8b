// Package cli parses command-line arguments for the muwanx binary.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/muwanx/muwanx-go/internal/app"
)

// ExitError is an error carrying a specific process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments on top of environment defaults.
// It returns a populated app.Config, a boolean indicating the program
// should exit cleanly (help/usage shown), or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("muwanx", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
muwanx - build static web bundles for interactive physics simulations.

Usage:
  muwanx [options] SITE_PATH

Arguments:
  SITE_PATH
    Path to a single .hcl site file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	envCfg, err := app.ConfigFromEnv()
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	siteFlag := flagSet.String("site", "", "Path to the site file or directory.")
	outputFlag := flagSet.String("output", envCfg.OutputDir, "Output directory for the bundle.")
	basePathFlag := flagSet.String("base-path", envCfg.BasePath, "Deployment base path, e.g. '/muwanx/'. Overrides the site files.")
	serveFlag := flagSet.Int("serve", envCfg.ServePort, "Port for the local preview server. 0 is disabled.")
	logFormatFlag := flagSet.String("log-format", envCfg.LogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", envCfg.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *siteFlag
	if path == "" && flagSet.NArg() > 0 {
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
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		SitePath:  path,
		OutputDir: *outputFlag,
		BasePath:  *basePathFlag,
		LogFormat: logFormat,
		LogLevel:  logLevel,
		ServePort: *serveFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

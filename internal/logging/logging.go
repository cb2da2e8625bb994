// Package logging builds the charmbracelet logger shared by all commands.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the CLI.
const Prefix = "magepack"

// New returns a logger writing to w at the named level
// (debug, info, warn, error, fatal).
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  lvl,
	}), nil
}

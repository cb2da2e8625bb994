package bundle

import (
	"fmt"

	"github.com/flarebyte/magepack/internal/stage"
)

const exitCodeIncomplete = 2

type bundleExitError struct {
	code int
	msg  string
}

func (e bundleExitError) Error() string { return e.msg }
func (e bundleExitError) ExitCode() int { return e.code }

// evaluateBundleExit maps recorded diagnostics to an exit status. Skipped
// modules never fail a run unless failOnMissing is set.
func evaluateBundleExit(env stage.Envelope, failOnMissing bool) error {
	if !failOnMissing || len(env.Errors) == 0 {
		return nil
	}
	return bundleExitError{
		code: exitCodeIncomplete,
		msg:  fmt.Sprintf("incomplete bundles: %d diagnostics", len(env.Errors)),
	}
}

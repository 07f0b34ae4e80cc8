package host

import (
	"errors"
	"strconv"
	"strings"

	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
	"github.com/provide-io/flavor/go/apphost/pkg/utils/shellparse"
)

// Exit codes for different error types
const (
	ExitPanic          = 101
	ExitNotBound       = 102
	ExitBindingTooLong = 103
	ExitExecutionError = 104
	ExitInvalidArgs    = 105
	ExitIOError        = 106
	ExitAppNotFound    = 107
)

// Environment variables read by the host
const (
	EnvCLI         = "APPHOST_CLI"          // Intercept args as launcher commands
	EnvExecMode    = "APPHOST_EXEC_MODE"    // "exec" (default) or "spawn"
	EnvRuntime     = "APPHOST_RUNTIME"      // Runtime executable that loads the app
	EnvRuntimeArgs = "APPHOST_RUNTIME_ARGS" // Extra runtime args, shell-quoted

	// Set for the child process
	EnvHostPath = "APPHOST_HOST_PATH"
	EnvAppPath  = "APPHOST_APP_PATH"
)

// ExitCodeFor maps an error to the host's exit code.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperrors.ErrNotBound):
		return ExitNotBound
	case errors.Is(err, apperrors.ErrBindingTooLong):
		return ExitBindingTooLong
	case errors.Is(err, apperrors.ErrAppNotFound):
		return ExitAppNotFound
	case errors.Is(err, shellparse.ErrUnclosedQuote), errors.Is(err, shellparse.ErrTrailingEscape):
		return ExitInvalidArgs
	default:
		return ExitExecutionError
	}
}

// isTrue reports whether an environment value means "on".
func isTrue(val string) bool {
	if val == "" {
		return false
	}

	valLower := strings.ToLower(val)
	if valLower == "on" || valLower == "yes" {
		return true
	}

	result, err := strconv.ParseBool(val)
	return err == nil && result
}

package host

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
)

// Diagnose formats the user-facing message for a binding that cannot be run.
// It returns "" for an enabled binding.
func Diagnose(r binding.Result, hostPath string) string {
	switch r.State {
	case binding.StateDisabled:
		return fmt.Sprintf("This executable is not bound to an application to execute.\n"+
			"Bind it with: apphost-writer bind --template %s --app <relative path> --output <host>",
			filepath.Base(hostPath))
	case binding.StateMalformed:
		return fmt.Sprintf("The application path bound to this executable is longer than the %d byte limit.\n"+
			"The executable image is corrupt; rebuild it from the template.",
			binding.MaxPathLen)
	default:
		return ""
	}
}

// describeLaunchError formats the user-facing message for a failure after the
// binding was read successfully.
func describeLaunchError(err error, bound string) string {
	if errors.Is(err, apperrors.ErrAppNotFound) {
		return fmt.Sprintf("The application bound to this executable ('%s') could not be found: %v", bound, err)
	}
	return fmt.Sprintf("Failed to start the application bound as '%s': %v", bound, err)
}

package host

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
	"github.com/provide-io/flavor/go/apphost/pkg/utils/shellparse"
)

// resolveAppPath turns the bound path into the application's absolute path.
// Relative paths are anchored at the directory of the host executable, after
// resolving symlinks to the host. The result must be an existing regular file.
func resolveAppPath(exePath, bound string) (string, error) {
	appPath := filepath.FromSlash(bound)
	if !filepath.IsAbs(appPath) {
		hostDir := filepath.Dir(exePath)
		if resolved, err := filepath.EvalSymlinks(exePath); err == nil {
			hostDir = filepath.Dir(resolved)
		}
		appPath = filepath.Join(hostDir, appPath)
	}

	info, err := os.Stat(appPath)
	if err != nil {
		return "", fmt.Errorf("%w: %s", apperrors.ErrAppNotFound, appPath)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", apperrors.ErrAppNotFound, appPath)
	}
	return appPath, nil
}

// resolveExecutable resolves a runtime executable name via PATH.
//
// Unix absolute paths that do not exist on this system fall back to their
// basename, so a runtime configured as /usr/bin/dotnet still resolves on a
// machine that keeps it elsewhere on PATH.
func resolveExecutable(executable string, logger hclog.Logger) string {
	if resolved, err := exec.LookPath(executable); err == nil {
		logger.Debug("✅ Resolved runtime via PATH", "input", executable, "resolved", resolved)
		return resolved
	}

	if strings.HasPrefix(executable, "/") {
		base := filepath.Base(executable)
		if runtime.GOOS == "windows" && filepath.Ext(base) == "" {
			base += ".exe"
		}
		if resolved, err := exec.LookPath(base); err == nil {
			logger.Debug("✅ Resolved runtime via basename",
				"input", executable,
				"basename", base,
				"resolved", resolved)
			return resolved
		}
	}

	logger.Debug("⚠️ Could not resolve runtime in PATH, using as-is", "executable", executable)
	return executable
}

// buildCommand prepares the command that starts the bound application,
// either directly or through the configured runtime.
func buildCommand(exePath, bound string, args []string, env []string, logger hclog.Logger) (*exec.Cmd, error) {
	appPath, err := resolveAppPath(exePath, bound)
	if err != nil {
		return nil, err
	}
	logger.Debug("📁 Resolved application", "bound", bound, "path", appPath)

	var cmd *exec.Cmd
	if rt := getenv(env, EnvRuntime, ""); rt != "" {
		runtimeArgs, err := shellparse.Split(getenv(env, EnvRuntimeArgs, ""))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRuntimeArgs, err)
		}
		argv := make([]string, 0, len(runtimeArgs)+1+len(args))
		argv = append(argv, runtimeArgs...)
		argv = append(argv, appPath)
		argv = append(argv, args...)
		cmd = exec.Command(resolveExecutable(rt, logger), argv...)
	} else {
		cmd = exec.Command(appPath, args...)
	}

	cmd.Env = childEnv(env, exePath, appPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	logger.Debug("🚀 Prepared command", "cmdline", shellparse.Join(cmd.Args))
	logEnvironmentTrace(cmd.Env, logger)
	return cmd, nil
}

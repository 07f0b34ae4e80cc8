package host

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
)

// useExec reports whether the application should replace the host process.
// Windows has no exec, so it always spawns.
func useExec(env []string, logger hclog.Logger) bool {
	mode := strings.ToLower(getenv(env, EnvExecMode, ""))
	if runtime.GOOS == "windows" {
		if mode == "exec" {
			logger.Info("💻 Windows detected - using spawn mode (exec mode not supported on Windows)")
		}
		return false
	}
	return mode != "spawn"
}

// execute runs the command and returns the exit code the host should exit with.
// In exec mode it only returns if the exec itself fails.
func execute(cmd *exec.Cmd, replace bool, logger hclog.Logger) (int, error) {
	if replace {
		return ExitExecutionError, executeViaExec(cmd, logger)
	}
	return executeViaSpawn(cmd, logger)
}

// executeViaExec replaces the current process with the command using syscall.Exec.
func executeViaExec(cmd *exec.Cmd, logger hclog.Logger) error {
	logger.Debug("🔄 Using exec mode - process will be replaced")
	if cmd.Err != nil {
		return fmt.Errorf("failed to find command %s: %w", cmd.Path, cmd.Err)
	}

	argv := cmd.Args
	if len(argv) == 0 {
		argv = []string{cmd.Path}
	}

	logger.Debug("🔄 Replacing process via exec", "binary", cmd.Path, "args", argv[1:])
	err := syscall.Exec(cmd.Path, argv, cmd.Env)
	return fmt.Errorf("exec failed: %w", err)
}

// executeViaSpawn starts a child process, waits for it, and returns its exit code.
func executeViaSpawn(cmd *exec.Cmd, logger hclog.Logger) (int, error) {
	logger.Debug("👶 Using spawn mode - child process will be created", "path", cmd.Path)

	if err := cmd.Start(); err != nil {
		return ExitExecutionError, fmt.Errorf("failed to start process: %w", err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			logger.Debug("⏹️ Process exited", "code", code)
			if code < 0 {
				// Killed by a signal
				return ExitExecutionError, nil
			}
			return code, nil
		}
		return ExitExecutionError, fmt.Errorf("process error: %w", err)
	}

	logger.Debug("✅ Process completed successfully")
	return 0, nil
}

// Package host is the launcher built around the binding check: it reads the
// marker region once at startup and either starts the bound application or
// refuses to run.
package host

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	"github.com/provide-io/flavor/go/apphost/pkg/logging"
)

// Launcher holds everything a single host start needs.
type Launcher struct {
	ExePath string
	Source  binding.Source
	Env     []string
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  hclog.Logger
}

// Launch runs the host for the current process and exits. It never returns.
func Launch(exePath string, args []string) {
	lvl := logging.ResolveLevel("", "warn")
	logger := logging.NewLogger("apphost", lvl, nil)
	logger.Debug("Log level", "level", lvl.Name, "source", lvl.Source)

	l := &Launcher{
		ExePath: exePath,
		Source:  binding.Image(),
		Env:     os.Environ(),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Logger:  logger,
	}
	os.Exit(l.Run(args))
}

// Run classifies the marker region and starts the bound application. It
// returns the exit code for the host process.
func (l *Launcher) Run(args []string) int {
	result := binding.Classify(l.Source)
	l.Logger.Debug("🔗 Binding classified", "state", result.State, "length", result.Length)

	if isTrue(getenv(l.Env, EnvCLI, "")) {
		l.Logger.Debug("💻 Running in CLI mode")
		return l.runCLI(result, args)
	}
	return l.start(result, args)
}

func (l *Launcher) start(result binding.Result, args []string) int {
	if err := result.Err(); err != nil {
		l.Logger.Error("❌ Executable is not runnable", "state", result.State, "error", err)
		fmt.Fprintln(l.Stderr, Diagnose(result, l.ExePath))
		return ExitCodeFor(err)
	}
	l.Logger.Debug("📖 Bound application", "path", result.Path)

	cmd, err := buildCommand(l.ExePath, result.Path, args, l.Env, l.Logger)
	if err != nil {
		l.Logger.Error("❌ Failed to prepare application", "error", err)
		fmt.Fprintln(l.Stderr, describeLaunchError(err, result.Path))
		return ExitCodeFor(err)
	}
	cmd.Stdout = l.Stdout
	cmd.Stderr = l.Stderr

	code, err := execute(cmd, useExec(l.Env, l.Logger), l.Logger)
	if err != nil {
		l.Logger.Error("❌ Failed to execute application", "error", err)
		fmt.Fprintln(l.Stderr, describeLaunchError(err, result.Path))
	}
	return code
}

func (l *Launcher) runCLI(result binding.Result, args []string) int {
	if len(args) == 0 {
		return l.showInfo(result)
	}

	switch args[0] {
	case "info":
		return l.showInfo(result)
	case "run":
		return l.start(result, args[1:])
	case "help", "--help":
		fmt.Fprintln(l.Stdout, "Application Host - CLI Mode")
		fmt.Fprintln(l.Stdout)
		fmt.Fprintln(l.Stdout, "Available commands:")
		fmt.Fprintln(l.Stdout, "  info           Show the binding of this executable (default)")
		fmt.Fprintln(l.Stdout, "  run [args...]  Start the bound application with arguments")
		fmt.Fprintln(l.Stdout, "  help           Show this help message")
		fmt.Fprintln(l.Stdout)
		fmt.Fprintln(l.Stdout, "Usage:")
		fmt.Fprintf(l.Stdout, "  %s=1 ./host <command>\n", EnvCLI)
		return 0
	default:
		fmt.Fprintf(l.Stderr, "Error: Unknown command '%s'\n", args[0])
		fmt.Fprintln(l.Stderr, "Available commands: info, run, help")
		return ExitInvalidArgs
	}
}

func (l *Launcher) showInfo(result binding.Result) int {
	fmt.Fprintf(l.Stdout, "Host: %s\n", l.ExePath)
	fmt.Fprintf(l.Stdout, "Binding: %s\n", result.State)

	switch result.State {
	case binding.StateEnabled:
		fmt.Fprintf(l.Stdout, "Application: %s\n", result.Path)
		if appPath, err := resolveAppPath(l.ExePath, result.Path); err != nil {
			fmt.Fprintf(l.Stdout, "Resolved: ✗ %v\n", err)
		} else {
			fmt.Fprintf(l.Stdout, "Resolved: ✓ %s\n", appPath)
		}
	case binding.StateMalformed:
		fmt.Fprintf(l.Stdout, "Length: over %d bytes\n", binding.MaxPathLen)
	}
	return 0
}

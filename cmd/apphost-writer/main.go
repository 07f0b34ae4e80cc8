package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	"github.com/provide-io/flavor/go/apphost/pkg/apphost/writer"
	"github.com/provide-io/flavor/go/apphost/pkg/logging"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

type rootOptions struct {
	logLevel string
	version  bool
}

type bindFlags struct {
	manifest      string
	template      string
	output        string
	app           string
	windowsGUI    bool
	resourcesFrom string
	mode          string
}

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func newLogger(cliLevel string) hclog.Logger {
	lvl := logging.ResolveLevel(cliLevel, "info")
	logger := logging.NewLogger("apphost-writer", lvl, nil)
	logger.Debug("Log level", "level", lvl.Name, "source", lvl.Source)
	return logger
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}
	root := &cobra.Command{
		Use:           "apphost-writer",
		Short:         "Bind template host executables to applications",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ro.version {
				printVersion(cmd)
				return nil
			}
			return cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&ro.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error, json:<level>)")
	root.Flags().BoolVarP(&ro.version, "version", "V", false, "Show version information")

	root.AddCommand(newBindCmd(ro), newInspectCmd(ro))
	return root
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "apphost-writer %s\n", version)
	fmt.Fprintf(cmd.OutOrStdout(), "Built: %s\n", getBuildTimestamp())
}

func newBindCmd(ro *rootOptions) *cobra.Command {
	bf := &bindFlags{}
	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Write a host bound to an application path",
		Long: `Copies the template host to the output path with the application path
patched into its marker region. The path is stored as given and resolved
relative to the host's directory at run time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := writer.Options{}
			if bf.manifest != "" {
				loaded, err := writer.LoadManifest(bf.manifest)
				if err != nil {
					return err
				}
				opts = loaded
			}

			flags := cmd.Flags()
			if flags.Changed("template") {
				opts.Template = bf.template
			}
			if flags.Changed("output") {
				opts.Output = bf.output
			}
			if flags.Changed("app") {
				opts.App = bf.app
			}
			if flags.Changed("windows-gui") {
				opts.WindowsGUI = bf.windowsGUI
			}
			if flags.Changed("resources-from") {
				opts.ResourcesFrom = bf.resourcesFrom
			}
			if flags.Changed("mode") {
				opts.Mode = bf.mode
			}

			res, err := writer.Bind(opts, newLogger(ro.logLevel))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bound %s -> %s (%s)\n", res.Output, opts.App, res.Digest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&bf.manifest, "manifest", "m", "", "Path to a bind manifest (YAML or JSON)")
	cmd.Flags().StringVarP(&bf.template, "template", "t", "", "Path to the template host")
	cmd.Flags().StringVarP(&bf.output, "output", "o", "", "Path of the bound host to write")
	cmd.Flags().StringVarP(&bf.app, "app", "a", "", "Application path to bind, relative to the host")
	cmd.Flags().BoolVar(&bf.windowsGUI, "windows-gui", false, "Mark a PE host as a GUI application")
	cmd.Flags().StringVar(&bf.resourcesFrom, "resources-from", "", "Copy Win32 resources from this PE image into the host")
	cmd.Flags().StringVar(&bf.mode, "mode", "", "Octal file mode of the bound host (default 0755)")
	return cmd
}

func newInspectCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <host>",
		Short: "Show the binding of a host executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := writer.Inspect(args[0], newLogger(ro.logLevel))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", report.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Marker: 0x%x (by %s)\n", report.Offset, report.Method)
			fmt.Fprintf(cmd.OutOrStdout(), "Binding: %s\n", report.Binding.State)
			switch report.Binding.State {
			case binding.StateEnabled:
				fmt.Fprintf(cmd.OutOrStdout(), "Application: %s\n", report.Binding.Path)
			case binding.StateMalformed:
				fmt.Fprintf(cmd.OutOrStdout(), "Length: over %d bytes\n", binding.MaxPathLen)
			}
			return nil
		},
	}
}

func main() {
	// Handle --version or -V before cobra parses other flags
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("apphost-writer %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

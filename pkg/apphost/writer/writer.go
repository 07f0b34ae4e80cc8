// Package writer binds a template host executable to an application by
// patching the application path into the host's marker region.
package writer

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
	"github.com/provide-io/flavor/go/apphost/pkg/utils/permissions"
)

// Options describes one bind operation. It doubles as the manifest schema.
type Options struct {
	Template      string `yaml:"template"`
	Output        string `yaml:"output"`
	App           string `yaml:"app"`
	WindowsGUI    bool   `yaml:"windows_gui"`
	ResourcesFrom string `yaml:"resources_from"`
	// Mode is the octal file mode of the output; defaults to 0755
	Mode string `yaml:"mode"`
}

// Result reports a completed bind.
type Result struct {
	Output string
	Offset int
	Digest string
}

// Bind copies the template host to the output path with the application path
// patched into its marker region.
func Bind(opts Options, logger hclog.Logger) (*Result, error) {
	if opts.Template == "" || opts.Output == "" {
		return nil, fmt.Errorf("template and output paths are required")
	}
	if err := ValidateAppPath(opts.App); err != nil {
		return nil, err
	}
	mode, err := permissions.ParseOctal(opts.Mode, permissions.DefaultExecutablePerms)
	if err != nil {
		return nil, err
	}
	if !permissions.IsExecutable(mode) {
		return nil, fmt.Errorf("output mode %s is not executable by its owner", permissions.FormatOctal(mode))
	}

	logger.Info("🚀 Loading template", "path", opts.Template)
	data, err := os.ReadFile(opts.Template)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	logger.Debug("✅ Template loaded", "size", len(data))

	offset, err := FindPlaceholder(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Template, err)
	}
	logger.Debug("🔍 Found placeholder", "offset", fmt.Sprintf("0x%x", offset))

	if err := Patch(data, offset, opts.App); err != nil {
		return nil, err
	}
	logger.Info("🔗 Bound application path", "app", opts.App)

	if opts.WindowsGUI {
		if err := SetWindowsGUI(data, logger); err != nil {
			return nil, err
		}
	}
	if opts.ResourcesFrom != "" && !isPEExecutable(data) {
		return nil, fmt.Errorf("%w: resources can only be copied into a PE host", apperrors.ErrNotPE)
	}

	tmpPath := opts.Output + ".tmp"
	_ = os.Remove(tmpPath)
	if err := os.WriteFile(tmpPath, data, mode); err != nil {
		return nil, fmt.Errorf("failed to write host: %w", err)
	}

	if opts.ResourcesFrom != "" {
		if err := copyResources(opts.ResourcesFrom, tmpPath, mode, logger); err != nil {
			os.Remove(tmpPath)
			return nil, err
		}
	}

	// WriteFile is subject to the umask
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to set host mode: %w", err)
	}

	if err := atomicReplace(tmpPath, opts.Output, logger); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("failed to move host into place: %w", err)
	}

	digest, err := fileDigest(opts.Output)
	if err != nil {
		return nil, err
	}
	logger.Info("✅ Host written", "path", opts.Output, "mode", permissions.FormatOctal(mode), "digest", digest)

	return &Result{Output: opts.Output, Offset: offset, Digest: digest}, nil
}

package writer

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
)

// copyResources replaces the Win32 resources of the PE host at hostPath with
// those of the PE image at srcPath (version info, icons, manifest), so the
// bound host presents itself as the application.
func copyResources(srcPath, hostPath string, mode os.FileMode, logger hclog.Logger) error {
	logger.Debug("Copying Win32 resources", "from", srcPath, "to", hostPath)

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open resource source: %w", err)
	}
	rs, err := winres.LoadFromEXE(src)
	src.Close()
	if err != nil {
		return fmt.Errorf("failed to load resources from %s: %w", srcPath, err)
	}

	// No defer: both files must be closed before the rename on Windows
	host, err := os.Open(hostPath)
	if err != nil {
		return fmt.Errorf("failed to open host: %w", err)
	}

	tmpPath := hostPath + ".res"
	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		host.Close()
		return fmt.Errorf("failed to create temporary output file: %w", err)
	}

	if err := rs.WriteToEXE(out, host); err != nil {
		out.Close()
		host.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write resources to host: %w", err)
	}

	if err := out.Close(); err != nil {
		host.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := host.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close host: %w", err)
	}

	if err := atomicReplace(tmpPath, hostPath, logger); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace host: %w", err)
	}

	logger.Info("✅ Copied Win32 resources", "from", srcPath)
	return nil
}

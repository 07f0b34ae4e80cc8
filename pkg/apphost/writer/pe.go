package writer

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hashicorp/go-hclog"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
)

const (
	subsystemWindowsGUI = 2
	subsystemWindowsCUI = 3

	// Offsets within the optional header; identical for PE32 and PE32+
	optCheckSumOffset  = 64
	optSubsystemOffset = 68
)

// isPEExecutable checks if data starts with the "MZ" DOS signature.
func isPEExecutable(data []byte) bool {
	return len(data) >= 2 && data[0] == 'M' && data[1] == 'Z'
}

// getPEHeaderOffset reads the PE header offset from the DOS header.
// The offset is stored at position 0x3C (e_lfanew field) as a 4-byte little-endian integer.
func getPEHeaderOffset(data []byte) (int, error) {
	if !isPEExecutable(data) || len(data) < 0x40 {
		return 0, fmt.Errorf("%w: missing DOS header", apperrors.ErrNotPE)
	}

	peOffset := int(binary.LittleEndian.Uint32(data[0x3C:0x40]))
	if peOffset < 0x40 || len(data) < peOffset+4 {
		return 0, fmt.Errorf("%w: PE header offset 0x%x out of range", apperrors.ErrNotPE, peOffset)
	}

	if !bytes.Equal(data[peOffset:peOffset+4], []byte{'P', 'E', 0, 0}) {
		return 0, fmt.Errorf("%w: invalid PE signature at offset 0x%x", apperrors.ErrNotPE, peOffset)
	}
	return peOffset, nil
}

// optionalHeaderOffset returns the file offset of the PE optional header.
func optionalHeaderOffset(data []byte) (int, error) {
	peOffset, err := getPEHeaderOffset(data)
	if err != nil {
		return 0, err
	}
	coffOffset := peOffset + 4
	if len(data) < coffOffset+20 {
		return 0, fmt.Errorf("%w: truncated COFF header", apperrors.ErrNotPE)
	}

	optHdrSize := int(binary.LittleEndian.Uint16(data[coffOffset+16 : coffOffset+18]))
	optOffset := coffOffset + 20
	if optHdrSize < optSubsystemOffset+2 || len(data) < optOffset+optSubsystemOffset+2 {
		return 0, fmt.Errorf("%w: optional header too small (%d bytes)", apperrors.ErrNotPE, optHdrSize)
	}
	return optOffset, nil
}

// SetWindowsGUI switches a console PE executable to the Windows GUI
// subsystem, so starting it does not open a console window.
func SetWindowsGUI(data []byte, logger hclog.Logger) error {
	optOffset, err := optionalHeaderOffset(data)
	if err != nil {
		return err
	}

	subOffset := optOffset + optSubsystemOffset
	subsystem := binary.LittleEndian.Uint16(data[subOffset : subOffset+2])
	if subsystem != subsystemWindowsCUI {
		return fmt.Errorf("%w: subsystem is %d", apperrors.ErrNotConsoleApp, subsystem)
	}

	binary.LittleEndian.PutUint16(data[subOffset:subOffset+2], subsystemWindowsGUI)

	// Not validated for executables; stale after the edit
	sumOffset := optOffset + optCheckSumOffset
	binary.LittleEndian.PutUint32(data[sumOffset:sumOffset+4], 0)

	logger.Debug("Switched PE subsystem",
		"offset", fmt.Sprintf("0x%x", subOffset),
		"from", subsystem,
		"to", subsystemWindowsGUI)
	return nil
}

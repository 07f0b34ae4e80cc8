package writer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/provide-io/flavor/go/apphost/pkg/apphost/binding"
	apperrors "github.com/provide-io/flavor/go/apphost/pkg/apphost/errors"
)

// placeholder joins the two halves at run time, so no joined constant is
// ever compiled into a binary that links the binding package.
func placeholder() []byte {
	p := make([]byte, 0, binding.PlaceholderLen)
	p = append(p, binding.PlaceholderHi...)
	return append(p, binding.PlaceholderLo...)
}

// ValidateAppPath checks that appPath can be stored in the marker region.
func ValidateAppPath(appPath string) error {
	if appPath == "" {
		return apperrors.ErrAppPathEmpty
	}
	if strings.IndexByte(appPath, 0) >= 0 {
		return fmt.Errorf("%w: contains a NUL byte", apperrors.ErrAppPathInvalid)
	}
	if !utf8.ValidString(appPath) {
		return fmt.Errorf("%w: not valid UTF-8", apperrors.ErrAppPathInvalid)
	}
	if len(appPath) > binding.MaxPathLen {
		return fmt.Errorf("%w: %d bytes, limit is %d", apperrors.ErrAppPathTooLong, len(appPath), binding.MaxPathLen)
	}
	return nil
}

// FindPlaceholder returns the offset of the placeholder in a template image.
// The placeholder must occur exactly once.
func FindPlaceholder(data []byte) (int, error) {
	p := placeholder()
	first := bytes.Index(data, p)
	if first < 0 {
		return -1, apperrors.ErrPlaceholderNotFound
	}
	if next := bytes.Index(data[first+1:], p); next >= 0 {
		return -1, fmt.Errorf("%w: at 0x%x and 0x%x", apperrors.ErrPlaceholderAmbiguous, first, first+1+next)
	}
	return first, nil
}

// Patch writes appPath into the marker region at offset and zero-fills the
// rest of the placeholder. The patched region is then classified again and
// must come back bound to exactly appPath.
func Patch(data []byte, offset int, appPath string) error {
	if err := ValidateAppPath(appPath); err != nil {
		return err
	}

	span := max(binding.PlaceholderLen, len(appPath)+1)
	if offset < 0 || offset+span > len(data) {
		return fmt.Errorf("%w: %d bytes at 0x%x exceed the image", apperrors.ErrRegionNotFound, span, offset)
	}

	n := copy(data[offset:], appPath)
	clear(data[offset+n : offset+span])

	result := binding.Classify(binding.Slice(binding.Bytes(data), offset))
	if result.State != binding.StateEnabled || result.Path != appPath {
		return fmt.Errorf("%w: classified as %s with path %q", apperrors.ErrVerifyFailed, result.State, result.Path)
	}
	return nil
}

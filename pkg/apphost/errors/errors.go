package errors

import "errors"

var (
	// Binding errors 🔗
	ErrNotBound       = errors.New("❌ executable is not bound to an application")
	ErrBindingTooLong = errors.New("❌ bound application path exceeds the marker capacity")

	// Build tool errors 🔨
	ErrPlaceholderNotFound  = errors.New("❌ placeholder not found in template")
	ErrPlaceholderAmbiguous = errors.New("❌ placeholder found more than once in template")
	ErrAppPathEmpty         = errors.New("❌ application path is empty")
	ErrAppPathTooLong       = errors.New("❌ application path is too long")
	ErrAppPathInvalid       = errors.New("❌ application path is not a valid path string")
	ErrVerifyFailed         = errors.New("❌ patched marker did not verify")
	ErrNotPE                = errors.New("❌ not a PE executable")
	ErrNotConsoleApp        = errors.New("❌ PE subsystem is not console")
	ErrRegionNotFound       = errors.New("❌ marker region not found")

	// Host errors 🚀
	ErrAppNotFound = errors.New("❌ bound application does not exist")
)

package persist

import "errors"

// Sentinel errors for package persist.
var (
	// ErrBadMagic is returned by ReadMagic when the stream's first line
	// does not match the expected magic string.
	ErrBadMagic = errors.New("persist: bad magic header")

	// ErrMalformedSection is returned by ReadSection when a section header
	// or its row count cannot be parsed.
	ErrMalformedSection = errors.New("persist: malformed section")

	// ErrSectionNameMismatch is returned by ReadSection when the section
	// found does not match the name the caller expected.
	ErrSectionNameMismatch = errors.New("persist: unexpected section name")
)

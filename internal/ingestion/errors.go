package ingestion

import "fmt"

// UnsupportedFormatError is returned for file extensions Decode cannot read
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported file format: missing extension"
	}
	return fmt.Sprintf("unsupported file format: %s", e.Extension)
}

// DecodeError represents a file that could not be decoded in its declared format
type DecodeError struct {
	Format string
	Cause  error
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to decode %s: %v", e.Format, e.Cause)
	}
	return fmt.Sprintf("failed to decode %s", e.Format)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

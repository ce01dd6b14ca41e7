package maxwell

import (
	"errors"
	"fmt"
)

// Failure categories. Every specific engine error wraps exactly one of
// these, so callers can match either the precise failure or its class
// with errors.Is.
var (
	// ErrContractViolation marks guest behavior outside the modeled
	// envelope (or an engine defect). The submitting side must halt;
	// continuing would leave emulated state undefined.
	ErrContractViolation = errors.New("contract violation")

	// ErrUnimplemented marks a feature the hardware has but this model
	// does not. Reported with detail, never silently skipped.
	ErrUnimplemented = errors.New("unimplemented feature")

	// ErrResourceBounds marks an access outside a bound resource.
	ErrResourceBounds = errors.New("resource bounds error")
)

// Specific failures.
var (
	ErrInvalidRegister = fmt.Errorf("%w: register index out of range", ErrContractViolation)

	ErrUnknownMacro       = fmt.Errorf("%w: macro code was never uploaded", ErrUnimplemented)
	ErrUnimplementedMacro = fmt.Errorf("%w: no native handler for macro", ErrUnimplemented)

	ErrUnimplementedQueryMode = fmt.Errorf("%w: query mode", ErrUnimplemented)

	ErrUnsupportedTextureFormat = fmt.Errorf("%w: texture descriptor layout", ErrUnimplemented)

	ErrConstBufferNotBound = fmt.Errorf("%w: streamed write with no constant buffer bound", ErrResourceBounds)
	ErrConstBufferOverflow = fmt.Errorf("%w: streamed write past end of constant buffer", ErrResourceBounds)

	ErrTextureBufferNotBound = fmt.Errorf("%w: texture info buffer not bound", ErrResourceBounds)
)

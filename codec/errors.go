package codec

import "errors"

var (
	// ErrFormatNotFound is returned when a format is not found in the registry
	ErrFormatNotFound = errors.New("format not found")

	// ErrInvalidPixelType is returned when a pixel-type tag is outside the
	// five known values
	ErrInvalidPixelType = errors.New("invalid pixel type")

	// ErrUnsupportedPixelType is returned when a format cannot store the
	// requested pixel type
	ErrUnsupportedPixelType = errors.New("pixel type not supported by format")

	// ErrPixelTypeMismatch is returned when a scanline buffer does not hold
	// the element type its session's pixel-type tag names
	ErrPixelTypeMismatch = errors.New("scanline type does not match pixel type tag")

	// ErrAlreadyFinalized is returned when encoder settings are changed or
	// finalized after FinalizeSettings
	ErrAlreadyFinalized = errors.New("encoder settings already finalized")

	// ErrNotFinalized is returned when a scanline is pushed before
	// FinalizeSettings
	ErrNotFinalized = errors.New("encoder settings not finalized")

	// ErrBandCount is returned when a band count is outside what the
	// operation supports
	ErrBandCount = errors.New("unsupported band count")

	// ErrGeometry is returned when a width or height setting is not positive
	ErrGeometry = errors.New("invalid image geometry")
)

package feature

import "errors"

var (
	// ErrInvalidArgument reports a value of the wrong shape, such as a name
	// that is too long or a configuration with no fields set.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange reports a numeric value outside the range the device
	// accepts, or a payload too short to hold the expected fields.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnsupportedMode reports a mode the codec knows about but cannot encode.
	ErrUnsupportedMode = errors.New("unsupported mode")

	ErrUnknownCharacteristic = errors.New("unknown characteristic")
	ErrNotReadable           = errors.New("characteristic has no decoder")
	ErrNotWritable           = errors.New("characteristic has no encoder")
)

package adjust

import "github.com/zeebo/errs"

// Error classes returned in Adjustment.Err. Use Has to test an error against
// a class, e.g. ConversionError.Has(a.Err).
var (
	// ConversionError reports a value that cannot be read as an exact integer.
	// Missing values belong to this class too.
	ConversionError = errs.Class("conversion")
	// ZeroBaseError reports a zero base quantity: no factor can map it to a target.
	ZeroBaseError = errs.Class("zero base")
	// NegativeBaseError reports a negative base quantity, which is not supported.
	NegativeBaseError = errs.Class("negative base")
	// MismatchError reports a factor whose proof quantity differs from the target.
	MismatchError = errs.Class("reconciliation mismatch")
	// ArithmeticError reports a computation the decimal arithmetic could not
	// carry out, such as an exponent overflow.
	ArithmeticError = errs.Class("arithmetic")
	// ConfigError reports an invalid solver configuration.
	ConfigError = errs.Class("config")
)

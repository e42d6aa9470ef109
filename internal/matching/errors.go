package matching

import (
	"errors"
	"fmt"
)

// ErrUnknownAttribute is returned when normalizing an attribute without a range.
var ErrUnknownAttribute = errors.New("unknown attribute")

// ConfigurationError reports an invalid engine setting detected at construction.
type ConfigurationError struct {
	Attribute Attribute
	Range     Range
	Reason    string
}

func (e *ConfigurationError) Error() string {
	if e.Attribute == "" {
		return fmt.Sprintf("invalid matching configuration: %s", e.Reason)
	}
	return fmt.Sprintf("invalid range for %s [%g, %g]: %s", e.Attribute, e.Range.Lo, e.Range.Hi, e.Reason)
}

// InvalidProfileValueError reports a non-finite numeric profile value.
type InvalidProfileValueError struct {
	Field string
	Value float64
}

func (e *InvalidProfileValueError) Error() string {
	return fmt.Sprintf("invalid profile value for %s: %v", e.Field, e.Value)
}

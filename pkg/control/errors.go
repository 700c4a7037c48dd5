package control

import (
	"errors"
	"fmt"
)

// ErrUnknownVariant is wrapped by ConfigurationError when a definition names a
// variant the registry does not know.
var ErrUnknownVariant = errors.New("control: unknown variant")

// ConfigurationError reports a control definition that cannot be built.
type ConfigurationError struct {
	Name    string
	Variant string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if errors.Is(e.Err, ErrUnknownVariant) {
		return fmt.Sprintf("control: %q: unknown variant %q", e.Name, e.Variant)
	}
	return fmt.Sprintf("control: %q (%s): %v", e.Name, e.Variant, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

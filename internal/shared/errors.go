package shared

import (
	"github.com/pkg/errors"
)

var (
	// returned when the invoking event carries no configuration item, e.g. a
	// scheduled notification
	ErrMissingConfigurationItem = errors.New("missing field [configurationItem] in invoking event")
)

// MissingFieldError reports a required configuration item field that was absent or empty.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return "missing field [" + e.Field + "] in configuration item"
}

// IsMissingField reports whether err was caused by an absent required field.
func IsMissingField(err error) bool {
	if errors.Is(err, ErrMissingConfigurationItem) {
		return true
	}
	var fieldErr MissingFieldError
	return errors.As(err, &fieldErr)
}

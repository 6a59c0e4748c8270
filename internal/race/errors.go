package race

import "fmt"

// ConfigurationError reports a race that cannot be constructed.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("race: invalid %s: %s", e.Field, e.Reason)
}

package validation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// envVarRegex is a pre-compiled regex for POSIX environment variable names
var envVarRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Error represents a validation error with an actionable remediation hint
type Error struct {
	Field       string
	Value       string
	Message     string
	Remediation string
}

func (e *Error) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("%s: %s\nRemediation: %s", e.Field, e.Message, e.Remediation)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Filename validates a bare file name (e.g., "train.csv").
// A backslash is only a separator where the platform uses it as one.
func Filename(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	if value == "." || value == ".." || strings.ContainsRune(value, '/') || strings.ContainsRune(value, filepath.Separator) {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid file name: %q", value),
			Remediation: "Provide a file name without directories (e.g., train.csv); use --local-subdir or --candidate for locations",
		}
	}
	return nil
}

// RelativePath validates a path that must stay below the directory it is joined to
func RelativePath(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	clean := filepath.Clean(value)
	if filepath.IsAbs(value) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("path must be relative and must not leave its base directory: %q", value),
			Remediation: "Provide a relative path such as my-dataset or owner/my-dataset",
		}
	}
	return nil
}

// EnvVarName validates an environment variable name
func EnvVarName(field, value string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	if !envVarRegex.MatchString(value) {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     fmt.Sprintf("invalid environment variable name: %q", value),
			Remediation: "Use letters, digits and underscores, not starting with a digit (e.g., DATA_PATH)",
		}
	}
	return nil
}

// Required validates that a field is not empty
func Required(field, value string) error {
	if value == "" {
		return &Error{
			Field:       field,
			Value:       value,
			Message:     "field is required but not set",
			Remediation: fmt.Sprintf("Set %s via argument, project file or command-line flag", field),
		}
	}
	return nil
}

// OneOf validates that a value is one of the allowed values
func OneOf(field, value string, allowed []string) error {
	if value == "" {
		return nil // Empty values are handled by Required()
	}

	for _, a := range allowed {
		if value == a {
			return nil
		}
	}

	return &Error{
		Field:       field,
		Value:       value,
		Message:     fmt.Sprintf("invalid value: %q", value),
		Remediation: fmt.Sprintf("Must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Errors collects multiple validation errors
type Errors []error

func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed:\n%s", strings.Join(messages, "\n"))
}

// HasErrors returns true if there are any errors
func (e Errors) HasErrors() bool {
	return len(e) > 0
}

// Add appends err if it is not nil
func (e *Errors) Add(err error) {
	if err != nil {
		*e = append(*e, err)
	}
}

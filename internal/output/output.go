package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mfittko/datapath/internal/validation"
)

// Format represents the output format
type Format string

const (
	// FormatText is the default human-readable text format
	FormatText Format = "text"
	// FormatJSON is machine-readable JSON format
	FormatJSON Format = "json"
)

// Formats lists the accepted --output values
var Formats = []string{string(FormatText), string(FormatJSON)}

// ParseFormat parses a format string and validates it
func ParseFormat(s string) (Format, error) {
	format := Format(s)
	switch format {
	case FormatText, FormatJSON:
		return format, nil
	default:
		return FormatText, fmt.Errorf("invalid output format: %q (must be 'text' or 'json')", s)
	}
}

// Formatter handles outputting data in different formats
type Formatter struct {
	format Format
	writer io.Writer
}

// New creates a new Formatter with the specified format
func New(format Format) *Formatter {
	return &Formatter{
		format: format,
		writer: os.Stdout,
	}
}

// SetWriter sets the output writer (useful for testing)
func (f *Formatter) SetWriter(w io.Writer) {
	f.writer = w
}

// Format returns the configured format
func (f *Formatter) Format() Format {
	return f.format
}

// Result represents a command result that can be output in different formats
type Result struct {
	Success     bool                   `json:"success"`
	Message     string                 `json:"message,omitempty"`
	Error       string                 `json:"error,omitempty"`
	Remediation string                 `json:"remediation,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// Print outputs a result in the configured format
func (f *Formatter) Print(result *Result) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(result)
	case FormatText:
		return f.printText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// printJSON outputs the result as JSON
func (f *Formatter) printJSON(result *Result) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// printText outputs the result as human-readable text
func (f *Formatter) printText(result *Result) error {
	if !result.Success {
		if result.Error != "" {
			if _, err := fmt.Fprintf(f.writer, "Error: %s\n", result.Error); err != nil {
				return err
			}
			if result.Remediation != "" {
				_, err := fmt.Fprintf(f.writer, "Remediation: %s\n", result.Remediation)
				return err
			}
			return nil
		}
		_, err := fmt.Fprintln(f.writer, "Command failed")
		return err
	}

	if result.Message != "" {
		_, err := fmt.Fprintln(f.writer, result.Message)
		return err
	}

	// Print data as key-value pairs, sorted for stable output
	keys := make([]string, 0, len(result.Data))
	for k := range result.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err := fmt.Fprintf(f.writer, "%s: %v\n", k, result.Data[k]); err != nil {
			return err
		}
	}

	return nil
}

// ValidationError represents a validation error in structured format
type ValidationError struct {
	Field       string `json:"field"`
	Value       string `json:"value,omitempty"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

// ValidationResult represents validation results
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult converts a validation error (a *validation.Error or a
// validation.Errors) into a ValidationResult. A nil err is valid.
func NewValidationResult(err error) *ValidationResult {
	if err == nil {
		return &ValidationResult{Valid: true}
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		errs = validation.Errors{err}
	}

	result := &ValidationResult{Valid: false}
	for _, e := range errs {
		var valErr *validation.Error
		if errors.As(e, &valErr) {
			result.Errors = append(result.Errors, ValidationError{
				Field:       valErr.Field,
				Value:       valErr.Value,
				Message:     valErr.Message,
				Remediation: valErr.Remediation,
			})
			continue
		}
		result.Errors = append(result.Errors, ValidationError{Message: e.Error()})
	}
	return result
}

// PrintValidation outputs validation results
func (f *Formatter) PrintValidation(result *ValidationResult) error {
	switch f.format {
	case FormatJSON:
		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	case FormatText:
		if result.Valid {
			_, err := fmt.Fprintln(f.writer, "Validation passed")
			return err
		}
		_, err := fmt.Fprintln(f.writer, "Validation failed:")
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			if e.Field != "" {
				_, err = fmt.Fprintf(f.writer, "  - %s: %s\n", e.Field, e.Message)
			} else {
				_, err = fmt.Fprintf(f.writer, "  - %s\n", e.Message)
			}
			if err != nil {
				return err
			}
			if e.Remediation != "" {
				_, err = fmt.Fprintf(f.writer, "    Remediation: %s\n", e.Remediation)
				if err != nil {
					return err
				}
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig performs comprehensive validation of the configuration.
func ValidateConfig(c *Config) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	if strings.TrimSpace(c.DistDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "dist_dir",
			Message: "dist directory cannot be empty",
		})
	}

	errs = append(errs, validateProfiles(c.Profiles)...)
	errs = append(errs, validateLogging(&c.Logging)...)

	if c.Watch.DebounceMs < 0 || c.Watch.DebounceMs > 60000 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: "debounce must be between 0 and 60000ms",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateProfiles(profiles []ProfileConfig) ValidationErrors {
	var errs ValidationErrors
	names := make(map[string]bool)
	outputs := make(map[string]bool)

	for i, p := range profiles {
		field := fmt.Sprintf("profiles[%d]", i)

		if p.Name == "" {
			errs = append(errs, ValidationError{Field: field + ".name", Message: "name cannot be empty"})
		} else if names[strings.ToLower(p.Name)] {
			errs = append(errs, ValidationError{Field: field + ".name", Message: fmt.Sprintf("duplicate profile %q", p.Name)})
		}
		names[strings.ToLower(p.Name)] = true

		if p.Mapping == "" {
			errs = append(errs, ValidationError{Field: field + ".mapping", Message: "mapping file cannot be empty"})
		}

		switch {
		case p.Output == "":
			errs = append(errs, ValidationError{Field: field + ".output", Message: "output file cannot be empty"})
		case !strings.HasSuffix(strings.ToLower(p.Output), ".cfg"):
			errs = append(errs, ValidationError{Field: field + ".output", Message: "output file must end in .cfg"})
		case outputs[p.Output]:
			errs = append(errs, ValidationError{Field: field + ".output", Message: fmt.Sprintf("output %q used by another profile", p.Output)})
		}
		outputs[p.Output] = true
	}

	return errs
}

func validateLogging(l *LoggingConfig) ValidationErrors {
	var errs ValidationErrors

	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level: %s (valid: debug, info, warn, error)", l.Level),
		})
	}

	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("invalid format: %s (valid: text, json)", l.Format),
		})
	}

	switch strings.ToLower(l.Output) {
	case "stdout", "stderr":
	case "file":
		if l.FilePath == "" {
			errs = append(errs, ValidationError{
				Field:   "logging.file_path",
				Message: "file path required when output is file",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("invalid output: %s (valid: stdout, stderr, file)", l.Output),
		})
	}

	return errs
}

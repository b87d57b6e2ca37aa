package config

import (
	"fmt"
	"strings"
)

// FieldError is a validation failure of one configuration field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

func Validate(cfg *Config) error {
	var errs []FieldError

	switch cfg.Engine {
	case EnginePostgres, EngineSQLite:
	default:
		errs = append(errs, FieldError{"engine", fmt.Sprintf("must be %q or %q, got %q", EnginePostgres, EngineSQLite, cfg.Engine)})
	}
	if cfg.DSN == "" {
		errs = append(errs, FieldError{"dsn", "is required"})
	}
	if cfg.MaxOpenConns < 0 {
		errs = append(errs, FieldError{"max_open_conns", "must not be negative"})
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, FieldError{"log_format", fmt.Sprintf("must be text or json, got %q", cfg.LogFormat)})
	}
	if len(cfg.Resources) == 0 {
		errs = append(errs, FieldError{"resources", "at least one resource is required"})
	}
	for _, name := range cfg.ResourceNames() {
		errs = append(errs, validateResource(name, cfg.Resources[name])...)
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateResource(name string, r Resource) []FieldError {
	var errs []FieldError
	prefix := "resources." + name
	if r.Table == "" {
		errs = append(errs, FieldError{prefix + ".table", "is required"})
	}
	for _, list := range []struct {
		field string
		cols  []string
	}{
		{"columns", r.Columns},
		{"search_fields", r.SearchFields},
		{"allowed_fields", r.AllowedFields},
	} {
		for i, c := range list.cols {
			if strings.TrimSpace(c) == "" {
				errs = append(errs, FieldError{fmt.Sprintf("%s.%s[%d]", prefix, list.field, i), "must not be empty"})
			}
		}
	}
	if len(r.Columns) > 0 {
		known := make(map[string]bool, len(r.Columns))
		for _, c := range r.Columns {
			known[c] = true
		}
		for _, list := range []struct {
			field string
			cols  []string
		}{
			{"search_fields", r.SearchFields},
			{"allowed_fields", r.AllowedFields},
		} {
			for i, c := range list.cols {
				if strings.TrimSpace(c) != "" && !known[c] {
					errs = append(errs, FieldError{fmt.Sprintf("%s.%s[%d]", prefix, list.field, i), fmt.Sprintf("%q is not in columns", c)})
				}
			}
		}
	}
	return errs
}

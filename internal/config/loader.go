package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolves an environment variable. It has the signature of
// os.LookupEnv so tests can supply a map instead of mutating the process env.
type LookupFunc func(key string) (string, bool)

// Load reads configuration from the process environment.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom reads configuration through lookup instead of os.LookupEnv.
func LoadFrom(lookup LookupFunc) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), lookup); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from the environment.
func loadStruct(v reflect.Value, lookup LookupFunc) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal, lookup); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, source := lookupValue(lookup, envName, field.Tag.Get("envAlt"))
		if value == "" {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", source, value, err)
		}
	}

	return nil
}

// lookupValue tries the primary variable, then the alternate.
// It returns the value and the name it was read from.
func lookupValue(lookup LookupFunc, primary, alt string) (string, string) {
	if v, ok := lookup(primary); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v), primary
	}
	if alt != "" {
		if v, ok := lookup(alt); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), alt
		}
	}
	return "", primary
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.Database.Driver) {
	case DriverMySQL, DriverPostgres, DriverSQLite:
		c.Database.Driver = strings.ToLower(c.Database.Driver)
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: mysql, postgres, sqlite", c.Database.Driver))
	}
	if c.Database.Name == "" {
		errs = append(errs, "MYSQL_DB must not be empty")
	}
	if c.Database.Driver != DriverSQLite {
		if c.Database.Host == "" {
			errs = append(errs, "MYSQL_HOST must not be empty")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("MYSQL_PORT (%d) must be 1-65535", c.Database.Port))
		}
	}
	if c.Database.ConnectTimeout <= 0 {
		errs = append(errs, "DB_CONNECT_TIMEOUT must be positive")
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, "DB_QUERY_TIMEOUT must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if c.Convert.LegacyDir == "" || c.Convert.OutputDir == "" {
		errs = append(errs, "CONVERT_LEGACY_DIR and CONVERT_OUTPUT_DIR must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The database password is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString("Database: " + c.Database.String() + ", ")
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, File: %q}, ",
		c.Logging.Level, c.Logging.Format, c.Logging.File))
	b.WriteString(fmt.Sprintf("Convert: {LegacyDir: %q, OutputDir: %q, Encoding: %q}",
		c.Convert.LegacyDir, c.Convert.OutputDir, c.Convert.Encoding))
	b.WriteString("}")
	return b.String()
}

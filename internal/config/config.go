// Package config provides centralized configuration for the study plan
// console and the legacy table converter. Values come from environment
// variables (optionally seeded from a .env file) with defaults that match a
// local MySQL install, and are validated once at startup.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Supported values for DatabaseConfig.Driver.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
	Convert  ConvertConfig
}

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	// Driver selects the SQL dialect: mysql, postgres or sqlite (default: mysql)
	Driver string `env:"DB_DRIVER" default:"mysql"`

	// Host is the database server host (default: localhost)
	Host string `env:"MYSQL_HOST" envAlt:"DB_HOST" default:"localhost"`

	// Port is the database server port (default: 3306)
	Port int `env:"MYSQL_PORT" envAlt:"DB_PORT" default:"3306"`

	// User is the login user (default: root)
	User string `env:"MYSQL_USER" envAlt:"DB_USER" default:"root"`

	// Password is the login password (default: empty)
	Password string `env:"MYSQL_PASSWORD" envAlt:"DB_PASSWORD"`

	// Name is the database name, or the file path when Driver is sqlite
	Name string `env:"MYSQL_DB" envAlt:"DB_NAME" default:"legacy_escolar"`

	// ConnectTimeout bounds the initial connection and ping (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`

	// QueryTimeout bounds each menu operation (default: 30s)
	QueryTimeout time.Duration `env:"DB_QUERY_TIMEOUT" default:"30s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is an optional log file path; logs go to stderr when empty
	File string `env:"LOG_FILE"`
}

// ConvertConfig holds settings for the legacy table converter.
type ConvertConfig struct {
	// LegacyDir holds the .DBF inputs (default: conversion/legacy)
	LegacyDir string `env:"CONVERT_LEGACY_DIR" default:"conversion/legacy"`

	// OutputDir receives the CSV outputs (default: conversion/converted)
	OutputDir string `env:"CONVERT_OUTPUT_DIR" default:"conversion/converted"`

	// Encoding is the text encoding of the legacy tables (default: latin1)
	Encoding string `env:"CONVERT_ENCODING" default:"latin1"`
}

// Addr returns the database address in host:port format.
func (c *DatabaseConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String returns a safe representation of the database settings for logging.
func (c *DatabaseConfig) String() string {
	password := ""
	if c.Password != "" {
		password = "[MASKED]"
	}
	return fmt.Sprintf("{Driver: %q, Addr: %q, User: %q, Password: %q, Name: %q}",
		c.Driver, c.Addr(), c.User, password, c.Name)
}

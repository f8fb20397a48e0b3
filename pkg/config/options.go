package config

import (
	"log/slog"
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "disable", "require", "verify-ca", "verify-full":
			c.Database.SSLMode = s
		default:
			slog.Warn("Ignoring invalid SSL mode", "value", s)
		}
	}
}

// OptDatabaseBatchSize sets the number of records per bulk-insert batch.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptBSDataDir sets the local checkout directory of the rules data.
func OptBSDataDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("BSData Dir", s) {
			c.BSData.Dir = s
		}
	}
}

// OptBSDataRepoURL sets the upstream rules-data repository.
func OptBSDataRepoURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("BSData RepoURL", s) {
			c.BSData.RepoURL = s
		}
	}
}

// OptCataloguesFile sets the path to catalogues.yaml.
func OptCataloguesFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Catalogues File", s) {
			c.BSData.CataloguesFile = s
		}
	}
}

// OptLogFormat sets the log output format ('json' or 'text').
func OptLogFormat(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "json", "text":
			c.Log.Format = s
		default:
			slog.Warn("Ignoring invalid log format", "value", s)
		}
	}
}

// OptLogLevel sets the log level.
func OptLogLevel(s string) Option {
	s = strings.ToLower(strings.TrimSpace(s))
	return func(c *Config) {
		switch s {
		case "debug", "info", "warn", "error":
			c.Log.Level = s
		default:
			slog.Warn("Ignoring invalid log level", "value", s)
		}
	}
}

// OptHomeDir sets the home directory for config, data and rules output.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Dir", s) {
			c.HomeDir = s
		}
	}
}

func isValidString(name, s string) bool {
	if s == "" {
		slog.Warn("Ignoring empty value", "option", name)
		return false
	}
	return true
}

func isValidInt(name string, i int) bool {
	if i <= 0 {
		slog.Warn("Ignoring non-positive value", "option", name, "value", i)
		return false
	}
	return true
}

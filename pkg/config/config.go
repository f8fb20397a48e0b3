// Package config provides configuration management for rosterdb.
//
// This package has no I/O dependencies. File and environment loading
// lives in internal/ioconfig.
//
// Precedence (highest to lowest): CLI flags > env vars > rosterdb.yaml
// > defaults. Environment variables use the ROSTERDB_ prefix with
// underscores for nesting (database.host -> ROSTERDB_DATABASE_HOST).
package config

// Config represents the complete rosterdb configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// BSData contains settings for the rules-data checkout and the
	// catalogues to load from it.
	BSData BSDataConfig `mapstructure:"bsdata" yaml:"bsdata"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// HomeDir determines where config, data and rules output reside.
	// Set by the CLI during init; no default.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize is the number of records per bulk-insert batch during
	// catalogue population.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// BSDataConfig contains settings for the BattleScribe data checkout.
type BSDataConfig struct {
	// Dir is the local checkout of the rules-data repository.
	// Empty means <HomeDir>/bsdata.
	Dir string `mapstructure:"dir" yaml:"dir"`

	// RepoURL is the upstream rules-data repository.
	RepoURL string `mapstructure:"repo_url" yaml:"repo_url"`

	// CataloguesFile is the path to catalogues.yaml describing the
	// faction catalogue, game-system file and shared catalogues.
	// Empty means the built-in Solar Auxilia set.
	CataloguesFile string `mapstructure:"catalogues_file" yaml:"catalogues_file"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format" yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level" yaml:"level"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "rosterdb",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		BSData: BSDataConfig{
			RepoURL: "https://github.com/BSData/horus-heresy-3rd-edition",
		},
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
	}

	return res
}

// Update applies Option functions to the config.
func (c *Config) Update(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Package ioconfig loads rosterdb configuration from the home
// directory, environment and an optional explicit file.
// This is an impure package handling file-system and environment
// operations; the configuration type itself lives in pkg/config.
package ioconfig

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/hhlist/rosterdb/pkg/config"
)

// ConfigFileName is the config file rosterdb looks for in its home
// directory.
const ConfigFileName = "rosterdb.yaml"

// HomeDir returns rosterdb's home directory, ~/.rosterdb by default.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user home directory: %w", err)
	}
	return filepath.Join(home, ".rosterdb"), nil
}

// Load builds the effective configuration for one run.
// Precedence: env vars > config file > defaults. A missing config file
// in the home directory is generated from the embedded template; an
// explicitly named file that does not exist is an error.
func Load(homeDir, explicitPath string) (*config.Config, error) {
	cfg := config.New()
	cfg.Update(config.OptHomeDir(homeDir))

	if explicitPath == "" {
		if err := GenerateDefaultConfig(homeDir); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ROSTERDB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v, cfg)

	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	} else {
		v.SetConfigFile(filepath.Join(homeDir, ConfigFileName))
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("cannot read config file: %w", err)
	}

	cfg.Update(configOpts(v)...)

	if cfg.BSData.Dir == "" {
		cfg.Update(config.OptBSDataDir(filepath.Join(homeDir, "bsdata")))
	}

	slog.Debug("Loaded configuration",
		"file", v.ConfigFileUsed(),
		"database", cfg.Database.Database,
		"bsdata_dir", cfg.BSData.Dir,
	)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv resolves ROSTERDB_*
// variables even when the config file omits them.
func setDefaults(v *viper.Viper, cfg *config.Config) {
	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.database", cfg.Database.Database)
	v.SetDefault("database.ssl_mode", cfg.Database.SSLMode)
	v.SetDefault("database.batch_size", cfg.Database.BatchSize)
	v.SetDefault("bsdata.dir", cfg.BSData.Dir)
	v.SetDefault("bsdata.repo_url", cfg.BSData.RepoURL)
	v.SetDefault("bsdata.catalogues_file", cfg.BSData.CataloguesFile)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.level", cfg.Log.Level)
}

// configOpts converts the resolved viper values into config options.
// The Opt functions reject invalid values themselves; optional paths
// that resolve empty are simply not applied.
func configOpts(v *viper.Viper) []config.Option {
	opts := []config.Option{
		config.OptDatabaseHost(v.GetString("database.host")),
		config.OptDatabasePort(v.GetInt("database.port")),
		config.OptDatabaseUser(v.GetString("database.user")),
		config.OptDatabasePassword(v.GetString("database.password")),
		config.OptDatabaseDatabase(v.GetString("database.database")),
		config.OptDatabaseSSLMode(v.GetString("database.ssl_mode")),
		config.OptDatabaseBatchSize(v.GetInt("database.batch_size")),
		config.OptBSDataRepoURL(v.GetString("bsdata.repo_url")),
		config.OptLogFormat(v.GetString("log.format")),
		config.OptLogLevel(v.GetString("log.level")),
	}
	if dir := v.GetString("bsdata.dir"); dir != "" {
		opts = append(opts, config.OptBSDataDir(dir))
	}
	if path := v.GetString("bsdata.catalogues_file"); path != "" {
		opts = append(opts, config.OptCataloguesFile(path))
	}
	return opts
}

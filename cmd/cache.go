package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/changetree/internal/contract"
	"github.com/huangsam/changetree/internal/iocache"
	"github.com/huangsam/changetree/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
func cacheSetup() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper opens the configured store for status and clear.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	if err := cacheSetup(); err != nil {
		return err
	}
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// cacheCmd focused on cache management.
//
// Cache subcommands skip sharedSetup, so no Git repository is needed.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the Git history cache",
	Long: `Manage the cache of parsed Git history that speeds up repeated runs.

Changetree caches the parsed commit list (never the computed tree) keyed by
repository, time window, and HEAD commit. The tree is always rebuilt in memory.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None

Subcommands:
  status  - Show cache statistics and connection info
  clear   - Remove all cached data
  migrate - Move the cache schema to a given version`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached Git history",
	Long: `Delete all cached Git history from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes every cached row

Examples:
  changetree cache clear
  CHANGETREE_CACHE_BACKEND=mysql CHANGETREE_CACHE_DB_CONNECT="..." changetree cache clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, entry count, entry age range, and table size of the history cache.

Examples:
  changetree cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("no cache store for backend %s", cfg.CacheBackend))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}

// cacheMigrateCmd moves the cache schema between versions.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run cache schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the history cache table.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  changetree cache migrate

  # Rollback to the initial state
  changetree cache migrate --target-version 0`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return cacheSetup()
	},
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		result, err := iocache.MigrateCache(cfg.CacheBackend, cfg.CacheDBConnect, targetVersion)
		if err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		iocache.PrintMigrationResult(os.Stdout, result)
	},
}

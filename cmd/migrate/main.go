// Command migrate prepares the durable storage backend.
//
// For Spanner it ensures the instance and database exist (emulator friendly)
// and applies migrations/*.sql in lexical order. For SQLite it creates the
// kv_store table in the configured file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/storefront/internal/pkg/storage"
)

var (
	driver     = flag.String("driver", getEnvOrDefault("STORAGE_DRIVER", storage.DriverSpanner), "storage driver to migrate (spanner|sqlite)")
	sqlitePath = flag.String("sqlite", getEnvOrDefault("SQLITE_PATH", "storefront.db"), "SQLite database file")
	projectID  = flag.String("project", getEnvOrDefault("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	instanceID = flag.String("instance", getEnvOrDefault("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	databaseID = flag.String("database", getEnvOrDefault("SPANNER_DATABASE_ID", "storefront-db"), "Spanner database ID")
	migrateDir = flag.String("migrations", "migrations", "Directory containing migration SQL files")
)

func main() {
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx := context.Background()
	switch *driver {
	case storage.DriverSQLite:
		err = migrateSQLite(ctx, logger)
	case storage.DriverSpanner:
		if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
			logger.Info("using spanner emulator", zap.String("host", host))
		}
		err = migrateSpanner(ctx, logger)
	default:
		err = fmt.Errorf("driver %q has no schema to migrate", *driver)
	}
	if err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("migrations completed")
}

func migrateSQLite(ctx context.Context, logger *zap.Logger) error {
	s, err := storage.OpenSQLite(ctx, *sqlitePath)
	if err != nil {
		return err
	}
	logger.Info("sqlite schema ready", zap.String("path", *sqlitePath))
	return s.Close()
}

func migrateSpanner(ctx context.Context, logger *zap.Logger) error {
	if err := ensureInstance(ctx, logger); err != nil {
		return fmt.Errorf("failed to ensure instance: %w", err)
	}

	adminClient, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	if err := ensureDatabase(ctx, adminClient, logger); err != nil {
		return fmt.Errorf("failed to ensure database: %w", err)
	}
	return applyMigrations(ctx, adminClient, logger)
}

func ensureInstance(ctx context.Context, logger *zap.Logger) error {
	instanceAdmin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("failed to create instance admin client: %w", err)
	}
	defer instanceAdmin.Close()

	name := fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID)
	_, err = instanceAdmin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: name})
	if err == nil {
		logger.Info("instance exists", zap.String("instance", name))
		return nil
	}
	if status.Code(err) != codes.NotFound {
		logger.Warn("unexpected error checking instance", zap.Error(err))
		return nil
	}

	op, err := instanceAdmin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", *projectID),
		InstanceId: *instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", *projectID),
			DisplayName: "Storefront",
			NodeCount:   1,
		},
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil && status.Code(err) != codes.AlreadyExists {
		logger.Warn("instance creation did not finish cleanly", zap.Error(err))
	}
	logger.Info("instance created", zap.String("instance", name))
	return nil
}

func ensureDatabase(ctx context.Context, adminClient *database.DatabaseAdminClient, logger *zap.Logger) error {
	_, err := adminClient.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			logger.Warn("proceeding despite database check error", zap.Error(err))
			return nil
		}
		return fmt.Errorf("failed to check database: %w", err)
	}

	op, err := adminClient.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          fmt.Sprintf("projects/%s/instances/%s", *projectID, *instanceID),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", *databaseID),
	})
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("failed to wait for database creation: %w", err)
	}
	logger.Info("database created", zap.String("database", databasePath()))
	return nil
}

func applyMigrations(ctx context.Context, adminClient *database.DatabaseAdminClient, logger *zap.Logger) error {
	files, err := filepath.Glob(filepath.Join(*migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}
	if len(files) == 0 {
		logger.Info("no migration files found", zap.String("dir", *migrateDir))
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}

		op, err := adminClient.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   databasePath(),
			Statements: splitDDLStatements(string(content)),
		})
		if err != nil {
			return fmt.Errorf("failed to start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			// Re-running against a migrated database reports duplicate tables.
			if alreadyApplied(err) {
				logger.Info("migration already applied", zap.String("file", name))
				continue
			}
			return fmt.Errorf("failed to apply DDL for %s: %w", name, err)
		}
		logger.Info("migration applied", zap.String("file", name))
	}
	return nil
}

func databasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", *projectID, *instanceID, *databaseID)
}

func alreadyApplied(err error) bool {
	if status.Code(err) == codes.AlreadyExists {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate name in schema")
}

// splitDDLStatements drops comment and blank lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

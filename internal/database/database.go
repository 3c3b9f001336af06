// Package database handles the PostgreSQL connection.
package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"pos_backend/pkg/utils"
)

// InitDB opens the PostgreSQL connection pool described by the DB_*
// environment variables and verifies it with a ping. When DB_SCHEMA_PATH
// is set, the schema file is applied on startup.
func InitDB() (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		utils.Getenv("DB_HOST", "localhost"),
		utils.Getenv("DB_PORT", "5432"),
		utils.Getenv("DB_USER", "postgres"),
		utils.Getenv("DB_PASSWORD", "postgres"),
		utils.Getenv("DB_NAME", "pos"),
		utils.Getenv("DB_SSLMODE", "disable"),
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if schemaPath := os.Getenv("DB_SCHEMA_PATH"); schemaPath != "" {
		if err := applySchema(db, schemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	utils.LogInfo("Database connection established")
	return db, nil
}

func applySchema(db *sql.DB, path string) error {
	schema, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schema file %s: %w", path, err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"path": path})
	return nil
}

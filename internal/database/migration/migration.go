package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		// users and lawyer_clients are owned by the portal; created here only
		// so a standalone deployment can boot. The portal's own migrations win
		// when the tables already exist.
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL UNIQUE,
  role       TEXT        NOT NULL CHECK (role IN ('lawyer', 'client', 'admin')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_lawyer_clients",
		SQL: `CREATE TABLE IF NOT EXISTS lawyer_clients (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  lawyer_id  UUID        NOT NULL REFERENCES users (id),
  client_id  UUID        NOT NULL REFERENCES users (id),
  status     TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('active', 'pending', 'archived')),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (lawyer_id, client_id)
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                 UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  lawyer_id          UUID        NOT NULL REFERENCES users (id),
  client_id          UUID        NOT NULL REFERENCES users (id),
  title              TEXT        NOT NULL CHECK (char_length(title) BETWEEN 3 AND 200),
  description        TEXT        NOT NULL DEFAULT '' CHECK (char_length(description) <= 1000),
  category           TEXT        NOT NULL DEFAULT 'other',
  status             TEXT        NOT NULL DEFAULT 'pending_review',
  priority           TEXT        NOT NULL DEFAULT '',
  tags               JSONB       NOT NULL DEFAULT '[]'::jsonb,
  file_name          TEXT        NOT NULL UNIQUE,
  original_file_name TEXT        NOT NULL,
  storage_path       TEXT        NOT NULL UNIQUE,
  file_size          BIGINT      NOT NULL CHECK (file_size >= 0),
  mime_type          TEXT        NOT NULL,
  uploaded_by        UUID        NOT NULL,
  reviewed_by        TEXT        NOT NULL DEFAULT '',
  reviewed_at        TIMESTAMPTZ,
  review_notes       TEXT        NOT NULL DEFAULT '',
  is_public          BOOLEAN     NOT NULL DEFAULT FALSE,
  is_deleted         BOOLEAN     NOT NULL DEFAULT FALSE,
  download_count     INTEGER     NOT NULL DEFAULT 0 CHECK (download_count >= 0),
  last_downloaded_at TIMESTAMPTZ,
  last_downloaded_by TEXT        NOT NULL DEFAULT '',
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_lawyer",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_lawyer ON documents (lawyer_id) WHERE NOT is_deleted;`,
	},
	{
		Name: "create_index_documents_lawyer_client",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_lawyer_client ON documents (lawyer_id, client_id) WHERE NOT is_deleted;`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at);`,
	},
	{
		Name: "create_index_lawyer_clients_pair",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_lawyer_clients_pair ON lawyer_clients (lawyer_id, client_id, status);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
